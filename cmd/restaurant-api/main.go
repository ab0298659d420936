// Command restaurant-api serves the restaurant GraphQL API.
package main

import "github.com/tablebell/restaurant-api/cmd/restaurant-api/cmd"

func main() {
	cmd.Execute()
}
