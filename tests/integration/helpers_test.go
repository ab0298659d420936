//go:build integration

package integration

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/testutil"
)

const (
	createAccountMutation = `mutation($input: CreateAccountInput!) { createAccount(input: $input) { isSuccess error } }`
	loginMutation         = `mutation($input: LoginInput!) { login(input: $input) { isSuccess error token } }`
	createRestaurant      = `mutation($input: CreateRestaurantInput!) { createRestaurant(input: $input) { isSuccess error } }`
	updateRestaurant      = `mutation($input: UpdateRestaurantInput!) { updateRestaurant(input: $input) { isSuccess error } }`
	restaurantQuery       = `query($input: RestaurantInput!) { restaurant(input: $input) { isSuccess error restaurant { id name address owner { email } category { slug } dishes { id name price } } } }`
)

type loginResult struct {
	testutil.Envelope
	Token *string `json:"token"`
}

var emailSeq atomic.Int64

// uniqueEmail returns a fresh address so tests sharing one database do not
// collide.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@restaurant.test", prefix, emailSeq.Add(1))
}

// registerAndLogin creates an account with role and returns a client that
// carries its token.
func registerAndLogin(t *testing.T, email, role string) *testutil.Client {
	t.Helper()

	var created testutil.Envelope
	testClient.MustDo(t, createAccountMutation, testutil.Input(map[string]interface{}{
		"email": email, "password": defaultPassword, "role": role,
	}), "createAccount", &created)
	require.True(t, created.IsSuccess, "create account: %v", created.Error)

	var login loginResult
	testClient.MustDo(t, loginMutation, testutil.Input(map[string]interface{}{
		"email": email, "password": defaultPassword,
	}), "login", &login)
	require.True(t, login.IsSuccess, "login: %v", login.Error)
	require.NotNil(t, login.Token)

	return testClient.WithToken(*login.Token)
}

// createOwnedRestaurant creates a restaurant as owner and returns its id.
func createOwnedRestaurant(t *testing.T, owner *testutil.Client, name, categoryName string) int64 {
	t.Helper()

	var res testutil.Envelope
	owner.MustDo(t, createRestaurant, testutil.Input(map[string]interface{}{
		"name": name, "backgroundImage": "https://img.test/bg.png", "address": "1 Main st", "categoryName": categoryName,
	}), "createRestaurant", &res)
	require.True(t, res.IsSuccess, "create restaurant: %v", res.Error)

	var id int64
	err := testDB.QueryRow(t.Context(), `SELECT id FROM restaurants WHERE name = $1 ORDER BY id DESC LIMIT 1`, name).Scan(&id)
	require.NoError(t, err)
	return id
}
