// Package version reports build metadata set through -ldflags, e.g.
//
//	-X github.com/tablebell/restaurant-api/internal/version.Version=1.2.0
package version

import "runtime"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the build metadata served by GET /version.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
		"go":         runtime.Version(),
	}
}
