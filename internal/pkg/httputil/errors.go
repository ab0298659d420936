package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
)

// InternalErrorMessage is shown for errors without a mapping. The cause is
// only logged.
const InternalErrorMessage = "Internal server error"

// ErrorMapping maps a sentinel error to a status and client-facing message.
// An empty Message exposes err.Error().
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// Match returns the first mapping whose Error is in err's chain.
func Match(err error, mappings []ErrorMapping) (ErrorMapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			if m.Message == "" {
				m.Message = err.Error()
			}
			return m, true
		}
	}
	return ErrorMapping{}, false
}

// HandleError writes the mapped response for err, or logs it and writes a
// 500 when nothing matches.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	if m, ok := Match(err, mappings); ok {
		Error(w, m.Status, m.Message)
		return
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, InternalErrorMessage)
}
