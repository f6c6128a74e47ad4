package http

import (
	"net/http"

	"github.com/google/uuid"
)

// requestID tags every response so log lines and client reports can be
// correlated.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}
