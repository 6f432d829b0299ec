package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"ricemill-backend/pkg/utils"
)

// PanicRecovery turns a handler panic into a 500 JSON response so one bad
// request cannot take the server down
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
