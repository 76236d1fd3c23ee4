package recovery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"expensetracker/internal/log"
)

// Middleware turns a panicking handler into a 500 JSON response and logs
// the panic with its stack trace.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := log.FromContext(r.Context())
			logger.ErrorContext(r.Context(), "panic recovered",
				log.FieldError, fmt.Sprint(rec),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				"stack", string(debug.Stack()))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
		}()
		next.ServeHTTP(w, r)
	})
}
