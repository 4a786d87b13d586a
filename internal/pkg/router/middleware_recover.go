package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/tenangapp/tenang/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a handler panic into a 500 instead of a dead
// connection. http.ErrAbortHandler is re-raised untouched, the server uses
// it to abort the response on purpose.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // sentinel identity, not an error chain
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logPanic(r, rvr)

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			// An upgraded connection already sent its status line.
			if r.Header.Get("Connection") != "Upgrade" {
				w.WriteHeader(http.StatusInternalServerError)
			}
			//nolint:errcheck // the connection is beyond saving here
			json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
		}()

		next.ServeHTTP(w, r)
	})
}

// logPanic prefers the trimmed in-repo frames; the full stack only appears
// when trimming left nothing to point at.
func logPanic(r *http.Request, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(stack))
}
