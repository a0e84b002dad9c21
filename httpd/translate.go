// Package httpd is the request boundary of the invocation core.
//
// It translates a cancellation that survived the invocation harness into
// the status code and body the REST layer must emit, and installs the
// request-state providers that make client disconnects and deadlines
// observable to checkpoints. It deliberately has no router of its own; the
// host's REST layer mounts these handlers and middleware.
package httpd

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/NDevTK/gerrit/cancel"
)

// StatusClientClosedRequest is the non-standard status code (nginx
// convention) reported when the client went away before the response.
const StatusClientClosedRequest = 499

// statusFor maps a cancellation reason to its response status. Adding a
// Reason requires extending this switch together with the enumeration.
func statusFor(reason cancel.Reason) int {
	switch reason {
	case cancel.ClientClosedRequest:
		return StatusClientClosedRequest
	case cancel.ClientProvidedDeadlineExceeded, cancel.ServerDeadlineExceeded:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the exact response body for a cancellation: the reason
// phrase, then — if a message is present — a literal blank line and the
// message. The blank line is a separator the response contract fixes
// byte-for-byte, not formatting.
func Body(cerr *cancel.Error) string {
	body := cerr.Reason().String()
	if msg, ok := cerr.Message(); ok {
		body += "\n\n" + msg
	}
	return body
}

// WriteCancelled writes the status and body for a cancelled request.
func WriteCancelled(w http.ResponseWriter, cerr *cancel.Error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusFor(cerr.Reason()))
	_, _ = io.WriteString(w, Body(cerr))
}

// Handler is an http handler that may fail with an error, letting the
// boundary own status code selection.
type Handler func(http.ResponseWriter, *http.Request) error

// Translate adapts h into an http.Handler. A returned cancellation error
// becomes the status/body pair from the translation table. A context
// sentinel that reached the boundary untranslated is resolved by asking
// the request's own checkpoint which condition arose. Anything else is an
// internal error: logged with its cause, reported to the client without it.
func Translate(h Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		ctx := r.Context()

		cerr, ok := cancel.FromError(err)
		if !ok {
			if checkErr := cancel.Check(ctx); checkErr != nil {
				// The handler surfaced a bare context error; the
				// providers know the actual reason.
				cerr, ok = cancel.FromError(checkErr)
			}
		}
		if ok {
			logger.InfoContext(ctx, "request cancelled",
				slog.String("reason", cerr.Reason().String()),
			)
			WriteCancelled(w, cerr)
			return
		}

		logger.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}
