// Package cancel implements cooperative request cancellation.
//
// Cancellation is never preemptive. Long-running host and plugin code
// calls Check at points where continuing work is expensive — before a
// costly validation, inside a loop over many items, before acquiring a
// lock. Check either returns nil or an immutable *Error carrying the
// Reason the request must stop. Code that never checks runs to completion
// even after its deadline.
//
// What makes a request cancelled is pluggable: zero or more StateProviders
// are attached to the request context, each watching one condition (client
// connection liveness, a client-provided deadline, the server's deadline
// ceiling). The first provider observed to report a cancellation wins.
package cancel

import (
	"context"
	"errors"
)

// Reason is the closed enumeration of why a request was cancelled.
type Reason int

const (
	// ClientClosedRequest means the client disconnected before the
	// response was produced.
	ClientClosedRequest Reason = iota

	// ClientProvidedDeadlineExceeded means the deadline the client
	// attached to the request expired.
	ClientProvidedDeadlineExceeded

	// ServerDeadlineExceeded means the server-enforced deadline ceiling
	// expired.
	ServerDeadlineExceeded
)

// String returns the human-readable phrase for the reason. These phrases
// are part of the response contract and must not change.
func (r Reason) String() string {
	switch r {
	case ClientClosedRequest:
		return "Client Closed Request"
	case ClientProvidedDeadlineExceeded:
		return "Client Provided Deadline Exceeded"
	case ServerDeadlineExceeded:
		return "Server Deadline Exceeded"
	default:
		return "Unknown Cancellation Reason"
	}
}

// Error signals that the current request was cancelled. It is immutable
// once constructed and is propagated like any other error until a harness
// permits it through or the boundary translates it into a response.
type Error struct {
	reason  Reason
	message string
}

// NewError creates a cancellation error. message may be empty; when set it
// carries diagnostic detail (e.g. the deadline that expired) to the client.
func NewError(reason Reason, message string) *Error {
	return &Error{reason: reason, message: message}
}

// Reason returns why the request was cancelled.
func (e *Error) Reason() Reason { return e.reason }

// Message returns the optional diagnostic message.
func (e *Error) Message() (string, bool) {
	return e.message, e.message != ""
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.message != "" {
		return "request cancelled: " + e.reason.String() + ": " + e.message
	}
	return "request cancelled: " + e.reason.String()
}

// IsCancelled reports whether err is or wraps a cancellation *Error.
// Its signature matches plugctx.Matcher so it can be passed directly as
// the permitted error kind on harness calls.
func IsCancelled(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// FromError extracts the cancellation error wrapped in err, if any.
func FromError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// StateProvider watches one external condition that can cancel a request.
// Implementations run no machinery of their own on behalf of the caller;
// they only make an already-arisen condition observable to Check.
type StateProvider interface {
	// CheckCancelled returns a cancellation error if the provider's
	// condition has arisen, or nil.
	CheckCancelled() *Error
}

type providersKey struct{}

// WithProviders attaches providers to the context, after any already
// present. Providers are consulted by Check in attachment order.
func WithProviders(ctx context.Context, ps ...StateProvider) context.Context {
	if len(ps) == 0 {
		return ctx
	}
	existing := providersFrom(ctx)
	combined := make([]StateProvider, 0, len(existing)+len(ps))
	combined = append(combined, existing...)
	combined = append(combined, ps...)
	return context.WithValue(ctx, providersKey{}, combined)
}

func providersFrom(ctx context.Context) []StateProvider {
	ps, _ := ctx.Value(providersKey{}).([]StateProvider)
	return ps
}

// Check is the checkpoint long-running code polls. It returns nil when no
// cancellation is pending, or the *Error from the first provider that
// reports one. There is no ordering guarantee among concurrently-arising
// conditions beyond "first observed".
func Check(ctx context.Context) error {
	for _, p := range providersFrom(ctx) {
		if ce := p.CheckCancelled(); ce != nil {
			return ce
		}
	}
	return nil
}
