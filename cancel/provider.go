package cancel

import (
	"context"
	"fmt"
	"time"
)

// DeadlineProvider reports cancellation once a fixed point in time has
// passed. The Reason distinguishes a client-provided deadline from the
// server's ceiling.
type DeadlineProvider struct {
	reason   Reason
	deadline time.Time
	message  string
}

// NewDeadline creates a provider that cancels with the given reason and
// message once deadline has passed.
func NewDeadline(reason Reason, deadline time.Time, message string) *DeadlineProvider {
	return &DeadlineProvider{reason: reason, deadline: deadline, message: message}
}

// NewClientDeadline creates a provider for a client-provided timeout
// starting at now.
func NewClientDeadline(now time.Time, timeout time.Duration) *DeadlineProvider {
	return NewDeadline(ClientProvidedDeadlineExceeded, now.Add(timeout), DeadlineMessage(timeout))
}

// NewServerDeadline creates a provider for the server-enforced timeout
// ceiling starting at now.
func NewServerDeadline(now time.Time, timeout time.Duration) *DeadlineProvider {
	return NewDeadline(ServerDeadlineExceeded, now.Add(timeout), DeadlineMessage(timeout))
}

// DeadlineMessage formats the diagnostic message carried by deadline
// cancellations.
func DeadlineMessage(timeout time.Duration) string {
	return fmt.Sprintf("deadline = %s", timeout)
}

// CheckCancelled implements StateProvider.
func (p *DeadlineProvider) CheckCancelled() *Error {
	if time.Now().Before(p.deadline) {
		return nil
	}
	return NewError(p.reason, p.message)
}

// ContextProvider makes a context's own cancellation observable as a
// checkpoint condition. A cancelled context maps to ClientClosedRequest
// (the HTTP server cancels the request context when the client goes away);
// an exceeded context deadline maps to the configured deadline reason,
// since the context alone cannot tell a client-provided deadline from a
// server-enforced one.
type ContextProvider struct {
	ctx            context.Context
	deadlineReason Reason
	message        string
}

// NewContextProvider watches ctx. deadlineReason is reported when the
// context's deadline expires; message is attached to deadline
// cancellations and may be empty.
func NewContextProvider(ctx context.Context, deadlineReason Reason, message string) *ContextProvider {
	return &ContextProvider{ctx: ctx, deadlineReason: deadlineReason, message: message}
}

// CheckCancelled implements StateProvider.
func (p *ContextProvider) CheckCancelled() *Error {
	switch p.ctx.Err() {
	case context.Canceled:
		return NewError(ClientClosedRequest, "")
	case context.DeadlineExceeded:
		return NewError(p.deadlineReason, p.message)
	default:
		return nil
	}
}
