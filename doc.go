// Package gerrit provides the core through which a request-processing host
// invokes externally supplied plugin extensions safely, attributes their
// failures to the owning plugin, and cancels requests cooperatively.
//
// Hosts load plugin code they do not control. Calling into that code
// directly couples host stability to plugin quality, loses failure
// attribution, and gives long-running plugin work no way to observe that
// the request it serves is already dead. This module addresses all three
// as a library:
//
//   - plugctx wraps every extension call in a trace scope and classifies
//     the outcome, so a misbehaving plugin is logged and contained instead
//     of failing the request.
//   - trace carries attribution tags on the context and stamps them onto
//     every log record and span emitted while plugin code runs.
//   - cancel models cooperative cancellation: long-running code polls a
//     checkpoint which either returns or yields an immutable cancellation
//     error carrying the reason.
//   - httpd translates a surviving cancellation into the exact status code
//     and body the REST layer must emit.
//
// # Quick Start
//
//	item := &plugin.Item[Validator]{}
//	item.Set(plugin.NewExtension("my-plugin", "", myValidator))
//
//	plugctx.NewItemContext(item).Run(ctx, func(ctx context.Context, v Validator) error {
//	    if err := cancel.Check(ctx); err != nil {
//	        return err
//	    }
//	    return v.Validate(ctx, args)
//	})
//
// Cancellation is strictly cooperative. Nothing in this module interrupts a
// running extension; code that never calls cancel.Check runs to completion
// even after its deadline.
package gerrit
