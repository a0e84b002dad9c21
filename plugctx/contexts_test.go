package plugctx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NDevTK/gerrit/cancel"
	"github.com/NDevTK/gerrit/plugctx"
	"github.com/NDevTK/gerrit/plugin"
)

func TestItemContext_EmptyIsNoop(t *testing.T) {
	installTestTracer(t)
	var item plugin.Item[validator]
	c := plugctx.NewItemContext(&item)

	if c.Present() {
		t.Error("Present() = true for empty item")
	}
	invoked := false
	c.Run(context.Background(), func(context.Context, validator) error {
		invoked = true
		return nil
	})
	if invoked {
		t.Error("action invoked for empty item")
	}
}

func TestItemContext_RunAllowing(t *testing.T) {
	installTestTracer(t)
	var item plugin.Item[validator]
	item.Set(plugin.NewExtension[validator]("p", "", fakeValidator{}))
	c := plugctx.NewItemContext(&item)

	want := cancel.NewError(cancel.ClientClosedRequest, "")
	err := c.RunAllowing(testContext(&recordingHandler{}), func(context.Context, validator) error {
		return want
	}, cancel.IsCancelled)
	if got, ok := cancel.FromError(err); !ok || got != want {
		t.Errorf("permitted error not propagated: %v", err)
	}
}

func TestCallItem_Result(t *testing.T) {
	installTestTracer(t)
	var item plugin.Item[validator]
	item.Set(plugin.NewExtension[validator]("p", "", fakeValidator{}))

	got := plugctx.CallItem(context.Background(), &item, func(context.Context, validator) bool {
		return true
	})
	if !got {
		t.Error("CallItem did not return the function result")
	}
}

func TestSetContext_RunEachContinuesPastFailures(t *testing.T) {
	installTestTracer(t)
	rec := &recordingHandler{}
	ctx := testContext(rec)

	var set plugin.Set[validator]
	set.Add(plugin.NewExtension[validator]("a", "", fakeValidator{}))
	set.Add(plugin.NewExtension[validator]("b", "", fakeValidator{}))
	set.Add(plugin.NewExtension[validator]("c", "", fakeValidator{}))
	c := plugctx.NewSetContext(&set)

	var invoked []string
	c.RunEachHandle(ctx, func(_ context.Context, e *plugin.Extension[validator]) error {
		invoked = append(invoked, e.PluginName())
		if e.PluginName() == "b" {
			return errors.New("b failed")
		}
		return nil
	})

	if len(invoked) != 3 {
		t.Errorf("invoked = %v, want all three despite b failing", invoked)
	}
	if got := rec.count("extension failed"); got != 1 {
		t.Errorf("failures logged %d times, want 1", got)
	}
}

func TestSetContext_RunEachAllowingStopsOnPermitted(t *testing.T) {
	installTestTracer(t)
	rec := &recordingHandler{}
	ctx := testContext(rec)

	var set plugin.Set[validator]
	set.Add(plugin.NewExtension[validator]("a", "", fakeValidator{}))
	set.Add(plugin.NewExtension[validator]("b", "", fakeValidator{}))
	set.Add(plugin.NewExtension[validator]("c", "", fakeValidator{}))
	c := plugctx.NewSetContext(&set)

	signal := cancel.NewError(cancel.ServerDeadlineExceeded, "deadline = 10m")
	var invoked []string
	err := c.RunEachAllowing(ctx, func(ctx context.Context, _ validator) error {
		invoked = append(invoked, "x")
		if len(invoked) == 2 {
			return signal
		}
		return nil
	}, cancel.IsCancelled)

	if got, ok := cancel.FromError(err); !ok || got != signal {
		t.Fatalf("permitted error not propagated from set iteration: %v", err)
	}
	if len(invoked) != 2 {
		t.Errorf("iteration continued after permitted error: %d invocations", len(invoked))
	}
}

func TestMapContext_RunEachDeterministicOrder(t *testing.T) {
	installTestTracer(t)

	var m plugin.Map[validator]
	m.Put(plugin.NewExtension[validator]("p2", "b", fakeValidator{}))
	m.Put(plugin.NewExtension[validator]("p1", "a", fakeValidator{}))
	c := plugctx.NewMapContext(&m)

	var order []string
	c.RunEach(context.Background(), func(_ context.Context, e *plugin.Extension[validator]) error {
		order = append(order, e.PluginName()+"~"+e.ExportName())
		return nil
	})

	if len(order) != 2 || order[0] != "p1~a" || order[1] != "p2~b" {
		t.Errorf("iteration order = %v, want [p1~a p2~b]", order)
	}
}

func TestCallMapEntry(t *testing.T) {
	installTestTracer(t)

	var m plugin.Map[validator]
	m.Put(plugin.NewExtension[validator]("p", "export", fakeValidator{}))

	got := plugctx.CallMapEntry(context.Background(), &m, "p", "export",
		func(_ context.Context, e *plugin.Extension[validator]) string {
			return e.ExportName()
		})
	if got != "export" {
		t.Errorf("CallMapEntry = %q, want %q", got, "export")
	}
}
