package plugin_test

import (
	"testing"

	"github.com/NDevTK/gerrit/plugin"
)

type validator interface {
	Validate() error
}

type fakeValidator struct{ name string }

func (f *fakeValidator) Validate() error { return nil }

func TestExtension_Get(t *testing.T) {
	impl := &fakeValidator{name: "a"}
	ext := plugin.NewExtension[validator]("my-plugin", "commit", impl)

	if got := ext.PluginName(); got != "my-plugin" {
		t.Errorf("PluginName() = %q, want %q", got, "my-plugin")
	}
	if got := ext.ExportName(); got != "commit" {
		t.Errorf("ExportName() = %q, want %q", got, "commit")
	}
	got, ok := ext.Get()
	if !ok {
		t.Fatal("Get() reported absent for a present implementation")
	}
	if got != validator(impl) {
		t.Errorf("Get() returned a different implementation")
	}
}

func TestExtension_Absent(t *testing.T) {
	ext := plugin.Absent[validator]("gone-plugin", "")
	if _, ok := ext.Get(); ok {
		t.Error("Get() reported present for an absent implementation")
	}
	if got := ext.PluginName(); got != "gone-plugin" {
		t.Errorf("PluginName() = %q, want %q", got, "gone-plugin")
	}
}

func TestExtension_NilHandle(t *testing.T) {
	var ext *plugin.Extension[validator]
	if _, ok := ext.Get(); ok {
		t.Error("Get() on nil handle reported present")
	}
}

func TestItem_SetClearEntry(t *testing.T) {
	var item plugin.Item[validator]
	if item.Entry() != nil {
		t.Fatal("empty item returned an entry")
	}

	ext := plugin.NewExtension[validator]("p", "", &fakeValidator{})
	item.Set(ext)
	if got := item.Entry(); got != ext {
		t.Errorf("Entry() = %v, want the registered extension", got)
	}

	item.Clear()
	if item.Entry() != nil {
		t.Error("Entry() non-nil after Clear")
	}
}

func TestSet_AddRemoveOrder(t *testing.T) {
	var set plugin.Set[validator]
	a := plugin.NewExtension[validator]("a", "", &fakeValidator{name: "a"})
	b := plugin.NewExtension[validator]("b", "", &fakeValidator{name: "b"})
	c := plugin.NewExtension[validator]("c", "", &fakeValidator{name: "c"})

	removeA := set.Add(a)
	set.Add(b)
	set.Add(c)

	if got := set.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	entries := set.Entries()
	want := []string{"a", "b", "c"}
	for i, ext := range entries {
		if ext.PluginName() != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, ext.PluginName(), want[i])
		}
	}

	removeA()
	removeA() // idempotent
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() after remove = %d, want 2", got)
	}
	if got := set.Entries()[0].PluginName(); got != "b" {
		t.Errorf("first entry after remove = %q, want %q", got, "b")
	}
}

func TestMap_PutGetEntries(t *testing.T) {
	var m plugin.Map[validator]
	a := plugin.NewExtension[validator]("p1", "x", &fakeValidator{})
	b := plugin.NewExtension[validator]("p1", "y", &fakeValidator{})
	c := plugin.NewExtension[validator]("p0", "z", &fakeValidator{})

	m.Put(a)
	removeB := m.Put(b)
	m.Put(c)

	if got := m.Get("p1", "x"); got != a {
		t.Error("Get returned wrong extension for p1~x")
	}
	if got := m.Get("nope", ""); got != nil {
		t.Error("Get returned an extension for an unknown key")
	}

	// Entries sorted by key: p0~z, p1~x, p1~y.
	entries := m.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	if entries[0] != c || entries[1] != a || entries[2] != b {
		t.Error("Entries() not sorted by plugin~export key")
	}

	removeB()
	if m.Get("p1", "y") != nil {
		t.Error("entry still present after remove")
	}
}

func TestMap_PutReplaces(t *testing.T) {
	var m plugin.Map[validator]
	old := plugin.NewExtension[validator]("p", "x", &fakeValidator{})
	removeOld := m.Put(old)

	replacement := plugin.NewExtension[validator]("p", "x", &fakeValidator{})
	m.Put(replacement)

	// Removing the replaced registration must not drop the replacement.
	removeOld()
	if got := m.Get("p", "x"); got != replacement {
		t.Error("stale remove dropped the replacement entry")
	}
}
