// Package plugin defines the handles through which the host borrows
// externally supplied extension implementations.
//
// An Extension pairs an implementation with the name of the plugin that
// exported it. The registry that loads and unloads plugins owns these
// handles; invocation code only borrows them for the duration of one call
// and never mutates them. An Extension whose implementation has been
// unloaded stays valid — it simply reports the implementation as absent.
//
// Item, Set and Map are the dynamic containers a registry populates:
// at most one implementation, an unordered collection, and a collection
// keyed by export name. All three are safe for concurrent use.
package plugin

// Extension identifies one resolved extension implementation together with
// its owning plugin's name and optional export name.
type Extension[T any] struct {
	pluginName string
	exportName string
	impl       T
	present    bool
}

// NewExtension creates a handle for a resolved implementation.
// exportName may be empty for plugins that export a single implementation.
func NewExtension[T any](pluginName, exportName string, impl T) *Extension[T] {
	return &Extension[T]{
		pluginName: pluginName,
		exportName: exportName,
		impl:       impl,
		present:    true,
	}
}

// Absent creates a handle whose implementation is no longer available,
// e.g. because the plugin was unloaded while a reference was still held.
func Absent[T any](pluginName, exportName string) *Extension[T] {
	return &Extension[T]{pluginName: pluginName, exportName: exportName}
}

// PluginName returns the name of the plugin that owns this extension.
func (e *Extension[T]) PluginName() string { return e.pluginName }

// ExportName returns the export name, or "" if the plugin exports a
// single unnamed implementation.
func (e *Extension[T]) ExportName() string { return e.exportName }

// Get returns the implementation and whether it is present.
func (e *Extension[T]) Get() (T, bool) {
	if e == nil {
		var zero T
		return zero, false
	}
	return e.impl, e.present
}
