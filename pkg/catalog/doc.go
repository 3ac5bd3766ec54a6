// Package catalog defines the palette of field templates a form builder
// offers. Templates are immutable; the set of field kinds is closed and every
// switch over FieldKind is expected to be exhaustive. Catalog definitions can
// be relabelled through YAML documents and hot reloaded with Watcher.
package catalog
