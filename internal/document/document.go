// Package document provides the in-memory representation of a persisted
// document: a string-keyed mapping that preserves insertion order, so the
// query surface (keys, entries, first/last, indexOf) and the encoder can
// traverse variables in a stable, decode-faithful order.
package document

import (
	"github.com/TFAGaming/quick-yaml.db/internal/util"
)

// Document is the full key-value state of a store at a point in time. It only
// exists transiently: as the result of a load, the argument to a write, or
// the store's cache. It is not safe for concurrent use; the owning store
// serializes access.
type Document struct {
	order  []string
	values map[string]interface{}
}

// New creates an empty document.
func New() *Document {
	return &Document{
		values: make(map[string]interface{}),
	}
}

// Len returns the number of variables in the document.
func (d *Document) Len() int {
	return len(d.order)
}

// Has reports whether the variable exists.
func (d *Document) Has(variable string) bool {
	_, ok := d.values[variable]
	return ok
}

// Get returns the value for the variable and whether it exists. The value is
// returned by reference; callers needing isolation copy at a higher layer.
func (d *Document) Get(variable string) (interface{}, bool) {
	v, ok := d.values[variable]
	return v, ok
}

// Set assigns the value for the variable, overwriting silently if it already
// exists. New variables are appended to the traversal order.
func (d *Document) Set(variable string, value interface{}) {
	if _, exists := d.values[variable]; !exists {
		d.order = append(d.order, variable)
	}
	d.values[variable] = value
}

// Delete removes the variable and reports whether it was present.
func (d *Document) Delete(variable string) bool {
	if _, exists := d.values[variable]; !exists {
		return false
	}
	delete(d.values, variable)
	for i, k := range d.order {
		if k == variable {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the variables in traversal order. The returned slice is a
// copy.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.order))
	copy(keys, d.order)
	return keys
}

// Values returns the values in traversal order, by reference.
func (d *Document) Values() []interface{} {
	vals := make([]interface{}, 0, len(d.order))
	for _, k := range d.order {
		vals = append(vals, d.values[k])
	}
	return vals
}

// At returns the variable and value at the given position in traversal order.
// The bool result is false when the index is out of range.
func (d *Document) At(index int) (string, interface{}, bool) {
	if index < 0 || index >= len(d.order) {
		return "", nil, false
	}
	k := d.order[index]
	return k, d.values[k], true
}

// IndexOf returns the position of the variable in traversal order, or -1.
func (d *Document) IndexOf(variable string) int {
	for i, k := range d.order {
		if k == variable {
			return i
		}
	}
	return -1
}

// Map returns the underlying mapping, by reference. Intended for validation
// layers that only read the structure.
func (d *Document) Map() map[string]interface{} {
	return d.values
}

// Clone returns a deep copy of the document. The clone shares no mutable
// state with the original, which is what lets the store hand out snapshots
// without exposing its cache to caller mutation.
func (d *Document) Clone() *Document {
	cpy := &Document{
		order:  make([]string, len(d.order)),
		values: make(map[string]interface{}, len(d.values)),
	}
	copy(cpy.order, d.order)
	for k, v := range d.values {
		cpy.values[k] = util.DeepCopy(v)
	}
	return cpy
}
