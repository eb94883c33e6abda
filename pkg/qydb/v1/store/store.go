// Package store defines the public contract of a quick-yaml.db store: the
// mutation and query surface over a single YAML document persisted on disk.
package store

import (
	qylog "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/log"
	qymetrics "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/metrics"
	"github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/model"
)

// Entry is a labeled variable/value pair, used by Find, Pick, and Entries so
// downstream code can disambiguate which variable a value belongs to. Exists
// is false only for Find results on a missing variable; Pick and Entries
// never emit entries for missing variables.
type Entry struct {
	Variable string      `yaml:"variable" json:"variable"`
	Value    interface{} `yaml:"value" json:"value"`
	Exists   bool        `yaml:"-" json:"-"`
}

// Store is the public interface of a YAML-backed key-value store. All
// operations are synchronous and blocking: every mutation re-reads the
// current document (from cache or disk), applies the change, and rewrites the
// whole file before returning. A store assumes a single writer; concurrent
// mutation of the same path from multiple processes is out of contract.
//
// Reads always reflect the latest successful write made through the same
// store instance.
type Store interface {
	// Set assigns the value for the variable and persists the document.
	// An existing value is overwritten silently; there are no merge
	// semantics for nested values.
	Set(variable string, value interface{}) error
	// Delete removes the variable if present and persists. Deleting a
	// missing variable is a no-op: no error, no write.
	Delete(variable string) error
	// Purge removes every present variable among those given with a single
	// write at the end. When none of the variables are present no write is
	// performed.
	Purge(variables ...string) error
	// Clear replaces the document with an empty one. An empty document is
	// persisted as a zero-length file, not as an empty mapping literal.
	Clear() error
	// Push appends the given values, in order, to the sequence stored under
	// the variable and returns the new sequence length. It returns -1 with
	// a nil error when the variable is absent (no write occurs), and -1
	// with a TypeMismatchError when the current value is not a sequence.
	Push(variable string, values ...interface{}) (int, error)
	// Pull removes from the sequence stored under the variable every
	// element structurally equal to any of the given values, then persists
	// exactly once (even when nothing matched) and returns the resulting
	// length. It returns -1 with a nil error when the variable is absent.
	Pull(variable string, values ...interface{}) (int, error)

	// Get returns the value for the variable and whether it exists.
	Get(variable string) (interface{}, bool, error)
	// Has reports whether the variable exists.
	Has(variable string) (bool, error)
	// Ensure behaves like Get but substitutes fallback when the variable is
	// absent. The fallback is never persisted.
	Ensure(variable string, fallback interface{}) (interface{}, error)
	// Find returns a labeled entry for the variable. A missing variable is
	// not an error; the entry's Exists field is false.
	Find(variable string) (Entry, error)
	// Pick returns labeled entries for the given variables in argument
	// order, skipping variables that are not present. The result may be
	// shorter than the input.
	Pick(variables ...string) ([]Entry, error)
	// Size returns the number of variables in the document.
	Size() (int, error)
	// Entries returns all variable/value pairs in document order.
	Entries() ([]Entry, error)
	// Keys returns all variables in document order.
	Keys() ([]string, error)
	// Values returns all values in document order.
	Values() ([]interface{}, error)
	// First returns the first value in document order, or false when the
	// document is empty.
	First() (interface{}, bool, error)
	// Last returns the last value in document order, or false when the
	// document is empty.
	Last() (interface{}, bool, error)
	// IndexOf returns the position of the variable in document order, or -1.
	IndexOf(variable string) (int, error)
	// ForEach iterates over a single consistent snapshot of the document,
	// invoking fn(value, variable, index) for each entry in order. Mutating
	// the store from fn does not affect the in-flight iteration.
	ForEach(fn func(value interface{}, variable string, index int)) error
	// Map iterates like ForEach and collects fn's return values into a
	// sequence of equal length.
	Map(fn func(value interface{}, variable string, index int) interface{}) ([]interface{}, error)

	// Path returns the document file path the store was constructed with.
	Path() string
	// Model returns the model the store was constructed with, or nil.
	Model() *model.Model
	// MetricsRegistryProvider returns the provider holding the store's
	// operation metrics.
	MetricsRegistryProvider() qymetrics.RegistryProvider
	// Close releases background resources (the file watcher, when enabled)
	// and marks the store closed; any later operation fails with a
	// ConfigError. The document file itself is left untouched.
	Close() error

	// Setter methods for configuring the store programmatically before it
	// is opened. They fail once the store has been opened.
	SetLogger(logger qylog.Logger) error
	SetModel(m *model.Model) error
	SetCacheEnabled(enabled bool) error
	SetWatchEnabled(enabled bool) error
	SetMetricsRegistryProvider(provider qymetrics.RegistryProvider) error
}
