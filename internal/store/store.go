// Package store implements the quick-yaml.db store core: construction
// checks, the load/write primitives, the cache lifecycle, and the public
// mutation and query contract over a single on-disk YAML document.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/TFAGaming/quick-yaml.db/internal/backend"
	"github.com/TFAGaming/quick-yaml.db/internal/codec"
	"github.com/TFAGaming/quick-yaml.db/internal/document"
	"github.com/TFAGaming/quick-yaml.db/internal/logger"
	"github.com/TFAGaming/quick-yaml.db/internal/metrics"
	"github.com/TFAGaming/quick-yaml.db/internal/schema"
	"github.com/TFAGaming/quick-yaml.db/internal/util"
	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
	qylog "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/log"
	qymetrics "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/metrics"
	"github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/model"
	qystore "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/store"
)

// Store is the single-writer YAML document store. Every mutation re-derives
// the current document (from cache or disk), applies the change in memory,
// and rewrites the whole file; the cache, when enabled, is resynchronized
// from the written document after every successful write.
//
// A mutex serializes operations so a Store is safe to share between
// goroutines of one process, but the on-disk file itself has no locking:
// two stores over the same path may race.
type Store struct {
	mu sync.Mutex

	path string
	log  qylog.Logger

	mdl       *model.Model
	validator *schema.Validator

	metricsProvider qymetrics.RegistryProvider
	instruments     *metrics.Instruments

	// cache mirrors the last-known document. nil means cold or invalidated;
	// the next read re-decodes the file. Never consulted when cacheEnabled
	// is false.
	cacheEnabled bool
	cache        *document.Document

	watchEnabled bool
	watch        *watcher

	opened bool
	closed bool
}

var _ qystore.Store = (*Store)(nil)

// New creates a store bound to the given document file. The path must end in
// '.yaml' or '.yml' and must already exist; the store never creates the file
// itself. The returned store is not ready until Open is called (the public
// constructor in pkg/qydb/v1 does this after applying options).
func New(path string) (*Store, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, qyerrors.NewInvalidExtensionError(path)
	}
	if !backend.Exists(path) {
		return nil, qyerrors.NewNotFoundError(path, os.ErrNotExist)
	}
	return &Store{
		path:            path,
		log:             logger.NewNopLogger(),
		metricsProvider: metrics.NewPrometheusRegistryProvider(),
		cacheEnabled:    true,
	}, nil
}

// --- configuration setters (pre-Open only) ---

func (s *Store) SetLogger(l qylog.Logger) error {
	if l == nil {
		return qyerrors.NewConfigError("logger cannot be nil", nil)
	}
	if err := s.reconfigurable(); err != nil {
		return err
	}
	s.log = l
	return nil
}

func (s *Store) SetModel(m *model.Model) error {
	if m == nil {
		return qyerrors.NewConfigError("model cannot be nil", nil)
	}
	if err := s.reconfigurable(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	s.mdl = m
	return nil
}

func (s *Store) SetCacheEnabled(enabled bool) error {
	if err := s.reconfigurable(); err != nil {
		return err
	}
	s.cacheEnabled = enabled
	return nil
}

func (s *Store) SetWatchEnabled(enabled bool) error {
	if err := s.reconfigurable(); err != nil {
		return err
	}
	s.watchEnabled = enabled
	return nil
}

func (s *Store) SetMetricsRegistryProvider(provider qymetrics.RegistryProvider) error {
	if provider == nil {
		return qyerrors.NewConfigError("metrics registry provider cannot be nil", nil)
	}
	if err := s.reconfigurable(); err != nil {
		return err
	}
	s.metricsProvider = provider
	return nil
}

func (s *Store) reconfigurable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed()
	}
	if s.opened {
		return qyerrors.NewConfigError("store is already open and cannot be reconfigured", nil)
	}
	return nil
}

func errStoreClosed() error {
	return qyerrors.NewConfigError("store is closed", nil)
}

// Open readies the store: it registers metrics, compiles the model schema
// when strict typing is requested, performs the initial load, seeds default
// values, and starts the file watcher when enabled. Default seeding is
// batched: one load, all missing defaults applied in declaration order, at
// most one write.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed()
	}
	if s.opened {
		return qyerrors.NewConfigError("store is already open", nil)
	}

	instruments, err := metrics.NewInstruments(s.metricsProvider.Registry())
	if err != nil {
		return qyerrors.NewConfigError("failed to register store metrics", err)
	}
	s.instruments = instruments

	if s.mdl != nil && s.mdl.StrictTypes {
		validator, err := schema.NewValidator(s.mdl)
		if err != nil {
			return err
		}
		s.validator = validator
	}

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}

	if s.mdl != nil && s.mdl.SetValuesOnReady && len(s.mdl.Defaults) > 0 {
		seeded := 0
		for _, def := range s.mdl.Defaults {
			if doc.Has(def.Variable) {
				continue
			}
			value := util.Normalize(def.Value)
			if s.validator != nil {
				if err := s.validator.ValidateValue(def.Variable, value); err != nil {
					return err
				}
			}
			doc.Set(def.Variable, value)
			seeded++
		}
		if seeded > 0 {
			if err := s.persistLocked(doc); err != nil {
				return err
			}
			s.log.Debugf("seeded %d default value(s) into '%s'", seeded, s.path)
		}
	}

	if s.cacheEnabled {
		s.cache = doc
	}

	if s.watchEnabled && s.cacheEnabled {
		s.watch = newWatcher(s)
	}

	s.opened = true
	s.log.Debugf("store opened for '%s' (cache=%t, watch=%t)", s.path, s.cacheEnabled, s.watch != nil)
	return nil
}

// Close releases the file watcher, if any, and marks the store closed:
// every later read or write fails with a ConfigError. The document file is
// untouched. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watch
	s.watch = nil
	s.closed = true
	s.mu.Unlock()

	if w != nil {
		w.stop()
	}
	return nil
}

// Path returns the document file path.
func (s *Store) Path() string { return s.path }

// Model returns the model the store was configured with, or nil.
func (s *Store) Model() *model.Model { return s.mdl }

// MetricsRegistryProvider returns the provider holding store metrics.
func (s *Store) MetricsRegistryProvider() qymetrics.RegistryProvider {
	return s.metricsProvider
}

// --- load/write primitives ---

// loadLocked reads and decodes the full document from disk. An empty file
// decodes to an empty document; malformed content is a ParseError. When
// strict typing is active the decoded document is validated, so hand edits
// that break declared shapes surface at the next read.
func (s *Store) loadLocked() (*document.Document, error) {
	if !backend.Exists(s.path) {
		return nil, qyerrors.NewNotFoundError(s.path, os.ErrNotExist)
	}
	raw, err := backend.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, qyerrors.NewNotFoundError(s.path, err)
		}
		return nil, qyerrors.NewParseError(s.path, fmt.Errorf("cannot read file: %w", err))
	}
	doc, err := codec.Decode(raw)
	if err != nil {
		return nil, qyerrors.NewParseError(s.path, err)
	}
	if s.instruments != nil {
		s.instruments.ObserveLoad()
	}
	if s.validator != nil {
		if err := s.validator.ValidateDocument(doc.Map()); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// persistLocked writes the document back to disk. A document with zero
// variables is persisted by truncating the file to zero length, bypassing
// the encoder; anything else is encoded and written via a temp-file rename.
// On success the cache is resynchronized from the written document.
func (s *Store) persistLocked(doc *document.Document) error {
	if s.closed {
		return errStoreClosed()
	}
	if !backend.Exists(s.path) {
		return qyerrors.NewNotFoundError(s.path, os.ErrNotExist)
	}

	if doc.Len() == 0 {
		if err := backend.Truncate(s.path); err != nil {
			s.observeWriteError()
			return qyerrors.NewWriteError(s.path, err)
		}
	} else {
		data, err := codec.Encode(doc)
		if err != nil {
			s.observeWriteError()
			return qyerrors.NewWriteError(s.path, err)
		}
		if err := backend.Replace(s.path, data); err != nil {
			s.observeWriteError()
			return qyerrors.NewWriteError(s.path, err)
		}
	}

	if s.cacheEnabled {
		s.cache = doc.Clone()
	}
	if s.instruments != nil {
		s.instruments.ObserveWrite(doc.Len())
	}
	return nil
}

func (s *Store) observeWriteError() {
	if s.instruments != nil {
		s.instruments.ObserveWriteError()
	}
}

// snapshotLocked returns an isolated document reflecting the current state:
// a deep copy of the cache when it is warm, otherwise a fresh decode (which
// also re-warms the cache when caching is enabled). Callers may mutate the
// result freely.
func (s *Store) snapshotLocked() (*document.Document, error) {
	if s.closed {
		return nil, errStoreClosed()
	}
	if s.cacheEnabled {
		if s.cache == nil {
			doc, err := s.loadLocked()
			if err != nil {
				return nil, err
			}
			s.cache = doc
		}
		return s.cache.Clone(), nil
	}
	return s.loadLocked()
}

// snapshot takes the lock just long enough to derive an isolated document.
// Query operations iterate the result without holding the lock, so callbacks
// are free to call back into the store.
func (s *Store) snapshot() (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// invalidateCache drops the cache so the next read re-decodes the file. Used
// by the watcher when the file changes on disk outside this store.
func (s *Store) invalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// --- mutation operations ---

// Set assigns the value for the variable and rewrites the document.
func (s *Store) Set(variable string, value interface{}) error {
	normalized := util.Normalize(value)
	if s.validator != nil {
		if err := s.validator.ValidateValue(variable, normalized); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshotLocked()
	if err != nil {
		return err
	}
	doc.Set(variable, normalized)
	return s.persistLocked(doc)
}

// Delete removes the variable if present. A missing variable is a no-op.
func (s *Store) Delete(variable string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshotLocked()
	if err != nil {
		return err
	}
	if !doc.Delete(variable) {
		return nil
	}
	return s.persistLocked(doc)
}

// Purge removes every present variable among those given, writing once at
// the end. When nothing was removed no write is performed.
func (s *Store) Purge(variables ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshotLocked()
	if err != nil {
		return err
	}
	removed := 0
	for _, variable := range variables {
		if doc.Delete(variable) {
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	return s.persistLocked(doc)
}

// Clear replaces the document with an empty one, truncating the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(document.New())
}

// Push appends the given values to the sequence stored under the variable
// and returns the new length. Returns -1 without writing when the variable
// is absent, and -1 with a TypeMismatchError when the current value is not
// sequence-shaped.
func (s *Store) Push(variable string, values ...interface{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshotLocked()
	if err != nil {
		return -1, err
	}
	current, exists := doc.Get(variable)
	if !exists {
		return -1, nil
	}
	seq, ok := current.([]interface{})
	if !ok {
		return -1, qyerrors.NewTypeMismatchError(variable, string(model.TypeSequence), string(model.TypeOf(current)))
	}
	for _, v := range values {
		seq = append(seq, util.Normalize(v))
	}
	doc.Set(variable, seq)
	if err := s.persistLocked(doc); err != nil {
		return -1, err
	}
	return len(seq), nil
}

// Pull removes every element structurally equal to any of the given values
// from the sequence stored under the variable and returns the resulting
// length. The document is rewritten exactly once whenever the variable
// exists, even if nothing matched. Returns -1 without writing when the
// variable is absent.
func (s *Store) Pull(variable string, values ...interface{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshotLocked()
	if err != nil {
		return -1, err
	}
	current, exists := doc.Get(variable)
	if !exists {
		return -1, nil
	}
	seq, ok := current.([]interface{})
	if !ok {
		return -1, qyerrors.NewTypeMismatchError(variable, string(model.TypeSequence), string(model.TypeOf(current)))
	}

	targets := make([]interface{}, len(values))
	for i, v := range values {
		targets[i] = util.Normalize(v)
	}

	kept := make([]interface{}, 0, len(seq))
	for _, elem := range seq {
		if !matchesAny(elem, targets) {
			kept = append(kept, elem)
		}
	}
	doc.Set(variable, kept)
	if err := s.persistLocked(doc); err != nil {
		return -1, err
	}
	return len(kept), nil
}

// matchesAny reports whether elem is structurally equal to any target.
// reflect.DeepEqual gives deep equality for composite values and plain
// equality for scalars.
func matchesAny(elem interface{}, targets []interface{}) bool {
	for _, t := range targets {
		if reflect.DeepEqual(elem, t) {
			return true
		}
	}
	return false
}

// --- query operations ---

// Get returns the value for the variable and whether it exists.
func (s *Store) Get(variable string) (interface{}, bool, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, false, err
	}
	value, exists := doc.Get(variable)
	return value, exists, nil
}

// Has reports whether the variable exists.
func (s *Store) Has(variable string) (bool, error) {
	doc, err := s.snapshot()
	if err != nil {
		return false, err
	}
	return doc.Has(variable), nil
}

// Ensure returns the value for the variable, substituting fallback when it
// is absent. The fallback is never persisted.
func (s *Store) Ensure(variable string, fallback interface{}) (interface{}, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if value, exists := doc.Get(variable); exists {
		return value, nil
	}
	return fallback, nil
}

// Find returns a labeled entry for the variable; missing variables are not
// an error.
func (s *Store) Find(variable string) (qystore.Entry, error) {
	doc, err := s.snapshot()
	if err != nil {
		return qystore.Entry{}, err
	}
	value, exists := doc.Get(variable)
	return qystore.Entry{Variable: variable, Value: value, Exists: exists}, nil
}

// Pick returns labeled entries for the present variables among those given,
// in argument order.
func (s *Store) Pick(variables ...string) ([]qystore.Entry, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	entries := make([]qystore.Entry, 0, len(variables))
	for _, variable := range variables {
		value, exists := doc.Get(variable)
		if !exists {
			continue
		}
		entries = append(entries, qystore.Entry{Variable: variable, Value: value, Exists: true})
	}
	return entries, nil
}

// Size returns the number of variables in the document.
func (s *Store) Size() (int, error) {
	doc, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return doc.Len(), nil
}

// Entries returns all variable/value pairs in document order.
func (s *Store) Entries() ([]qystore.Entry, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	entries := make([]qystore.Entry, 0, doc.Len())
	for i := 0; i < doc.Len(); i++ {
		variable, value, _ := doc.At(i)
		entries = append(entries, qystore.Entry{Variable: variable, Value: value, Exists: true})
	}
	return entries, nil
}

// Keys returns all variables in document order.
func (s *Store) Keys() ([]string, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Keys(), nil
}

// Values returns all values in document order.
func (s *Store) Values() ([]interface{}, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Values(), nil
}

// First returns the first value in document order.
func (s *Store) First() (interface{}, bool, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, false, err
	}
	_, value, ok := doc.At(0)
	return value, ok, nil
}

// Last returns the last value in document order.
func (s *Store) Last() (interface{}, bool, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, false, err
	}
	_, value, ok := doc.At(doc.Len() - 1)
	return value, ok, nil
}

// IndexOf returns the position of the variable in document order, or -1.
func (s *Store) IndexOf(variable string) (int, error) {
	doc, err := s.snapshot()
	if err != nil {
		return -1, err
	}
	return doc.IndexOf(variable), nil
}

// ForEach iterates one snapshot of the document in order. The snapshot is
// taken before iteration begins; fn mutating the store does not affect the
// entries it is handed.
func (s *Store) ForEach(fn func(value interface{}, variable string, index int)) error {
	doc, err := s.snapshot()
	if err != nil {
		return err
	}
	for i := 0; i < doc.Len(); i++ {
		variable, value, _ := doc.At(i)
		fn(value, variable, i)
	}
	return nil
}

// Map iterates like ForEach and collects fn's return values.
func (s *Store) Map(fn func(value interface{}, variable string, index int) interface{}) ([]interface{}, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	results := make([]interface{}, 0, doc.Len())
	for i := 0; i < doc.Len(); i++ {
		variable, value, _ := doc.At(i)
		results = append(results, fn(value, variable, i))
	}
	return results, nil
}
