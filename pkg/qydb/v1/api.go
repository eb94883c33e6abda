// Package v1 is the public entry point of quick-yaml.db: an embedded,
// single-writer key-value store that persists its whole state as one
// human-readable YAML document, read and rewritten in full on every
// mutation.
package v1

import (
	"github.com/TFAGaming/quick-yaml.db/internal/store"
	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
	qylog "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/log"
	qymetrics "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/metrics"
	"github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/model"
	qystore "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/store"
)

// StoreOption configures a store at creation, before the initial load and
// default seeding run.
type StoreOption func(qystore.Store) error

// New creates a store over the document at path. The path must end in
// '.yaml' or '.yml' (InvalidExtensionError otherwise) and the file must
// already exist (NotFoundError otherwise) — the store never creates it.
//
// After the options are applied the store performs its initial load and, if
// a model with SetValuesOnReady was supplied, seeds the default values that
// are not already present, in declaration order, with a single write.
func New(path string, opts ...StoreOption) (qystore.Store, error) {
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithModel supplies the optional static schema: legal variables with their
// value-shape tags, default values, and the seeding/strictness gates.
func WithModel(m *model.Model) StoreOption {
	return func(s qystore.Store) error {
		if m == nil {
			return qyerrors.NewConfigError("model cannot be nil", nil)
		}
		return s.SetModel(m)
	}
}

// WithLogger supplies a logger. By default the store is silent.
func WithLogger(l qylog.Logger) StoreOption {
	return func(s qystore.Store) error {
		if l == nil {
			return qyerrors.NewConfigError("logger cannot be nil", nil)
		}
		return s.SetLogger(l)
	}
}

// WithoutCache disables the in-memory document mirror; every read re-decodes
// the file. This is the slower but equally conforming read strategy.
func WithoutCache() StoreOption {
	return func(s qystore.Store) error {
		return s.SetCacheEnabled(false)
	}
}

// WithWatch enables the file watcher that invalidates the cache when the
// document is edited outside this store instance. It has no effect when the
// cache is disabled.
func WithWatch() StoreOption {
	return func(s qystore.Store) error {
		return s.SetWatchEnabled(true)
	}
}

// WithMetricsRegistryProvider supplies a custom metrics provider; the
// store's instruments are registered on its registry.
func WithMetricsRegistryProvider(provider qymetrics.RegistryProvider) StoreOption {
	return func(s qystore.Store) error {
		if provider == nil {
			return qyerrors.NewConfigError("metrics registry provider cannot be nil", nil)
		}
		return s.SetMetricsRegistryProvider(provider)
	}
}
