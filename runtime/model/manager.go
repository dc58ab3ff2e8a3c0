// Package model tracks open STEP models. There is no process-wide
// instance: callers construct a Manager and pass it where it is needed.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/runtime/loader"
)

// ErrModelNotOpen is returned by Close for an id that is not open.
var ErrModelNotOpen = errors.New("model not open")

// ID identifies an open model. Zero is never issued.
type ID uint32

// Manager owns loaded models and the schema registry used to load them.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	models   map[ID]*loader.Loader
	next     ID
	registry *schema.Registry
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry sets the schema registry. The default is schema.NewRegistry().
func WithRegistry(r *schema.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithLogger sets the logger for open and close events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager returns an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{models: make(map[ID]*loader.Loader), next: 1}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = schema.NewRegistry()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Open loads a model from STEP bytes.
func (m *Manager) Open(data []byte) (ID, error) {
	l, err := loader.Load(data, m.registry, loader.WithLogger(m.logger))
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	id := m.next
	m.next++
	m.models[id] = l
	m.mu.Unlock()

	m.logger.Debug("model opened", "model", id, "records", l.NumRecords())
	return id, nil
}

// OpenFile loads a model from a file.
func (m *Manager) OpenFile(path string) (ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("open model: %w", err)
	}
	id, err := m.Open(data)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return id, nil
}

// Close releases a model. Its id is not reused.
func (m *Manager) Close(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.models[id]; !ok {
		return fmt.Errorf("%w: %d", ErrModelNotOpen, id)
	}
	delete(m.models, id)
	m.logger.Debug("model closed", "model", id)
	return nil
}

// CloseAll releases every open model.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.models)
}

// IsModelOpen reports whether id is open.
func (m *Manager) IsModelOpen(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.models[id]
	return ok
}

// Loader returns a fresh cursor over model id. Each call returns an
// independent clone, so callers never share cursor state.
func (m *Manager) Loader(id ID) (*loader.Loader, bool) {
	m.mu.RLock()
	l, ok := m.models[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// Models returns the open model ids in ascending order.
func (m *Manager) Models() []ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]ID, 0, len(m.models))
	for id := range m.models {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Schema returns the registry shared by all models of this manager.
func (m *Manager) Schema() *schema.Registry {
	invariant.Invariant(m.registry != nil, "manager built without NewManager")
	return m.registry
}
