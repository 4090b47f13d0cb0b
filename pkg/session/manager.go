package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the live machines of a process and serializes access to each.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	mu       sync.Mutex // Global lock for both maps
	machines map[string]*turing.Engine
	locks    map[string]*lockEntry

	engineOpts []turing.Option
	newID      func() string
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the machines it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngineOptions appends options applied to every new machine,
// e.g. shared lifecycle hooks.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		machines: make(map[string]*turing.Engine),
		locks:    make(map[string]*lockEntry),
		newID:    uuid.NewString,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) lookup(id string) (*turing.Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	eng, ok := m.machines[id]
	return eng, ok
}

// Create registers a new machine and resets it. It returns the machine ID.
func (m *Manager) Create(ctx context.Context, randomized bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := m.newID()
	opts := append([]turing.Option{turing.WithID(id), turing.WithLogger(m.logger)}, m.engineOpts...)
	eng := turing.New(opts...)

	m.mu.Lock()
	if _, exists := m.machines[id]; exists {
		m.mu.Unlock()
		return "", fmt.Errorf("machine id collision: %s", id)
	}
	m.machines[id] = eng
	m.mu.Unlock()

	err := m.Do(ctx, id, func(e *turing.Engine) error {
		e.Reset(randomized)
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("machine created", domain.KeyMachineID, id, "randomized", randomized, "seed", eng.Seed())
	return id, nil
}

// Do runs fn while holding the machine's lock.
// Returns domain.ErrMachineNotFound if the machine does not exist.
func (m *Manager) Do(ctx context.Context, id string, fn func(*turing.Engine) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Looked up under the machine lock so a concurrent Delete is observed.
	eng, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrMachineNotFound, id)
	}
	return fn(eng)
}

// Get returns a snapshot of the machine.
func (m *Manager) Get(ctx context.Context, id string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.Do(ctx, id, func(e *turing.Engine) error {
		snap = e.Snapshot()
		return nil
	})
	return snap, err
}

// Delete removes the machine. It waits for operations in flight on it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.Do(ctx, id, func(*turing.Engine) error {
		m.mu.Lock()
		delete(m.machines, id)
		m.mu.Unlock()
		return nil
	})
	if err == nil {
		m.logger.Info("machine deleted", domain.KeyMachineID, id)
	}
	return err
}

// List returns the IDs of all live machines, sorted.
func (m *Manager) List(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.machines))
	for id := range m.machines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live machines.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.machines)
}
