package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed editor can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes edits per program so every program has a single writer.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ProgramStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // per program

	locker  ports.DistributedLocker // optional, for replicas sharing a store
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.ProgramStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// Load retrieves a program from the store.
func (m *Manager) Load(ctx context.Context, name string) (*domain.Program, error) {
	var p *domain.Program
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		p, err = m.store.Load(ctx, name)
		return err
	})
	return p, err
}

// LoadOrCreate loads a program, creating an empty one (just main) when it
// does not exist yet.
func (m *Manager) LoadOrCreate(ctx context.Context, name string) (*domain.Program, error) {
	var p *domain.Program
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		p, err = m.store.Load(ctx, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrProgramNotFound) {
			return fmt.Errorf("failed to check program existence: %w", err)
		}

		p = domain.NewProgram(name)
		if err := m.store.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to initialize program: %w", err)
		}
		return nil
	})
	return p, err
}

// Edit loads a program, applies fn and saves the result, all under the
// program's lock. Nothing is saved when fn fails.
func (m *Manager) Edit(ctx context.Context, name string, fn func(*domain.Program) error) (*domain.Program, error) {
	var p *domain.Program
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		p, err = m.store.Load(ctx, name)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return m.store.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save persists a program.
func (m *Manager) Save(ctx context.Context, p *domain.Program) error {
	return m.WithLock(ctx, p.Name, func(ctx context.Context) error {
		return m.store.Save(ctx, p)
	})
}

// Delete removes a program from the store.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Delete(ctx, name)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying program store.
func (m *Manager) Store() ports.ProgramStore {
	return m.store
}

// WithLock executes fn while holding the lock for the program.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"program", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
