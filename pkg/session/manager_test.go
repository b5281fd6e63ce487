package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
	"github.com/aretw0/flowc/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, name string) (*domain.Program, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, name)
}

func (s SlowStore) Save(ctx context.Context, p *domain.Program) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, p)
}

func TestManager_EditSerializes(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	_, err := manager.LoadOrCreate(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Edit(ctx, "race", func(p *domain.Program) error {
				p.Headers = append(p.Headers, "stdio.h")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := manager.Load(ctx, "race")
	require.NoError(t, err)
	assert.Len(t, p.Headers, writers, "no edit may be lost")
}

func TestManager_EditFailureSavesNothing(t *testing.T) {
	manager := session.NewManager(memory.NewStore(domain.NewProgram("p")))
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := manager.Edit(ctx, "p", func(p *domain.Program) error {
		p.Headers = []string{"math.h"}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := manager.Load(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, p.Headers)

	_, err = manager.Edit(ctx, "missing", func(*domain.Program) error { return nil })
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestManager_LoadOrCreate(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := manager.LoadOrCreate(ctx, "fresh")
			assert.NoError(t, err)
			assert.NotNil(t, p)
		}()
	}
	wg.Wait()

	names, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, names)
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
	keys  []string
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	l.keys = append(l.keys, key)
	return func(context.Context) error { return errors.New("already expired") }, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))

	require.NoError(t, manager.Save(context.Background(), domain.NewProgram("shared")))
	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, []string{"shared"}, locker.keys)
}
