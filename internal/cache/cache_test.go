package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(cfg Config) (*Cache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](cfg)
	c.now = clock.Now
	return c, clock
}

func TestKey(t *testing.T) {
	k := Key("resumes/abc.pdf", "Go engineer")

	assert.Len(t, k, 64)
	assert.Equal(t, k, Key("resumes/abc.pdf", "Go engineer"))
	assert.NotEqual(t, k, Key("resumes/abc.pdf", "Go engineer "))
	assert.NotEqual(t, Key("a|b", "c"), Key("a", "b|c|"))
}

func TestGetPut(t *testing.T) {
	c, _ := newTestCache(Config{})

	_, ok := c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, "v1", c.Put("k", "v1"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestPut_FirstValueWins(t *testing.T) {
	c, _ := newTestCache(Config{})

	c.Put("k", "first")
	stored := c.Put("k", "second")

	assert.Equal(t, "first", stored)
	got, _ := c.Get("k")
	assert.Equal(t, "first", got)
}

func TestExpiry(t *testing.T) {
	c, clock := newTestCache(Config{TTL: time.Minute})
	c.Put("k", "v")

	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	// An expired key accepts a new value
	assert.Equal(t, "fresh", c.Put("k", "fresh"))
}

func TestEviction_ClosestToExpiry(t *testing.T) {
	c, clock := newTestCache(Config{TTL: time.Minute, MaxEntries: 2})

	c.Put("a", "1")
	clock.Advance(time.Second)
	c.Put("b", "2")
	clock.Advance(time.Second)
	c.Put("c", "3")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestEviction_PurgesExpiredFirst(t *testing.T) {
	c, clock := newTestCache(Config{TTL: time.Minute, MaxEntries: 2})

	c.Put("a", "1")
	clock.Advance(30 * time.Second)
	c.Put("b", "2")
	clock.Advance(31 * time.Second) // a expired, b live
	c.Put("c", "3")

	_, ok := c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(Config{})
	c.Put("k", "v")
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDo_MissThenHit(t *testing.T) {
	c, _ := newTestCache(Config{})
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "computed", nil
	}

	v, hit, err := c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "computed", v)

	v, hit, err = c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "computed", v)
	assert.Equal(t, 1, calls)
}

func TestDo_ErrorsAreNotStored(t *testing.T) {
	c, _ := newTestCache(Config{})
	boom := errors.New("boom")

	_, _, err := c.Do(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestDo_ConcurrentCallersConverge(t *testing.T) {
	c, _ := newTestCache(Config{})
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) (string, error) {
		n := calls.Add(1)
		<-release
		if n == 1 {
			return "winner", nil
		}
		return "loser", nil
	}

	const callers = 8
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.Do(context.Background(), "k", fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	stored, ok := c.Get("k")
	require.True(t, ok)
	for _, r := range results {
		assert.Equal(t, stored, r)
	}
	assert.Equal(t, 1, c.Len())
}

func TestDo_WaiterLeavesOnCancel(t *testing.T) {
	c, _ := newTestCache(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	go func() {
		<-started
		cancel()
	}()

	_, _, err := c.Do(ctx, "k", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Len())
}

func TestDo_WaiterRetriesWhenLeaderCanceled(t *testing.T) {
	c, _ := newTestCache(Config{})
	var calls atomic.Int32
	started := make(chan struct{})

	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "fresh", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := c.Do(leaderCtx, "k", fn)
		leaderErr <- err
	}()
	<-started

	type outcome struct {
		value string
		err   error
	}
	waiter := make(chan outcome, 1)
	go func() {
		v, _, err := c.Do(context.Background(), "k", fn)
		waiter <- outcome{v, err}
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	got := <-waiter
	require.NoError(t, got.err)
	assert.Equal(t, "fresh", got.value)
	assert.Equal(t, int32(2), calls.Load())

	stored, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", stored)
}

func TestDo_LeaderErrorFromOwnContextIsNotRetried(t *testing.T) {
	c, _ := newTestCache(Config{})
	var calls atomic.Int32

	_, _, err := c.Do(context.Background(), "k", func(context.Context) (string, error) {
		calls.Add(1)
		return "", context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}
