package cooldown_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-commander/internal/commands/cooldown"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestGCRA_EmissionInterval(t *testing.T) {
	clock := newFakeClock()
	// rate 5 за 10 секунд — эмиссионный интервал 2 секунды.
	set := cooldown.NewSet(cooldown.New(cooldown.GCRA, 5, 10*time.Second, 1, cooldown.WithClock(clock.Now)))
	keys := []string{"user:42"}

	allowed, _, denied := set.Reserve(keys)
	require.True(t, allowed)
	assert.Equal(t, -1, denied)

	allowed, retryAfter, denied := set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, 2*time.Second, retryAfter)
	assert.Equal(t, 0, denied)

	clock.Advance(2 * time.Second)

	allowed, _, _ = set.Reserve(keys)
	assert.True(t, allowed)
}

func TestGCRA_BurstAllowsSpike(t *testing.T) {
	clock := newFakeClock()
	// burst 3 даёт допуск в два эмиссионных интервала: три вызова подряд
	// проходят сразу, четвёртый ждёт ближайшую эмиссию.
	set := cooldown.NewSet(cooldown.New(cooldown.GCRA, 5, 10*time.Second, 3, cooldown.WithClock(clock.Now)))
	keys := []string{"user:42"}

	for i := 0; i < 3; i++ {
		allowed, _, _ := set.Reserve(keys)
		require.True(t, allowed, "вызов %d должен пройти в рамках burst", i+1)
	}

	allowed, retryAfter, _ := set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, 2*time.Second, retryAfter)

	clock.Advance(2 * time.Second)

	allowed, _, _ = set.Reserve(keys)
	assert.True(t, allowed)
}

func TestGCRA_IndependentKeys(t *testing.T) {
	clock := newFakeClock()
	set := cooldown.NewSet(cooldown.New(cooldown.GCRA, 1, time.Minute, 1, cooldown.WithClock(clock.Now)))

	allowed, _, _ := set.Reserve([]string{"user:1"})
	require.True(t, allowed)

	allowed, _, _ = set.Reserve([]string{"user:1"})
	require.False(t, allowed)

	// Другой ключ живёт по собственному расписанию.
	allowed, _, _ = set.Reserve([]string{"user:2"})
	assert.True(t, allowed)
}

func TestFixedWindow_ResetsAtBoundary(t *testing.T) {
	clock := newFakeClock()
	set := cooldown.NewSet(cooldown.New(cooldown.FixedWindow, 2, time.Minute, 1, cooldown.WithClock(clock.Now)))
	keys := []string{"channel:77"}

	allowed, _, _ := set.Reserve(keys)
	require.True(t, allowed)

	clock.Advance(time.Second)

	allowed, _, _ = set.Reserve(keys)
	require.True(t, allowed)

	clock.Advance(time.Second)

	allowed, retryAfter, denied := set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, 58*time.Second, retryAfter)
	assert.Equal(t, 0, denied)

	// Окно стартовало в момент первого вызова и к 61-й секунде истекло.
	clock.Advance(59 * time.Second)

	allowed, _, _ = set.Reserve(keys)
	assert.True(t, allowed)
}

func TestSet_ReserveAllOrNothing(t *testing.T) {
	clock := newFakeClock()
	perUser := cooldown.New(cooldown.FixedWindow, 1, time.Minute, 1, cooldown.WithClock(clock.Now))
	perChannel := cooldown.New(cooldown.FixedWindow, 2, time.Hour, 1, cooldown.WithClock(clock.Now))
	set := cooldown.NewSet(perUser, perChannel)
	keys := []string{"user:42", "channel:77"}

	allowed, _, _ := set.Reserve(keys)
	require.True(t, allowed)

	allowed, _, denied := set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, 0, denied)

	// Отказ первого кулдауна не списал попытку со второго: после сброса
	// минутного окна у часового остаётся ровно один допуск.
	clock.Advance(61 * time.Second)

	allowed, _, _ = set.Reserve(keys)
	require.True(t, allowed)

	clock.Advance(61 * time.Second)

	allowed, _, denied = set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, 1, denied)
}

func TestSet_ConcurrentSingleAdmission(t *testing.T) {
	set := cooldown.NewSet(cooldown.New(cooldown.FixedWindow, 1, time.Hour, 1))
	keys := []string{"user:7"}

	const attempts = 32

	results := make(chan bool, attempts)

	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			allowed, _, _ := set.Reserve(keys)
			results <- allowed
		}()
	}

	wg.Wait()
	close(results)

	admitted := 0

	for allowed := range results {
		if allowed {
			admitted++
		}
	}

	assert.Equal(t, 1, admitted)
}

func TestSet_CleanupRemovesExpiredOnly(t *testing.T) {
	clock := newFakeClock()
	set := cooldown.NewSet(
		cooldown.New(cooldown.FixedWindow, 1, time.Minute, 1, cooldown.WithClock(clock.Now)),
		cooldown.New(cooldown.GCRA, 1, time.Minute, 1, cooldown.WithClock(clock.Now)),
	)
	keys := []string{"user:42", "user:42"}

	allowed, _, _ := set.Reserve(keys)
	require.True(t, allowed)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 0, set.Cleanup())

	clock.Advance(31 * time.Second)
	assert.Equal(t, 2, set.Cleanup())

	// Удалённое состояние эквивалентно свежему ключу.
	allowed, _, _ = set.Reserve(keys)
	assert.True(t, allowed)
}

func TestSet_NilSafe(t *testing.T) {
	var set *cooldown.Set

	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, set.Cleanup())
}

func TestNew_BurstBelowOneBehavesAsOne(t *testing.T) {
	clock := newFakeClock()
	set := cooldown.NewSet(cooldown.New(cooldown.GCRA, 1, time.Second, 0, cooldown.WithClock(clock.Now)))
	keys := []string{"global"}

	allowed, _, _ := set.Reserve(keys)
	require.True(t, allowed)

	allowed, retryAfter, _ := set.Reserve(keys)
	require.False(t, allowed)
	assert.Equal(t, time.Second, retryAfter)
}
