package cooldown

import (
	"sync"
	"time"
)

type Algorithm string

const (
	FixedWindow Algorithm = "fixed_window"
	GCRA        Algorithm = "gcra"
)

type windowState struct {
	count       int
	windowStart time.Time
}

// Cooldown хранит состояние одного ограничения частоты вызовов.
// Ключи соответствуют бакету владеющей команды, состояние живёт в памяти
// процесса. Доступ сериализуется объемлющим Set.
type Cooldown struct {
	algorithm Algorithm
	rate      int
	period    time.Duration
	burst     int
	now       func() time.Time
	windows   map[string]*windowState
	tats      map[string]time.Time
}

type Option func(*Cooldown)

// WithClock подменяет источник времени в тестах.
func WithClock(now func() time.Time) Option {
	return func(c *Cooldown) {
		c.now = now
	}
}

func New(algorithm Algorithm, rate int, period time.Duration, burst int, opts ...Option) *Cooldown {
	if burst < 1 {
		burst = 1
	}

	c := &Cooldown{
		algorithm: algorithm,
		rate:      rate,
		period:    period,
		burst:     burst,
		now:       time.Now,
		windows:   make(map[string]*windowState),
		tats:      make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// interval — эмиссионный интервал T между допустимыми вызовами.
func (c *Cooldown) interval() time.Duration {
	return c.period / time.Duration(c.rate)
}

// tolerance — допуск tau, разрешающий сконфигурированный burst.
func (c *Cooldown) tolerance() time.Duration {
	return c.interval() * time.Duration(c.burst-1)
}

func (c *Cooldown) peek(key string, now time.Time) (bool, time.Duration) {
	switch c.algorithm {
	case FixedWindow:
		state, ok := c.windows[key]
		if !ok || !now.Before(state.windowStart.Add(c.period)) {
			return true, 0
		}

		if state.count+1 > c.rate {
			return false, state.windowStart.Add(c.period).Sub(now)
		}

		return true, 0
	default:
		tat := c.tats[key]
		if !now.Before(tat) {
			return true, 0
		}

		if tat.Sub(now) <= c.tolerance() {
			return true, 0
		}

		return false, tat.Sub(now) - c.tolerance()
	}
}

func (c *Cooldown) commit(key string, now time.Time) {
	switch c.algorithm {
	case FixedWindow:
		state, ok := c.windows[key]
		if !ok || !now.Before(state.windowStart.Add(c.period)) {
			c.windows[key] = &windowState{count: 1, windowStart: now}
			return
		}

		state.count++
	default:
		tat := c.tats[key]
		if !now.Before(tat) {
			c.tats[key] = now.Add(c.interval())
			return
		}

		c.tats[key] = tat.Add(c.interval())
	}
}

// Set группирует кулдауны одной команды. Резервирование атомарно:
// списание фиксируется только если каждый кулдаун пропускает попытку,
// поэтому частичных списаний не бывает.
type Set struct {
	mu        sync.Mutex
	cooldowns []*Cooldown
}

func NewSet(cooldowns ...*Cooldown) *Set {
	return &Set{cooldowns: cooldowns}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.cooldowns)
}

// Reserve проверяет попытку по всем кулдаунам набора и фиксирует списание
// по принципу «всё или ничего». len(keys) должен совпадать с числом кулдаунов.
// При отказе возвращаются retry_after и индекс отказавшего кулдауна,
// при допуске индекс равен -1.
func (s *Set) Reserve(keys []string) (bool, time.Duration, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nows := make([]time.Time, len(s.cooldowns))

	for i, c := range s.cooldowns {
		now := c.now()
		nows[i] = now

		allowed, retryAfter := c.peek(keys[i], now)
		if !allowed {
			return false, retryAfter, i
		}
	}

	for i, c := range s.cooldowns {
		c.commit(keys[i], nows[i])
	}

	return true, 0, -1
}

// Cleanup удаляет полностью восстановившиеся ключи и возвращает число
// удалённых записей. Свежий ключ ведёт себя так же, как удалённый,
// поэтому на допуск попыток чистка не влияет.
func (s *Set) Cleanup() int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	for _, c := range s.cooldowns {
		now := c.now()

		for key, state := range c.windows {
			if !now.Before(state.windowStart.Add(c.period)) {
				delete(c.windows, key)

				removed++
			}
		}

		for key, tat := range c.tats {
			if !now.Before(tat) {
				delete(c.tats, key)

				removed++
			}
		}
	}

	return removed
}
