package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps a log of request times per client in process memory.
// A background goroutine drops idle clients until Close is called.
type MemoryLimiter struct {
	settings

	mu      sync.Mutex
	clients map[string][]time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates an in-memory limiter. Defaults are 30 requests per 60s.
func NewMemoryLimiter(opts ...Option) (*MemoryLimiter, error) {
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	l := &MemoryLimiter{
		settings: s,
		clients:  make(map[string][]time.Time),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l, nil
}

// Allow records the request when it fits in the window.
func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	times := l.prune(l.clients[clientID], now)
	if len(times) >= l.maxRequests {
		l.clients[clientID] = times
		return Decision{RetryAfter: retryAfter(l.window, now, times[0])}, nil
	}

	times = append(times, now)
	l.clients[clientID] = times
	return Decision{Allowed: true, Remaining: l.maxRequests - len(times)}, nil
}

// prune drops times that have left the window. times is ordered oldest first.
func (l *MemoryLimiter) prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= l.window {
		i++
	}
	return times[i:]
}

// Cleanup drops clients with no requests left in the window.
func (l *MemoryLimiter) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, times := range l.clients {
		if times = l.prune(times, now); len(times) == 0 {
			delete(l.clients, id)
		} else {
			l.clients[id] = times
		}
	}
}

// Clients returns the number of tracked clients.
func (l *MemoryLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *MemoryLimiter) cleanupLoop() {
	defer close(l.done)
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (l *MemoryLimiter) Close() error {
	l.closeOnce.Do(func() {
		close(l.stop)
		<-l.done
	})
	return nil
}
