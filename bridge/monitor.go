package bridge

import (
	"sync"
	"time"
)

// Monitor runs the poll function on a recurring interval. Start replaces the
// running timer, so a poll-interval preference change never leaves two timers
// ticking.
type Monitor struct {
	poll func()

	mu   sync.Mutex
	stop chan struct{}
}

func NewMonitor(poll func()) *Monitor {
	return &Monitor{
		poll: poll,
	}
}

// Start begins polling at the given interval, stopping any previously running
// timer first. The first poll fires immediately.
func (m *Monitor) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		close(m.stop)
	}

	stop := make(chan struct{})
	m.stop = stop

	go m.run(interval, stop)
}

// Stop cancels the running timer, if any.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

func (m *Monitor) run(interval time.Duration, stop chan struct{}) {
	m.poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.poll()
		case <-stop:
			return
		}
	}
}
