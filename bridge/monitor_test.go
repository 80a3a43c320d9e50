package bridge

import (
	"testing"
	"time"
)

func drain(polls chan struct{}) {
	for {
		select {
		case <-polls:
		default:
			return
		}
	}
}

func TestMonitorPollsOnInterval(t *testing.T) {
	polls := make(chan struct{}, 64)
	m := NewMonitor(func() {
		polls <- struct{}{}
	})

	m.Start(20 * time.Millisecond)
	defer m.Stop()

	// Immediate poll plus at least two ticks.
	for i := 0; i < 3; i++ {
		select {
		case <-polls:
		case <-time.After(time.Second):
			t.Fatalf("poll %v never fired", i)
		}
	}
}

func TestMonitorStop(t *testing.T) {
	polls := make(chan struct{}, 64)
	m := NewMonitor(func() {
		polls <- struct{}{}
	})

	m.Start(10 * time.Millisecond)

	select {
	case <-polls:
	case <-time.After(time.Second):
		t.Fatal("monitor never polled")
	}

	m.Stop()
	time.Sleep(30 * time.Millisecond)
	drain(polls)

	select {
	case <-polls:
		t.Error("monitor polled after Stop")
	case <-time.After(50 * time.Millisecond):
	}

	// A second Stop is a no-op.
	m.Stop()
}

// Restarting the monitor must leave exactly one timer running.
func TestMonitorRestartReplacesTimer(t *testing.T) {
	polls := make(chan struct{}, 64)
	m := NewMonitor(func() {
		polls <- struct{}{}
	})

	m.Start(10 * time.Millisecond)
	defer m.Stop()

	select {
	case <-polls:
	case <-time.After(time.Second):
		t.Fatal("monitor never polled")
	}

	// Replace with a timer far slower than the test. Only the immediate
	// poll of the restart should come through.
	m.Start(time.Hour)
	time.Sleep(50 * time.Millisecond)
	drain(polls)

	select {
	case <-polls:
		t.Error("old timer still ticking after restart")
	case <-time.After(100 * time.Millisecond):
	}
}
