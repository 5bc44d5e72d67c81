package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	failOn   string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if text == n.failOn {
		return errors.New("delivery refused")
	}
	n.messages = append(n.messages, text)
	return nil
}

func (n *recordingNotifier) delivered() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

func TestNextFireTime(t *testing.T) {
	loc := testLocation(t)
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, loc)

	// Later today
	next := nextFireTime(now, 21, 0)
	assert.Equal(t, time.Date(2025, 3, 12, 21, 0, 0, 0, loc), next)

	// Already passed: tomorrow
	next = nextFireTime(now, 5, 40)
	assert.Equal(t, time.Date(2025, 3, 13, 5, 40, 0, 0, loc), next)

	// Exactly now: strictly after, so tomorrow
	next = nextFireTime(now, 10, 0)
	assert.Equal(t, time.Date(2025, 3, 13, 10, 0, 0, 0, loc), next)
}

func TestAddTriggerRejectsBadClock(t *testing.T) {
	loc := testLocation(t)
	s := NewReminderScheduler(&recordingNotifier{}, loc, time.Second)

	assert.Error(t, s.AddTrigger("wake6", "msg", "6am"))
	assert.Error(t, s.AddTrigger("wake6", "msg", "25:00"))
	assert.NoError(t, s.AddTrigger("wake6", "msg", "05:40"))
}

func TestSchedulerFiresDueTrigger(t *testing.T) {
	loc := testLocation(t)
	notifier := &recordingNotifier{}
	s := NewReminderScheduler(notifier, loc, time.Second)
	require.NoError(t, s.AddTrigger("wake6", "wake up", "05:40"))

	// Pin the clock a few ms short of the fire time so the timer goes off
	// almost immediately.
	s.now = func() time.Time {
		return time.Date(2025, 3, 12, 5, 39, 59, int(990*time.Millisecond), loc)
	}

	s.Start()
	assert.Eventually(t, func() bool {
		return len(notifier.delivered()) >= 1
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()

	assert.Contains(t, notifier.delivered(), "wake up")
}

func TestSchedulerFailureDoesNotAffectOtherTriggers(t *testing.T) {
	loc := testLocation(t)
	notifier := &recordingNotifier{failOn: "doomed"}
	s := NewReminderScheduler(notifier, loc, time.Second)
	require.NoError(t, s.AddTrigger("sport20", "doomed", "21:00"))
	require.NoError(t, s.AddTrigger("reading15", "read tonight", "21:00"))

	s.now = func() time.Time {
		return time.Date(2025, 3, 12, 20, 59, 59, int(990*time.Millisecond), loc)
	}

	s.Start()
	assert.Eventually(t, func() bool {
		return len(notifier.delivered()) >= 1
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()

	for _, msg := range notifier.delivered() {
		assert.Equal(t, "read tonight", msg)
	}
}

func TestSchedulerStopTerminatesPendingTriggers(t *testing.T) {
	loc := testLocation(t)
	s := NewReminderScheduler(&recordingNotifier{}, loc, time.Second)
	require.NoError(t, s.AddTrigger("wake6", "wake up", "05:40"))

	s.Start()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
