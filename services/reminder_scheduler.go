package services

import (
	"context"
	"sync"
	"time"

	"github.com/streakhub/server/utils"
)

// Notifier delivers a community-wide message. Delivery failure is never
// fatal to the caller.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// reminderTrigger fires once per day at a fixed local time-of-day.
type reminderTrigger struct {
	slug    string
	message string
	hour    int
	minute  int
}

// ReminderScheduler posts one reminder per challenge when its window opens,
// daily, in the configured zone. Each trigger runs independently and is
// re-armed for the next day right after firing; if the process was down
// across a fire time, that day's reminder is skipped.
type ReminderScheduler struct {
	notifier Notifier
	loc      *time.Location
	timeout  time.Duration

	triggers []reminderTrigger
	stopChan chan struct{}
	wg       sync.WaitGroup

	// now is swapped out by tests
	now func() time.Time
}

// NewReminderScheduler creates a scheduler. timeout bounds each delivery
// attempt so one slow call cannot stall the next day's trigger.
func NewReminderScheduler(notifier Notifier, loc *time.Location, timeout time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		notifier: notifier,
		loc:      loc,
		timeout:  timeout,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// AddTrigger registers a daily trigger at the given 'HH:MM' local time.
// Must be called before Start.
func (s *ReminderScheduler) AddTrigger(slug, message, clock string) error {
	hour, minute, err := utils.ParseClock(clock)
	if err != nil {
		return err
	}
	s.triggers = append(s.triggers, reminderTrigger{
		slug:    slug,
		message: message,
		hour:    hour,
		minute:  minute,
	})
	return nil
}

// Start launches one goroutine per trigger.
func (s *ReminderScheduler) Start() {
	for _, t := range s.triggers {
		s.wg.Add(1)
		go s.run(t)
	}
	utils.Sugar.Infof("reminder scheduler started with %d triggers", len(s.triggers))
}

// Stop terminates all trigger loops and waits for them to exit.
func (s *ReminderScheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	utils.Sugar.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) run(t reminderTrigger) {
	defer s.wg.Done()
	for {
		now := s.now().In(s.loc)
		next := nextFireTime(now, t.hour, t.minute)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.fire(t)
		}
	}
}

// fire delivers one reminder. Errors are logged and swallowed: the
// ledger's durability never depends on reminder delivery.
func (s *ReminderScheduler) fire(t reminderTrigger) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, t.message); err != nil {
		utils.Sugar.Warnf("reminder %s delivery failed: %v", t.slug, err)
		return
	}
	utils.Sugar.Infof("reminder %s delivered", t.slug)
}

// nextFireTime returns the next instant strictly after now whose local
// time-of-day is hour:minute.
func nextFireTime(now time.Time, hour, minute int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if candidate.After(now) {
		return candidate
	}
	return candidate.AddDate(0, 0, 1)
}
