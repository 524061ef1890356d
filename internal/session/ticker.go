package session

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

// Ticker starts a repeating callback and returns a function that stops it.
type Ticker interface {
	Every(interval time.Duration, fn func()) (stop func(), err error)
}

// CronTicker runs ticks on a gocron scheduler.
type CronTicker struct {
	scheduler *gocron.Scheduler
}

// NewCronTicker starts a scheduler in the background.
func NewCronTicker() *CronTicker {
	s := gocron.NewScheduler(time.UTC)
	s.StartAsync()
	return &CronTicker{scheduler: s}
}

// Every schedules fn once per interval, first firing one interval from now.
func (t *CronTicker) Every(interval time.Duration, fn func()) (func(), error) {
	job, err := t.scheduler.Every(interval).WaitForSchedule().Do(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule tick: %w", err)
	}
	return func() {
		t.scheduler.RemoveByReference(job)
	}, nil
}

// Stop shuts the scheduler down.
func (t *CronTicker) Stop() {
	t.scheduler.Stop()
}
