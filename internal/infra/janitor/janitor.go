// Package janitor evicts stale in-memory state on a cron schedule.
package janitor

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job removes expired entries and reports how many were dropped.
type Job struct {
	Run  func() int
	Name string
}

// Janitor runs its jobs together on one schedule.
// Fields are ordered to minimize memory padding.
type Janitor struct {
	cron     *cron.Cron
	log      *slog.Logger
	jobs     []Job
	schedule string
}

// ParseSchedule parses a five-field cron expression or a descriptor such as "@every 1m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse janitor schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// New creates a Janitor. The schedule is validated immediately.
func New(spec string, log *slog.Logger, jobs ...Job) (*Janitor, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	j := &Janitor{
		cron:     cron.New(),
		log:      log.With("component", "janitor"),
		jobs:     jobs,
		schedule: spec,
	}
	j.cron.Schedule(schedule, cron.FuncJob(func() { j.RunOnce() }))
	return j, nil
}

// RunOnce runs every job immediately and returns the total number of
// evicted entries.
func (j *Janitor) RunOnce() int {
	total := 0
	for _, job := range j.jobs {
		n := job.Run()
		if n > 0 {
			j.log.Debug("evicted stale entries", "job", job.Name, "count", n)
		}
		total += n
	}
	return total
}

// Start begins running jobs in the background.
func (j *Janitor) Start() {
	j.log.Info("janitor started", "schedule", j.schedule)
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
