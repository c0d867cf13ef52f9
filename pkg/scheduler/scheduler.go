package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

// MaintenanceRunner performs one nightly sweep and reports how many missions it reset.
type MaintenanceRunner interface {
	RunNightly(ctx context.Context) (int, error)
}

// Scheduler runs in-process jobs on wall-clock times of the app timezone.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		loc:  loc,
	}
}

// ScheduleMaintenance runs the nightly sweep every day at HH:MM. A run still going when the next one is due
// is not overlapped; each run gets at most timeout.
func (s *Scheduler) ScheduleMaintenance(at string, runner MaintenanceRunner, timeout time.Duration) (cron.EntryID, error) {
	spec, err := dailySpec(at)
	if err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		reset, err := runner.RunNightly(ctx)
		if err != nil {
			log.Errorw("nightly maintenance failed", "reset", reset, "error", err)
			return
		}
		log.Infow("nightly maintenance done", "reset", reset, "took", time.Since(started).String())
	})
	if err != nil {
		return 0, err
	}
	log.Infow("nightly maintenance scheduled", "at", at, "timezone", s.loc.String())
	return id, nil
}

// NextRun reports when the entry fires next after from.
func (s *Scheduler) NextRun(id cron.EntryID, from time.Time) time.Time {
	e := s.cron.Entry(id)
	if e.Schedule == nil {
		return time.Time{}
	}
	return e.Schedule.Next(from)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// dailySpec turns "HH:MM" into a standard five-field cron expression.
func dailySpec(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", at)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
