package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"efficiensa/internal/logger"
)

// Purger deletes completed orders finished before a cutoff
type Purger interface {
	PurgeHistory(before time.Time) (int64, error)
}

// Scheduler runs the periodic maintenance jobs of the service
type Scheduler struct {
	scheduler gocron.Scheduler
	purger    Purger
	retention time.Duration
	clock     clockwork.Clock
	log       logger.Logger
}

// Options configures the scheduler
type Options struct {
	Retention time.Duration
	Hour      uint
	Minute    uint
	Location  *time.Location
	Clock     clockwork.Clock
	Logger    logger.Logger
}

// NewScheduler registers the daily history purge
func NewScheduler(purger Purger, opts Options) (*Scheduler, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(opts.Location),
		gocron.WithClock(opts.Clock),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &Scheduler{
		scheduler: s,
		purger:    purger,
		retention: opts.Retention,
		clock:     opts.Clock,
		log:       opts.Logger,
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(opts.Hour, opts.Minute, 0),
			),
		),
		gocron.NewTask(js.PurgeHistory),
		gocron.WithName("purge-history"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule history purge: %w", err)
	}
	return js, nil
}

// PurgeHistory removes completed orders older than the retention window
func (s *Scheduler) PurgeHistory() {
	cutoff := s.clock.Now().Add(-s.retention)
	n, err := s.purger.PurgeHistory(cutoff)
	if err != nil {
		s.log.Error("purge_failed", "History purge failed", "", map[string]interface{}{"cutoff": cutoff}, err)
		return
	}
	s.log.Info("purge_completed", "History purge finished", "", map[string]interface{}{
		"cutoff":  cutoff,
		"deleted": n,
	})
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// NextRun reports when the purge runs next
func (s *Scheduler) NextRun() (time.Time, error) {
	jobs := s.scheduler.Jobs()
	if len(jobs) == 0 {
		return time.Time{}, fmt.Errorf("no jobs scheduled")
	}
	return jobs[0].NextRun()
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
