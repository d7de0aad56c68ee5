package cron

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is the work run on every tick.
type Job interface {
	ProcessAllSheets(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	job    Job
	spec   string
	logger *zap.Logger

	// tracks the initial run, which cron does not start itself
	initial sync.WaitGroup
}

// NewScheduler runs job on spec, a cron expression with a leading seconds field, in loc.
// A run still in progress when the next one is due makes that one skip.
func NewScheduler(logger *zap.Logger, job Job, spec string, loc *time.Location) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)
	return &Scheduler{
		cron:   c,
		job:    job,
		spec:   spec,
		logger: logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("Scheduled group creation run")
		s.run(ctx)
	})
	if err != nil {
		return err
	}

	// the first run happens right away, so a restart on the day of a group still creates it.
	// It goes through the wrapped job so a tick during it is skipped like any other overlap.
	job := s.cron.Entry(id).WrappedJob
	s.logger.Info("Initial group creation run")
	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		job.Run()
	}()

	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.job.ProcessAllSheets(ctx); err != nil {
		s.logger.Error("Group creation run failed", zap.Error(err))
	}
}

// Stop stops scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info("Cron scheduler stopped")
}
