package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingJob chan struct{}

func (j countingJob) ProcessAllSheets(context.Context) error {
	j <- struct{}{}
	return nil
}

func TestSchedulerRunsImmediatelyAndOnSchedule(t *testing.T) {
	job := make(countingJob, 10)
	s := NewScheduler(zaptest.NewLogger(t), job, "* * * * * *", time.UTC)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-job:
		case <-time.After(3 * time.Second):
			t.Fatalf("job ran %d times, want at least 2", i)
		}
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t), make(countingJob, 1), "every day at nine", time.UTC)
	assert.Error(t, s.Start(context.Background()))
}

type blockingJob struct {
	runs     atomic.Int32
	finished atomic.Bool
	release  chan struct{}
}

func (j *blockingJob) ProcessAllSheets(context.Context) error {
	j.runs.Add(1)
	<-j.release
	j.finished.Store(true)
	return nil
}

func TestSchedulerSkipsTicksDuringInitialRun(t *testing.T) {
	job := &blockingJob{release: make(chan struct{})}
	s := NewScheduler(zaptest.NewLogger(t), job, "* * * * * *", time.UTC)
	require.NoError(t, s.Start(context.Background()))

	// at least two ticks fire while the initial run is still blocked
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.release)
	s.Stop()
	assert.True(t, job.finished.Load(), "Stop must wait for the initial run")
}
