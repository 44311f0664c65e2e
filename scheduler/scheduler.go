package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "scheduler")

// Scheduler runs a named task at a fixed interval until stopped or until its context ends
type Scheduler struct {
	name     string
	interval time.Duration
	task     func(context.Context)
	runs     atomic.Int64

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// New creates a new Scheduler instance
func New(name string, interval time.Duration, task func(context.Context)) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
	}
}

// Start begins executing the task at the specified interval.
// Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.done = make(chan struct{})
	done := s.done

	log.Debugf("Scheduler %s: started with interval %s", s.name, s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)

		if firstRunImmediately {
			s.runTask(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runTask(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// runTask executes one run, keeping the loop alive if the task panics
func (s *Scheduler) runTask(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Scheduler %s: task panicked: %v", s.name, r)
		}
	}()
	s.runs.Add(1)
	s.task(ctx)
}

// Stop terminates the periodic task execution and waits for a running task to return.
// It must not be called from within the task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
	log.Debugf("Scheduler %s: stopped after %d runs", s.name, s.runs.Load())
}

// IsRunning returns true until Stop is called or the start context ends
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Runs returns how many times the task has been started
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Name returns the scheduler name
func (s *Scheduler) Name() string {
	return s.name
}
