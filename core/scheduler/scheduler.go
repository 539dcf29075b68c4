package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of periodic work.
type Task struct {
	Name     string
	Interval time.Duration
	// Immediate runs the task once at start instead of waiting a full interval.
	Immediate bool
	Run       func(ctx context.Context)
}

type entry struct {
	Task
	running atomic.Bool
}

// Scheduler triggers tasks on their interval. A tick is skipped while the
// previous run of the same task is still in flight.
type Scheduler struct {
	logger *zap.Logger
	locker Locker
	tasks  []*entry
	loops  sync.WaitGroup
	runs   sync.WaitGroup
}

// New creates a scheduler. locker may be nil to run without a cross-instance guard.
func New(logger *zap.Logger, locker Locker) *Scheduler {
	return &Scheduler{logger: logger, locker: locker}
}

// Add registers a task. It must be called before Start.
func (s *Scheduler) Add(task Task) error {
	if task.Name == "" || task.Run == nil {
		return fmt.Errorf("task needs a name and a run function")
	}
	if task.Interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive, got %s", task.Name, task.Interval)
	}
	s.tasks = append(s.tasks, &entry{Task: task})
	return nil
}

// Start launches one ticker loop per task. The loops stop when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	for _, e := range s.tasks {
		s.loops.Add(1)
		go s.loop(ctx, e)
	}
}

// Wait blocks until the loops have stopped and every in-flight run returned.
func (s *Scheduler) Wait() {
	s.loops.Wait()
	s.runs.Wait()
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.loops.Done()

	s.logger.Info("Scheduled task",
		zap.String("task", e.Name),
		zap.Duration("interval", e.Interval))

	if e.Immediate {
		s.trigger(ctx, e)
	}

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger(ctx, e)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, e *entry) {
	if !e.running.CompareAndSwap(false, true) {
		s.logger.Debug("Previous run still in flight, skipping tick", zap.String("task", e.Name))
		return
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		defer e.running.Store(false)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Scheduled task panicked",
					zap.String("task", e.Name),
					zap.Any("panic", r))
			}
		}()

		if s.locker != nil {
			ok, err := s.locker.TryLock(ctx, "scheduler:"+e.Name, lockTTL(e.Interval))
			if err != nil {
				s.logger.Warn("Failed to obtain task lock, skipping tick",
					zap.String("task", e.Name), zap.Error(err))
				return
			}
			if !ok {
				s.logger.Debug("Task owned by another instance, skipping tick", zap.String("task", e.Name))
				return
			}
		}

		e.Run(ctx)
	}()
}

// lockTTL stays a little under the interval so the owner's next tick finds
// the lock expired.
func lockTTL(interval time.Duration) time.Duration {
	ttl := interval * 9 / 10
	if ttl <= 0 {
		return interval
	}
	return ttl
}
