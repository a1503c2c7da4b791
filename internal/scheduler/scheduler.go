package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"servicehub/internal/config"
)

const runTimeout = 2 * time.Minute

// Task is a periodic job. Errors are logged and the task runs again on the next tick.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type ContentPublisher interface {
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

type SessionCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Scheduler struct {
	tasks  []Task
	logger *zap.Logger
	wg     sync.WaitGroup
}

func New(logger *zap.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks, logger: logger}
}

// Default wires the content publisher and session cleanup at their configured intervals.
func Default(contentSvc ContentPublisher, sessionRepo SessionCleaner, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return New(logger,
		Task{
			Name:     "content_publish_due",
			Interval: cfg.ContentPublishInterval,
			Run: func(ctx context.Context) error {
				_, err := contentSvc.PublishDue(ctx, time.Now())
				return err
			},
		},
		Task{
			Name:     "session_cleanup",
			Interval: cfg.SessionCleanupInterval,
			Run: func(ctx context.Context) error {
				n, err := sessionRepo.DeleteExpired(ctx)
				if n > 0 {
					logger.Info("deleted expired sessions", zap.Int64("count", n))
				}
				return err
			},
		},
	)
}

// Start launches one goroutine per task. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, task := range s.tasks {
		if task.Interval <= 0 {
			s.logger.Warn("task disabled", zap.String("task", task.Name))
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Info("task started", zap.String("task", task.Name), zap.Duration("interval", task.Interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("task stopped", zap.String("task", task.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, task)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := task.Run(runCtx); err != nil {
		s.logger.Error("task failed", zap.String("task", task.Name), zap.Error(err))
	}
}

// Wait blocks until every task loop has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
