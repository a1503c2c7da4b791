package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"servicehub/internal/config"
	"servicehub/internal/mocks"
	"servicehub/internal/scheduler"
)

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	s := scheduler.New(zap.NewNop(), scheduler.Task{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("keeps going")
		},
	})
	s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}

func TestSchedulerSkipsDisabledTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := scheduler.New(zap.NewNop(), scheduler.Task{
		Name: "off",
		Run: func(ctx context.Context) error {
			t.Fatal("disabled task ran")
			return nil
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Wait()
}

type publisher struct {
	mock.Mock
}

func (p *publisher) PublishDue(ctx context.Context, now time.Time) (int, error) {
	args := p.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestDefaultTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	contentSvc := new(publisher)
	sessionRepo := new(mocks.SessionRepository)
	published := make(chan struct{}, 1)
	cleaned := make(chan struct{}, 1)

	contentSvc.On("PublishDue", mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) {
			select {
			case published <- struct{}{}:
			default:
			}
		}).Return(2, nil)
	sessionRepo.On("DeleteExpired", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case cleaned <- struct{}{}:
			default:
			}
		}).Return(int64(5), nil)

	cfg := &config.Config{ContentPublishInterval: 5 * time.Millisecond, SessionCleanupInterval: 5 * time.Millisecond}
	core, logs := observer.New(zap.InfoLevel)
	s := scheduler.Default(contentSvc, sessionRepo, cfg, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	for _, ch := range []chan struct{}{published, cleaned} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
	}
	cancel()
	s.Wait()

	// PublishDue logs its own result.
	assert.Zero(t, logs.FilterMessage("published scheduled content").Len())
	assert.NotZero(t, logs.FilterMessage("deleted expired sessions").Len())
}
