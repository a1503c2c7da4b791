package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/service/email"
	"servicehub/internal/service/sms"
)

const sendTimeout = 30 * time.Second

// Dispatcher sends persisted notifications over their channels in background
// goroutines. Sends are attempted once; the outcome is written back to the record.
type Dispatcher struct {
	notifRepo repository.NotificationRepository
	emailSvc  email.Service
	smsSvc    sms.Service
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(notifRepo repository.NotificationRepository, emailSvc email.Service, smsSvc sms.Service, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifRepo: notifRepo,
		emailSvc:  emailSvc,
		smsSvc:    smsSvc,
		logger:    logger,
	}
}

type delivery struct {
	notif *domain.Notification
	email string
	phone string
	html  string
	sms   string
}

func (d *Dispatcher) dispatch(job delivery) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		d.deliver(ctx, job)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, job delivery) {
	var errs []error
	channel := job.notif.Channel

	if channel.IncludesEmail() {
		if err := d.emailSvc.Send(ctx, job.email, job.notif.Subject, job.html); err != nil {
			errs = append(errs, err)
		}
	}
	if channel.IncludesSMS() {
		if err := d.smsSvc.Send(ctx, job.phone, job.sms); err != nil {
			errs = append(errs, err)
		}
	}

	status := domain.NotifStatusSent
	var errMsg *string
	if err := errors.Join(errs...); err != nil {
		status = domain.NotifStatusFailed
		msg := err.Error()
		errMsg = &msg
		d.logger.Warn("notification delivery failed",
			zap.String("notification_id", job.notif.ID.String()),
			zap.String("type", string(job.notif.Type)),
			zap.String("channel", string(channel)),
			zap.Error(err),
		)
	}

	if err := d.notifRepo.UpdateDelivery(ctx, job.notif.ID, status, errMsg); err != nil {
		d.logger.Error("failed to record notification delivery",
			zap.String("notification_id", job.notif.ID.String()),
			zap.Error(err),
		)
	}
}

// Wait blocks until every in-flight dispatch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
