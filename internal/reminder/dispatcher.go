package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/email"
	"github.com/ErlanBelekov/job-tracker/internal/metrics"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
	"github.com/robfig/cron/v3"
)

const sendConcurrency = 5

// Dispatcher e-mails owners whose follow-up date has passed. Each cycle
// claims a batch of due applications and releases the claim when delivery
// fails so the next cycle retries it.
type Dispatcher struct {
	repo      repository.ReminderRepository
	sender    email.Sender
	schedule  cron.Schedule
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewDispatcher(
	repo repository.ReminderRepository,
	sender email.Sender,
	cronExpr string,
	batchSize int,
	logger *slog.Logger,
) (*Dispatcher, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse reminder cron %q: %w", cronExpr, err)
	}
	return &Dispatcher{
		repo:      repo,
		sender:    sender,
		schedule:  sched,
		batchSize: batchSize,
		logger:    logger.With("component", "reminder_dispatcher"),
		now:       time.Now,
	}, nil
}

// Next returns the first cycle time strictly after t.
func (d *Dispatcher) Next(t time.Time) time.Time {
	return d.schedule.Next(t)
}

func (d *Dispatcher) Start(ctx context.Context) {
	metrics.DispatcherStartTime.SetToCurrentTime()
	d.logger.Info("reminder dispatcher started", "batch_size", d.batchSize)

	for {
		next := d.Next(d.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("reminder dispatcher shut down")
			return
		case <-timer.C:
			d.RunOnce(ctx)
		}
	}
}

type CycleResult struct {
	Claimed int
	Sent    int
	Failed  int
}

// RunOnce claims and sends due reminders batch by batch, stopping after a
// short batch or any delivery failure.
func (d *Dispatcher) RunOnce(ctx context.Context) CycleResult {
	start := time.Now()
	defer func() { metrics.ReminderCycleDuration.Observe(time.Since(start).Seconds()) }()

	var res CycleResult
	for ctx.Err() == nil {
		batch, err := d.repo.ClaimDueReminders(ctx, d.batchSize)
		if err != nil {
			d.logger.ErrorContext(ctx, "claim reminders", "error", err)
			break
		}
		res.Claimed += len(batch)

		sent, failed := d.sendBatch(ctx, batch)
		res.Sent += sent
		res.Failed += failed

		// Released claims would be picked up again immediately.
		if failed > 0 || len(batch) < d.batchSize {
			break
		}
	}

	if res.Claimed > 0 {
		d.logger.InfoContext(ctx, "reminder cycle finished", "claimed", res.Claimed, "sent", res.Sent, "failed", res.Failed)
	}
	return res
}

func (d *Dispatcher) sendBatch(ctx context.Context, batch []*domain.FollowUpReminder) (sent, failed int) {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, sendConcurrency)
	)

	for _, rem := range batch {
		sem <- struct{}{}
		wg.Add(1)
		go func(r *domain.FollowUpReminder) {
			defer wg.Done()
			defer func() { <-sem }()

			err := d.send(ctx, r)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			sent++
		}(rem)
	}
	wg.Wait()
	return sent, failed
}

func (d *Dispatcher) send(ctx context.Context, r *domain.FollowUpReminder) error {
	msg, err := email.ReminderMessage(r)
	if err == nil {
		err = d.sender.Send(ctx, msg)
	}
	if err == nil {
		metrics.RemindersSentTotal.WithLabelValues("sent").Inc()
		return nil
	}

	metrics.RemindersSentTotal.WithLabelValues("failed").Inc()
	d.logger.WarnContext(ctx, "send reminder failed, releasing claim", "application_id", r.ApplicationID, "error", err)

	// Release on a fresh context so a shutdown mid-send does not strand the claim.
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if relErr := d.repo.ReleaseReminder(releaseCtx, r.ApplicationID); relErr != nil {
		d.logger.ErrorContext(ctx, "release reminder", "application_id", r.ApplicationID, "error", relErr)
	}
	return err
}
