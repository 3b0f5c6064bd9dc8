package scheduler

import (
	"context"
	"fmt"

	"visa_leads_backend/internal/email"
	followupsdomain "visa_leads_backend/internal/followups/domain"
	leadsdomain "visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/config"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	outcomeSent    = "sent"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// FollowUpReader looks up the follow-up a reminder was enqueued for.
type FollowUpReader interface {
	Get(ctx context.Context, id uuid.UUID) (followupsdomain.FollowUp, error)
}

// LeadReader looks up the lead behind a follow-up.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (leadsdomain.Lead, error)
}

// WorkerDeps are the collaborators a reminder needs at run time.
type WorkerDeps struct {
	FollowUps FollowUpReader
	Leads     LeadReader
	Sender    email.Sender
	Recipient string
	Metrics   *metrics.Metrics
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	deps   WorkerDeps
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deps WorkerDeps, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	if deps.Sender == nil {
		deps.Sender = email.NoopSender{}
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		deps:   deps,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleFollowUpReminder mails the configured recipient about a follow-up
// that is still pending. Follow-ups that were completed, marked missed or
// deleted in the meantime are skipped.
func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	followUpID, err := uuid.Parse(payload.FollowUpID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	f, err := w.deps.FollowUps.Get(ctx, followUpID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.observe(outcomeSkipped)
		return nil
	}
	if err != nil {
		w.observe(outcomeFailed)
		return err
	}
	if f.Status != followupsdomain.StatusPending || w.deps.Recipient == "" {
		w.observe(outcomeSkipped)
		return nil
	}

	lead, err := w.deps.Leads.GetLead(ctx, f.LeadID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.observe(outcomeSkipped)
		return nil
	}
	if err != nil {
		w.observe(outcomeFailed)
		return err
	}

	err = w.deps.Sender.SendFollowUpReminder(ctx, w.deps.Recipient, email.FollowUpReminder{
		LeadName:  lead.FullName,
		LeadEmail: lead.Email,
		LeadPhone: lead.Phone,
		Method:    string(f.Method),
		DateTime:  f.DateTime,
		Notes:     f.Notes,
		StaffName: f.StaffName,
	})
	if err != nil {
		w.observe(outcomeFailed)
		w.log.Error("failed to send follow-up reminder", "error", err, "followUpId", f.ID)
		return err
	}

	w.observe(outcomeSent)
	w.log.Info("follow-up reminder sent", "followUpId", f.ID, "leadId", f.LeadID)
	return nil
}

func (w *Worker) observe(outcome string) {
	if w.deps.Metrics != nil {
		w.deps.Metrics.ObserveReminder(outcome)
	}
}
