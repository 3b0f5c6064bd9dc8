package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const reminderMaxRetry = 3

type Client struct {
	client   *asynq.Client
	queue    string
	leadTime time.Duration
	now      func() time.Time
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queueName(cfg),
		leadTime: cfg.GetReminderLeadTime(),
		now:      time.Now,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleFollowUpReminder enqueues a reminder that fires the configured lead
// time before the follow-up. One task exists per follow-up.
func (c *Client) ScheduleFollowUpReminder(ctx context.Context, f domain.FollowUp) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowUpReminderTask(FollowUpReminderPayload{
		FollowUpID: f.ID.String(),
		LeadID:     f.LeadID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(reminderRunAt(f.DateTime, c.leadTime, c.now())),
		asynq.Queue(c.queue),
		asynq.TaskID(reminderTaskID(f)),
		asynq.MaxRetry(reminderMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func reminderTaskID(f domain.FollowUp) string {
	return "followup-reminder:" + f.ID.String()
}

// reminderRunAt is leadTime before due, but never in the past.
func reminderRunAt(due time.Time, leadTime time.Duration, now time.Time) time.Time {
	runAt := due.Add(-leadTime)
	if runAt.Before(now) {
		return now
	}
	return runAt
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
