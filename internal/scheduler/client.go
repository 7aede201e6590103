package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"leadgrid_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Enqueuer schedules delayed reminder tasks. The noop implementation is used
// when Redis is not configured.
type Enqueuer interface {
	EnqueueFollowUpReminder(ctx context.Context, payload FollowUpReminderPayload, delay time.Duration) error
	EnqueueTentativeHoldReminder(ctx context.Context, payload TentativeHoldReminderPayload, delay time.Duration) error
	Close() error
}

// Client wraps the asynq client for reminder scheduling.
type Client struct {
	client *asynq.Client
	queue  string
}

// RedisConnOpt builds the asynq Redis connection options from configuration.
func RedisConnOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}

	connOpt := asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	}
	if opts.TLSConfig != nil {
		connOpt.TLSConfig = opts.TLSConfig
		if cfg.GetRedisTLSInsecure() {
			connOpt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	return connOpt, nil
}

// NewClient creates the reminder scheduler client. Returns a NoopEnqueuer
// when no Redis URL is configured.
func NewClient(cfg config.SchedulerConfig) (Enqueuer, error) {
	if cfg.GetRedisURL() == "" {
		return NoopEnqueuer{}, nil
	}

	connOpt, err := RedisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(connOpt),
		queue:  cfg.GetAsynqQueueName(),
	}, nil
}

// EnqueueFollowUpReminder schedules a follow-up reminder after the delay.
func (c *Client) EnqueueFollowUpReminder(ctx context.Context, payload FollowUpReminderPayload, delay time.Duration) error {
	task, err := NewFollowUpReminderTask(payload)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue), asynq.ProcessIn(delay), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue follow-up reminder: %w", err)
	}
	return nil
}

// EnqueueTentativeHoldReminder schedules a tentative-hold reminder after the delay.
func (c *Client) EnqueueTentativeHoldReminder(ctx context.Context, payload TentativeHoldReminderPayload, delay time.Duration) error {
	task, err := NewTentativeHoldReminderTask(payload)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue), asynq.ProcessIn(delay), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue tentative-hold reminder: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// NoopEnqueuer drops every reminder. Used when Redis is not configured.
type NoopEnqueuer struct{}

func (NoopEnqueuer) EnqueueFollowUpReminder(context.Context, FollowUpReminderPayload, time.Duration) error {
	return nil
}

func (NoopEnqueuer) EnqueueTentativeHoldReminder(context.Context, TentativeHoldReminderPayload, time.Duration) error {
	return nil
}

func (NoopEnqueuer) Close() error { return nil }

// Compile-time checks.
var (
	_ Enqueuer = (*Client)(nil)
	_ Enqueuer = NoopEnqueuer{}
)
