package redisstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"contractor/internal/domain/contractor"
	"contractor/pkg/logger"
)

// MainBorrowerUpdater applies main-borrower notices.
type MainBorrowerUpdater interface {
	UpdateMainBorrower(ctx context.Context, upd contractor.MainBorrowerUpdate) error
}

// ConsumerConfig configures a stream consumer.
type ConsumerConfig struct {
	Stream   string
	Group    string
	Consumer string

	// Count and Block bound one XREADGROUP call.
	Count int64
	Block time.Duration
}

// Consumer reads the main-borrower stream in a consumer group. Every
// delivered entry is acknowledged; entries that cannot be applied are first
// copied to the dead letter stream.
//
// Entries left pending by a failed dead-letter write, or by a previous run of
// the same consumer name, are re-read before new entries.
type Consumer struct {
	client  streamClient
	cfg     ConsumerConfig
	updater MainBorrowerUpdater

	recoverPending bool
}

// NewConsumer creates a consumer.
func NewConsumer(client streamClient, cfg ConsumerConfig, updater MainBorrowerUpdater) *Consumer {
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	return &Consumer{client: client, cfg: cfg, updater: updater, recoverPending: true}
}

// EnsureGroup creates the consumer group (and the stream) if missing.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s on %s: %w", c.cfg.Group, c.cfg.Stream, err)
	}
	return nil
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	for {
		if _, err := c.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error(ctx, "main borrower poll failed", "stream", c.cfg.Stream, "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Poll reads one batch and returns the number of entries handled. While
// this consumer has pending entries they are handled instead of new ones.
func (c *Consumer) Poll(ctx context.Context) (int, error) {
	if c.recoverPending {
		n, err := c.read(ctx, "0")
		if err != nil || n > 0 {
			return n, err
		}
		c.recoverPending = false
	}
	return c.read(ctx, ">")
}

func (c *Consumer) read(ctx context.Context, from string) (int, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, from},
		Count:    c.cfg.Count,
		Block:    c.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("xreadgroup %s: %w", c.cfg.Stream, err)
	}

	handled := 0
	for _, s := range streams {
		for _, msg := range s.Messages {
			if err := c.handle(ctx, msg); err != nil {
				c.recoverPending = true
				return handled, err
			}
			handled++
		}
	}
	return handled, nil
}

// handle applies one entry. An error is returned only when the entry could
// neither be applied nor dead-lettered; it then stays pending until the next
// pending read.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) error {
	upd, err := decodeMainBorrower(msg)
	if err == nil {
		err = c.updater.UpdateMainBorrower(ctx, upd)
	}

	if err != nil {
		attempt := attemptOf(msg) + 1
		logger.Warn(ctx, "main borrower update failed",
			"stream", c.cfg.Stream,
			"entry_id", msg.ID,
			"attempt", attempt,
			"error", err,
		)
		if dlqErr := c.deadLetter(ctx, msg, attempt, err); dlqErr != nil {
			return dlqErr
		}
	} else {
		logger.Debug(ctx, "main borrower updated",
			"contractor_id", upd.ContractorID,
			"has_main_deals", upd.HasMainDeals,
		)
	}

	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack %s: %w", msg.ID, err)
	}
	return nil
}

func (c *Consumer) deadLetter(ctx context.Context, msg redis.XMessage, attempt int, cause error) error {
	dlq := DLQStream(c.cfg.Stream)
	err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: dlq,
		Values: map[string]any{
			fieldPayload: stringField(msg, fieldPayload),
			fieldAttempt: strconv.Itoa(attempt),
			fieldError:   cause.Error(),
			fieldSource:  msg.ID,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", dlq, err)
	}
	return nil
}

func decodeMainBorrower(msg redis.XMessage) (contractor.MainBorrowerUpdate, error) {
	var upd contractor.MainBorrowerUpdate

	raw := stringField(msg, fieldPayload)
	if raw == "" {
		return upd, fmt.Errorf("entry %s has no payload", msg.ID)
	}
	if err := json.Unmarshal([]byte(raw), &upd); err != nil {
		return upd, fmt.Errorf("decode entry %s: %w", msg.ID, err)
	}
	return upd, nil
}

func stringField(msg redis.XMessage, name string) string {
	switch v := msg.Values[name].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func attemptOf(msg redis.XMessage) int {
	n, err := strconv.Atoi(stringField(msg, fieldAttempt))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
