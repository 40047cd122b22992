package redisstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"contractor/pkg/logger"
)

// RedriveConfig configures dead letter redelivery.
type RedriveConfig struct {
	Stream string

	// TTL is how long an entry rests in the dead letter stream before it is
	// sent back.
	TTL time.Duration

	// MaxAttempts parks entries that already failed this many times.
	MaxAttempts int

	BatchSize int64
}

// Redriver moves rested dead letter entries back to their source stream.
type Redriver struct {
	client streamClient
	cfg    RedriveConfig
	now    func() time.Time
}

// NewRedriver creates a redriver.
func NewRedriver(client streamClient, cfg RedriveConfig) *Redriver {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Redriver{client: client, cfg: cfg, now: time.Now}
}

// Redrive performs one pass and returns the number of entries moved. The
// dead letter stream is paged by id so parked entries at its head never hide
// newer ones.
func (r *Redriver) Redrive(ctx context.Context) (int, error) {
	dlq := DLQStream(r.cfg.Stream)
	cutoff := r.now().Add(-r.cfg.TTL)

	moved := 0
	start := "-"
	for {
		entries, err := r.client.XRangeN(ctx, dlq, start, "+", r.cfg.BatchSize).Result()
		if err != nil {
			return moved, fmt.Errorf("xrange %s: %w", dlq, err)
		}

		for _, msg := range entries {
			at, ok := entryTime(msg.ID)
			if !ok {
				continue
			}
			// Entries are time ordered; the rest are younger still.
			if at.After(cutoff) {
				return moved, nil
			}
			if attemptOf(msg) >= r.cfg.MaxAttempts {
				continue
			}

			if err := r.move(ctx, dlq, msg); err != nil {
				return moved, err
			}
			moved++
		}

		if int64(len(entries)) < r.cfg.BatchSize {
			return moved, nil
		}
		start = "(" + entries[len(entries)-1].ID
	}
}

func (r *Redriver) move(ctx context.Context, dlq string, msg redis.XMessage) error {
	if err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.cfg.Stream,
		Values: map[string]any{
			fieldPayload: stringField(msg, fieldPayload),
			fieldAttempt: strconv.Itoa(attemptOf(msg)),
		},
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", r.cfg.Stream, err)
	}
	if err := r.client.XDel(ctx, dlq, msg.ID).Err(); err != nil {
		return fmt.Errorf("xdel %s: %w", msg.ID, err)
	}
	return nil
}

// entryTime extracts the millisecond timestamp of a stream entry id.
func entryTime(entryID string) (time.Time, bool) {
	ms, _, ok := strings.Cut(entryID, "-")
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(n), true
}

// Scheduler runs the redriver on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	redriver *Redriver
	spec     string
}

// NewScheduler fires the redriver every interval.
func NewScheduler(redriver *Redriver, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		redriver: redriver,
		spec:     fmt.Sprintf("@every %s", interval),
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		moved, err := s.redriver.Redrive(ctx)
		if err != nil {
			logger.Error(ctx, "dlq redrive failed", "stream", s.redriver.cfg.Stream, "error", err)
			return
		}
		if moved > 0 {
			logger.Info(ctx, "dlq entries redriven", "stream", s.redriver.cfg.Stream, "count", moved)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule redrive: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
