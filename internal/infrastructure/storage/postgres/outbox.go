package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"contractor/internal/core/id"
	"contractor/internal/domain/contractor"
	"contractor/pkg/logger"
)

const (
	outboxTable    = "sys_outbox"
	outboxDLQTable = "sys_outbox_dlq"

	// MaxOutboxRetries is the number of failed deliveries after which a
	// message is marked failed and becomes eligible for the DLQ.
	MaxOutboxRetries = 5
)

// OutboxStatus represents the state of an outbox message.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxMessage is a row of the transactional outbox.
type OutboxMessage struct {
	ID            id.ID        `db:"id"`
	AggregateType string       `db:"aggregate_type"`
	AggregateID   string       `db:"aggregate_id"`
	EventType     string       `db:"event_type"`
	Payload       []byte       `db:"payload"`
	Status        OutboxStatus `db:"status"`
	RetryCount    int          `db:"retry_count"`
	LastError     *string      `db:"last_error"`
	NextRetryAt   *time.Time   `db:"next_retry_at"`
	CreatedAt     time.Time    `db:"created_at"`
	PublishedAt   *time.Time   `db:"published_at"`
}

var outboxColumns = ExtractDBColumns[OutboxMessage]()

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// OutboxPublisher writes contractor events to the outbox table.
type OutboxPublisher struct {
	txManager *TxManager
	now       func() time.Time
}

var _ contractor.EventPublisher = (*OutboxPublisher)(nil)

// NewOutboxPublisher creates a new outbox publisher.
func NewOutboxPublisher(txManager *TxManager) *OutboxPublisher {
	return &OutboxPublisher{txManager: txManager, now: time.Now}
}

// Publish writes an event to the outbox. It must run inside a transaction
// so the event commits or rolls back with the change that produced it.
func (p *OutboxPublisher) Publish(ctx context.Context, event contractor.Event) error {
	pgTx := p.txManager.GetTx(ctx)
	if pgTx == nil {
		return fmt.Errorf("outbox publish requires transaction context")
	}

	sql, args, err := buildOutboxInsert(event, id.New(), p.now().UTC())
	if err != nil {
		return err
	}

	if _, err := pgTx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}

func buildOutboxInsert(event contractor.Event, msgID id.ID, at time.Time) (string, []any, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal event payload: %w", err)
	}

	sql, args, err := builder().
		Insert(outboxTable).
		Columns("id", "aggregate_type", "aggregate_id", "event_type", "payload", "status", "created_at").
		Values(msgID, contractor.AggregateType, event.AggregateID, event.Type, payload, OutboxStatusPending, at).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build outbox insert: %w", err)
	}
	return sql, args, nil
}

// OutboxHandler delivers outbox messages to the broker.
type OutboxHandler interface {
	Handle(ctx context.Context, msg *OutboxMessage) error
}

// OutboxRelay drains pending outbox messages through an OutboxHandler.
// Used by the background worker.
type OutboxRelay struct {
	txManager *TxManager
	batchSize int
	handler   OutboxHandler
}

// NewOutboxRelay creates a new outbox relay.
func NewOutboxRelay(txManager *TxManager, batchSize int, handler OutboxHandler) *OutboxRelay {
	return &OutboxRelay{
		txManager: txManager,
		batchSize: batchSize,
		handler:   handler,
	}
}

// ProcessBatch delivers up to batchSize pending messages and returns how many
// were published. Rows are locked with SKIP LOCKED so several workers can
// share the table.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	processed := 0

	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sql, args, err := builder().
			Select(outboxColumns...).
			From(outboxTable).
			Where(squirrel.Eq{"status": OutboxStatusPending}).
			Where("(next_retry_at IS NULL OR next_retry_at <= NOW())").
			OrderBy("created_at").
			Limit(uint64(r.batchSize)).
			Suffix("FOR UPDATE SKIP LOCKED").
			ToSql()
		if err != nil {
			return fmt.Errorf("build outbox fetch: %w", err)
		}

		var messages []*OutboxMessage
		q := r.txManager.GetQuerier(ctx)
		if err := pgxscan.Select(ctx, q, &messages, sql, args...); err != nil {
			return fmt.Errorf("fetch outbox messages: %w", err)
		}

		for _, msg := range messages {
			if err := r.processMessage(ctx, msg); err != nil {
				logger.Warn(ctx, "outbox delivery failed",
					"message_id", msg.ID,
					"event_type", msg.EventType,
					"retry_count", msg.RetryCount,
					"error", err,
				)
				continue
			}
			processed++
		}
		return nil
	})

	return processed, err
}

func (r *OutboxRelay) processMessage(ctx context.Context, msg *OutboxMessage) error {
	q := r.txManager.GetQuerier(ctx)

	if err := r.handler.Handle(ctx, msg); err != nil {
		sql, args, buildErr := buildOutboxFailure(msg, err, time.Now().UTC())
		if buildErr != nil {
			return buildErr
		}
		if _, updateErr := q.Exec(ctx, sql, args...); updateErr != nil {
			return fmt.Errorf("update failed message: %w", updateErr)
		}
		return err
	}

	sql, args, err := builder().
		Update(outboxTable).
		Set("status", OutboxStatusPublished).
		Set("published_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": msg.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build publish update: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

// buildOutboxFailure records a failed delivery with linear backoff of one
// minute per attempt.
func buildOutboxFailure(msg *OutboxMessage, cause error, now time.Time) (string, []any, error) {
	status := OutboxStatusPending
	if msg.RetryCount+1 >= MaxOutboxRetries {
		status = OutboxStatusFailed
	}

	sql, args, err := builder().
		Update(outboxTable).
		Set("retry_count", squirrel.Expr("retry_count + 1")).
		Set("last_error", cause.Error()).
		Set("next_retry_at", now.Add(time.Duration(msg.RetryCount+1)*time.Minute)).
		Set("status", status).
		Where(squirrel.Eq{"id": msg.ID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build failure update: %w", err)
	}
	return sql, args, nil
}

// MoveToDLQ moves failed messages to the outbox dead letter table.
func (r *OutboxRelay) MoveToDLQ(ctx context.Context) (int64, error) {
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		WITH moved AS (
			DELETE FROM `+outboxTable+`
			WHERE status = $1 AND retry_count >= $2
			RETURNING *
		)
		INSERT INTO `+outboxDLQTable+`
		SELECT *, NOW() AS failed_at, last_error AS failure_reason FROM moved
	`, OutboxStatusFailed, MaxOutboxRetries)
	if err != nil {
		return 0, fmt.Errorf("move to DLQ: %w", err)
	}

	return result.RowsAffected(), nil
}
