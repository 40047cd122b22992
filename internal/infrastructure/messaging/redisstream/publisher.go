package redisstream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"contractor/internal/infrastructure/storage/postgres"
)

// Publisher appends outbox messages to the contractor update stream.
type Publisher struct {
	client streamClient
	stream string
	maxLen int64
}

var _ postgres.OutboxHandler = (*Publisher)(nil)

// NewPublisher creates a publisher. maxLen caps the stream approximately;
// zero leaves it unbounded.
func NewPublisher(client streamClient, stream string, maxLen int64) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

// Handle implements postgres.OutboxHandler.
func (p *Publisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			fieldMessageID:   msg.ID.String(),
			fieldType:        msg.EventType,
			fieldAggregateID: msg.AggregateID,
			fieldPayload:     string(msg.Payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
