// Package redisstream carries contractor events over Redis Streams: the
// inbound main-borrower feed, its dead letter stream and the outbound
// contractor update stream.
package redisstream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Field names shared by every stream entry.
const (
	fieldPayload     = "payload"
	fieldType        = "type"
	fieldAggregateID = "aggregate_id"
	fieldMessageID   = "message_id"
	fieldAttempt     = "attempt"
	fieldError       = "error"
	fieldSource      = "source"
)

// streamClient is the subset of redis.Cmdable used here.
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
	XDel(ctx context.Context, stream string, ids ...string) *redis.IntCmd
}

var _ streamClient = (*redis.Client)(nil)

// NewClient parses redisURL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// DLQStream returns the dead letter stream of stream.
func DLQStream(stream string) string {
	return stream + ".dlq"
}
