package redisstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractor/internal/core/id"
	"contractor/internal/infrastructure/storage/postgres"
)

func TestPublisher_Handle(t *testing.T) {
	client := newFakeStreams()
	msg := &postgres.OutboxMessage{
		ID:          id.New(),
		AggregateID: "c1",
		EventType:   "contractor.update",
		Payload:     []byte(`{"contractor_id":"c1","active_main_borrower":true}`),
	}

	require.NoError(t, NewPublisher(client, "contractors.contractor.update", 1000).Handle(context.Background(), msg))

	entries := client.streams["contractors.contractor.update"]
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{
		fieldMessageID:   msg.ID.String(),
		fieldType:        "contractor.update",
		fieldAggregateID: "c1",
		fieldPayload:     `{"contractor_id":"c1","active_main_borrower":true}`,
	}, entries[0].Values)
}

func TestPublisher_HandleError(t *testing.T) {
	client := newFakeStreams()
	client.addErr["out"] = errBroker

	err := NewPublisher(client, "out", 0).Handle(context.Background(), &postgres.OutboxMessage{ID: id.New()})
	assert.ErrorIs(t, err, errBroker)
}
