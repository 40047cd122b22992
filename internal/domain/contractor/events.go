package contractor

import (
	"context"
	"time"
)

// EventContractorUpdated is published when a contractor's main-borrower flag changes.
const EventContractorUpdated = "contractor.update"

// AggregateType identifies contractor events in the outbox.
const AggregateType = "contractor"

// Event is a domain event bound for the outbound stream.
type Event struct {
	Type        string
	AggregateID string
	Payload     any
}

// EventPublisher records events. Implementations are called inside the
// transaction that produced the change.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// MainBorrowerChanged is the payload of EventContractorUpdated.
type MainBorrowerChanged struct {
	ContractorID       string    `json:"contractor_id"`
	ActiveMainBorrower bool      `json:"active_main_borrower"`
	ChangedAt          time.Time `json:"changed_at"`
}
