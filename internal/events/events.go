package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OfferEventType identifies a trade offer lifecycle transition.
type OfferEventType string

const (
	// OfferProposed is published when a new offer enters the pending state.
	OfferProposed OfferEventType = "offer.proposed"

	// OfferAccepted is published when the recipient accepts a pending offer.
	OfferAccepted OfferEventType = "offer.accepted"

	// OfferRejected is published when the recipient rejects a pending offer.
	OfferRejected OfferEventType = "offer.rejected"

	// OfferCancelled is published when the proposer withdraws a pending offer.
	OfferCancelled OfferEventType = "offer.cancelled"
)

// OfferEvent records one trade offer lifecycle transition. Events are
// published after the transition has been committed, so they describe
// facts, not intentions.
type OfferEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names the transition this event records
	Type OfferEventType `json:"type"`

	// OfferID is the trade offer the transition happened to
	OfferID uuid.UUID `json:"offer_id"`

	// ActorID is the user whose request caused the transition
	ActorID uuid.UUID `json:"actor_id"`

	// Payload carries a snapshot of the offer serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *OfferEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewOfferEvent creates an event for the given transition. A nil payload
// produces an event without a snapshot.
func NewOfferEvent(
	eventType OfferEventType,
	offerID, actorID uuid.UUID,
	payload interface{},
) (*OfferEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	return &OfferEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OfferID:    offerID,
		ActorID:    actorID,
		Payload:    raw,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *OfferEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *OfferEvent) error

// HandleEvent implements EventHandler by calling the function itself.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *OfferEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *OfferEvent) error
}
