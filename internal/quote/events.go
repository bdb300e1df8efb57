package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// SubmittedEvent is published to the attribution pipeline after a
// quote is persisted. The ref code is the payload that matters; the
// rest is correlation context.
type SubmittedEvent struct {
	Type        string          `json:"type"`
	QuoteID     string          `json:"quote_id"`
	Number      string          `json:"number"`
	SessionID   string          `json:"session_id"`
	VisitorID   string          `json:"visitor_id"`
	RefCode     string          `json:"ref_code,omitempty"`
	Total       decimal.Decimal `json:"total"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

const eventTypeSubmitted = "quote.submitted"

// EventPublisher delivers submission events. Publishing is best effort
// from the caller's point of view; a lost event never fails a quote.
type EventPublisher interface {
	PublishSubmitted(ctx context.Context, event SubmittedEvent) error
}

// PubSubPublisher sends events through a Pub/Sub topic publisher.
type PubSubPublisher struct {
	publisher *pubsub.Publisher
}

// NewPubSubPublisher wraps a topic publisher handle.
func NewPubSubPublisher(publisher *pubsub.Publisher) (*PubSubPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("topic publisher required")
	}
	return &PubSubPublisher{publisher: publisher}, nil
}

func (p *PubSubPublisher) PublishSubmitted(ctx context.Context, event SubmittedEvent) error {
	event.Type = eventTypeSubmitted
	payload, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode submission event")
	}
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":     eventTypeSubmitted,
			"quote_id": event.QuoteID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish submission event")
	}
	return nil
}
