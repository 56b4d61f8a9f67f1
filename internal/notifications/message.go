package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

// Message is one notification addressed to one recipient.
type Message struct {
	RecipientID uuid.UUID
	CampaignID  uuid.UUID
	Type        enums.NotificationType
	Title       string
	Body        string
	URL         string
}

// Sink delivers a message over one channel (inbox row, push topic, ...).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// Sender is what the lifecycle and the scheduler hand messages to.
type Sender interface {
	Dispatch(ctx context.Context, msgs ...Message)
}
