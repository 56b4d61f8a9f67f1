package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
)

// InboxSink persists messages as in-app notification rows.
type InboxSink struct {
	repo Repository
}

func NewInboxSink(repo Repository) (*InboxSink, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &InboxSink{repo: repo}, nil
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, msg Message) error {
	row := &models.Notification{
		UserID: msg.RecipientID,
		Type:   msg.Type,
		Title:  msg.Title,
		Body:   msg.Body,
	}
	if msg.CampaignID != uuid.Nil {
		id := msg.CampaignID
		row.CampaignID = &id
	}
	if link := strings.TrimSpace(msg.URL); link != "" {
		row.Link = &link
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// Publisher is satisfied by pubsub.TopicPublisher.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// PushSink hands messages to the push-delivery worker through a topic.
type PushSink struct {
	publisher Publisher
}

type pushPayload struct {
	UserID     string `json:"userId"`
	CampaignID string `json:"campaignId,omitempty"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	URL        string `json:"url,omitempty"`
}

func NewPushSink(publisher Publisher) (*PushSink, error) {
	if publisher == nil {
		return nil, fmt.Errorf("push publisher required")
	}
	return &PushSink{publisher: publisher}, nil
}

func (s *PushSink) Name() string { return "push" }

func (s *PushSink) Deliver(ctx context.Context, msg Message) error {
	payload := pushPayload{
		UserID: msg.RecipientID.String(),
		Type:   string(msg.Type),
		Title:  msg.Title,
		Body:   msg.Body,
		URL:    msg.URL,
	}
	if msg.CampaignID != uuid.Nil {
		payload.CampaignID = msg.CampaignID.String()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}
	return s.publisher.Publish(ctx, data, map[string]string{
		"type":    payload.Type,
		"user_id": payload.UserID,
	})
}
