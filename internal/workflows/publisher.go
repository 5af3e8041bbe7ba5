package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// Notification is the message body emitted by notification workflows.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	WorkflowID uuid.UUID `json:"workflow_id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Channel    string    `json:"channel"`
	Recipients []string  `json:"recipients,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher delivers a notification and returns the broker's message id.
type Publisher interface {
	Publish(ctx context.Context, n Notification) (string, error)
}

type topicClient interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
}

// TopicPublisher sends notifications to a Pub/Sub topic.
type TopicPublisher struct {
	client topicClient
	topic  string
}

func NewTopicPublisher(client topicClient, topic string) *TopicPublisher {
	return &TopicPublisher{client: client, topic: topic}
}

func (p *TopicPublisher) Publish(ctx context.Context, n Notification) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}
	attrs := map[string]string{
		"event_type":  "workflow.notification",
		"workflow_id": n.WorkflowID.String(),
		"channel":     n.Channel,
	}
	return p.client.Publish(ctx, p.topic, data, attrs)
}

// LogPublisher writes notifications to the structured log. Used when no topic is configured.
type LogPublisher struct {
	logg *logger.Logger
}

func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Publish(ctx context.Context, n Notification) (string, error) {
	if p.logg != nil {
		ctx = p.logg.WithFields(ctx, map[string]any{
			"notification_id": n.ID.String(),
			"workflow_id":     n.WorkflowID.String(),
			"channel":         n.Channel,
			"recipients":      len(n.Recipients),
			"subject":         n.Subject,
		})
		p.logg.Info(ctx, "workflow.notification.logged")
	}
	return n.ID.String(), nil
}
