package pubsub

import (
	"context"
	"testing"

	"github.com/aisynapse/synapse-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "synapse-prod"}

	cases := map[string]string{
		"":                                  "",
		"  notifications ":                  "projects/synapse-prod/topics/notifications",
		"projects/other/topics/alerts":      "projects/other/topics/alerts",
		"projects/other/subscriptions/sub1": "projects/synapse-prod/topics/projects/other/subscriptions/sub1",
	}
	for in, want := range cases {
		if got := c.topicResourceName(in); got != want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", in, got, want)
		}
	}

	if got := (&Client{}).topicResourceName("notifications"); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{NotificationTopic: "n"}, nil)
	if err != errProjectIDRequired {
		t.Fatalf("expected project id error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("notifications") != nil {
		t.Fatal("nil client must not return a publisher")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on nil client")
	}
	if _, err := c.Publish(context.Background(), "notifications", nil, nil); err == nil {
		t.Fatal("expected publish error on nil client")
	}
}

func TestClientOptions(t *testing.T) {
	if len(clientOptions(config.GCPConfig{})) != 0 {
		t.Fatal("expected default credentials")
	}
	if len(clientOptions(config.GCPConfig{CredentialsJSON: "{}"})) != 1 {
		t.Fatal("expected json credentials option")
	}
	if len(clientOptions(config.GCPConfig{ApplicationCredentials: "/tmp/sa.json"})) != 1 {
		t.Fatal("expected file credentials option")
	}
}
