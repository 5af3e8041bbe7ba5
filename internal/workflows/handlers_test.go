package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

type fakeAnalytics struct {
	rows []*models.AnalyticsData
	err  error
}

func (f *fakeAnalytics) Create(ctx context.Context, row *models.AnalyticsData) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakePublisher struct {
	sent []Notification
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, n Notification) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, n)
	return "msg-1", nil
}

var handlerNow = time.Date(2026, time.August, 3, 9, 30, 0, 0, time.UTC)

func newTestHandlers(t *testing.T, a *fakeAnalytics, p *fakePublisher) Handlers {
	t.Helper()
	h, err := NewHandlers(HandlerParams{Analytics: a, Publisher: p, Now: func() time.Time { return handlerNow }})
	require.NoError(t, err)
	return h
}

func TestNewHandlersRequiresDependencies(t *testing.T) {
	_, err := NewHandlers(HandlerParams{})
	assert.Error(t, err)
	_, err = NewHandlers(HandlerParams{Analytics: &fakeAnalytics{}})
	assert.Error(t, err)
}

func TestDataProcessingWritesSample(t *testing.T) {
	a := &fakeAnalytics{}
	h := newTestHandlers(t, a, &fakePublisher{})
	wf := &models.Workflow{ID: uuid.New(), ProjectID: uuid.New()}

	res, err := h.DataProcessing(context.Background(), wf, DataProcessingConfig{
		MetricName: "latency_ms",
		Operation:  OperationAvg,
		Values:     []float64{10, 20},
	})
	require.NoError(t, err)
	assert.True(t, res.Processed)
	assert.Equal(t, "latency_ms", res.MetricName)
	assert.Equal(t, "15", res.Value.String())
	assert.Equal(t, 2, res.Samples)

	require.Len(t, a.rows, 1)
	assert.Equal(t, wf.ProjectID, a.rows[0].ProjectID)
	assert.Equal(t, "15", string(a.rows[0].MetricValue))
	assert.True(t, a.rows[0].Timestamp.Equal(handlerNow))
}

func TestDataProcessingWithoutMetricSkipsWrite(t *testing.T) {
	a := &fakeAnalytics{}
	h := newTestHandlers(t, a, &fakePublisher{})

	res, err := h.DataProcessing(context.Background(), &models.Workflow{}, DataProcessingConfig{Values: []float64{1}})
	require.NoError(t, err)
	assert.True(t, res.Processed)
	assert.Equal(t, OperationCount, res.Operation)
	assert.Empty(t, a.rows)
}

func TestDataProcessingStoreFailure(t *testing.T) {
	h := newTestHandlers(t, &fakeAnalytics{err: errors.New("disk full")}, &fakePublisher{})

	_, err := h.DataProcessing(context.Background(), &models.Workflow{}, DataProcessingConfig{MetricName: "m"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestNotificationPublishes(t *testing.T) {
	p := &fakePublisher{}
	h := newTestHandlers(t, &fakeAnalytics{}, p)
	wf := &models.Workflow{ID: uuid.New(), ProjectID: uuid.New()}

	res, err := h.Notification(context.Background(), wf, NotificationConfig{Recipients: []string{"a@b.co"}, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, &NotificationResult{Sent: true, Channel: "email", MessageID: "msg-1"}, res)

	require.Len(t, p.sent, 1)
	assert.Equal(t, wf.ID, p.sent[0].WorkflowID)
	assert.Equal(t, "hi", p.sent[0].Message)
	assert.True(t, p.sent[0].CreatedAt.Equal(handlerNow))
}

func TestNotificationPublishFailure(t *testing.T) {
	h := newTestHandlers(t, &fakeAnalytics{}, &fakePublisher{err: errors.New("unavailable")})

	_, err := h.Notification(context.Background(), &models.Workflow{}, NotificationConfig{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

type fakeTopicClient struct {
	topic string
	data  []byte
	attrs map[string]string
}

func (f *fakeTopicClient) Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	f.topic, f.data, f.attrs = topic, data, attrs
	return "server-42", nil
}

func TestTopicPublisherEncodesNotification(t *testing.T) {
	client := &fakeTopicClient{}
	pub := NewTopicPublisher(client, "workflow-notifications")
	n := Notification{ID: uuid.New(), WorkflowID: uuid.New(), Channel: "slack", Message: "deploy done"}

	id, err := pub.Publish(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "server-42", id)
	assert.Equal(t, "workflow-notifications", client.topic)
	assert.Equal(t, "slack", client.attrs["channel"])
	assert.Equal(t, n.WorkflowID.String(), client.attrs["workflow_id"])

	var decoded Notification
	require.NoError(t, json.Unmarshal(client.data, &decoded))
	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, "deploy done", decoded.Message)
}

func TestLogPublisherReturnsNotificationID(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	n := Notification{ID: uuid.New(), Channel: "email"}

	id, err := NewLogPublisher(logg).Publish(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, n.ID.String(), id)
	assert.Contains(t, buf.String(), "workflow.notification.logged")
	assert.Contains(t, buf.String(), n.ID.String())
}
