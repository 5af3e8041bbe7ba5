package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/logger"
)

// AnalyticsWriter appends metric samples produced by data processing runs.
type AnalyticsWriter interface {
	Create(ctx context.Context, row *models.AnalyticsData) error
}

// HandlerParams groups dependencies for the default handler set.
type HandlerParams struct {
	Analytics AnalyticsWriter
	Publisher Publisher
	Logger    *logger.Logger
	Now       func() time.Time
}

type defaultHandlers struct {
	analytics AnalyticsWriter
	publisher Publisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewHandlers returns the production handler set.
func NewHandlers(params HandlerParams) (Handlers, error) {
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics writer required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("notification publisher required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &defaultHandlers{
		analytics: params.Analytics,
		publisher: params.Publisher,
		logg:      params.Logger,
		now:       now,
	}, nil
}

func (h *defaultHandlers) DataProcessing(ctx context.Context, wf *models.Workflow, cfg DataProcessingConfig) (*DataProcessingResult, error) {
	op := cfg.Operation
	if op == "" {
		op = OperationCount
	}
	value := Aggregate(op, cfg.Values)
	result := &DataProcessingResult{
		Processed: true,
		Operation: op,
		Value:     &value,
		Samples:   len(cfg.Values),
	}
	if cfg.MetricName == "" {
		return result, nil
	}

	row := &models.AnalyticsData{
		ProjectID:   wf.ProjectID,
		MetricName:  cfg.MetricName,
		MetricValue: datatypes.JSON(value.String()),
		Timestamp:   h.now(),
	}
	if err := h.analytics.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record analytics sample")
	}
	result.MetricName = cfg.MetricName
	return result, nil
}

func (h *defaultHandlers) Notification(ctx context.Context, wf *models.Workflow, cfg NotificationConfig) (*NotificationResult, error) {
	channel := cfg.Channel
	if channel == "" {
		channel = "email"
	}
	msg := Notification{
		ID:         uuid.New(),
		WorkflowID: wf.ID,
		ProjectID:  wf.ProjectID,
		Channel:    channel,
		Recipients: cfg.Recipients,
		Subject:    cfg.Subject,
		Message:    cfg.Message,
		CreatedAt:  h.now().UTC(),
	}
	id, err := h.publisher.Publish(ctx, msg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish notification")
	}
	if h.logg != nil {
		h.logg.Info(h.logg.WithField(ctx, "message_id", id), "workflow.notification.sent")
	}
	return &NotificationResult{Sent: true, Channel: channel, MessageID: id}, nil
}
