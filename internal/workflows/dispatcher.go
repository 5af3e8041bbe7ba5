package workflows

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
)

// Result is what a handler reports back to the caller.
type Result interface {
	workflowResult()
}

type DataProcessingResult struct {
	Processed  bool             `json:"processed"`
	MetricName string           `json:"metric_name,omitempty"`
	Operation  string           `json:"operation,omitempty"`
	Value      *decimal.Decimal `json:"value,omitempty"`
	Samples    int              `json:"samples"`
}

func (*DataProcessingResult) workflowResult() {}

type NotificationResult struct {
	Sent      bool   `json:"sent"`
	Channel   string `json:"channel,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

func (*NotificationResult) workflowResult() {}

// Handlers has one method per Config variant. Adding a variant means every
// Handlers implementation must grow a method.
type Handlers interface {
	DataProcessing(ctx context.Context, wf *models.Workflow, cfg DataProcessingConfig) (*DataProcessingResult, error)
	Notification(ctx context.Context, wf *models.Workflow, cfg NotificationConfig) (*NotificationResult, error)
}

// Dispatcher routes a workflow to the handler for its config type. It holds no
// state of its own and does not look at is_active.
type Dispatcher struct {
	handlers Handlers
}

func NewDispatcher(handlers Handlers) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Dispatch parses the stored config and runs it. Parse failures mutate nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, wf *models.Workflow) (Result, error) {
	cfg, err := ParseConfig(wf.WorkflowConfig)
	if err != nil {
		return nil, err
	}
	return d.Route(ctx, wf, cfg)
}

// Route runs an already parsed config.
func (d *Dispatcher) Route(ctx context.Context, wf *models.Workflow, cfg Config) (Result, error) {
	return cfg.dispatch(ctx, d.handlers, wf)
}
