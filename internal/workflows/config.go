package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

// Config is the closed set of workflow configurations. Only types in this
// package implement it.
type Config interface {
	Type() enums.WorkflowType
	dispatch(ctx context.Context, h Handlers, wf *models.Workflow) (Result, error)
}

const (
	OperationCount = "count"
	OperationSum   = "sum"
	OperationAvg   = "avg"
)

// DataProcessingConfig aggregates a series of values into one metric sample.
// Without a metric name nothing is persisted.
type DataProcessingConfig struct {
	Source     string    `json:"source" validate:"max=200"`
	MetricName string    `json:"metric_name" validate:"max=120"`
	Operation  string    `json:"operation" validate:"omitempty,oneof=count sum avg"`
	Values     []float64 `json:"values"`
}

func (DataProcessingConfig) Type() enums.WorkflowType { return enums.WorkflowTypeDataProcessing }

func (c DataProcessingConfig) dispatch(ctx context.Context, h Handlers, wf *models.Workflow) (Result, error) {
	res, err := h.DataProcessing(ctx, wf, c)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type NotificationConfig struct {
	Channel    string   `json:"channel" validate:"omitempty,oneof=email slack webhook sms"`
	Recipients []string `json:"recipients" validate:"omitempty,dive,required"`
	Subject    string   `json:"subject" validate:"max=200"`
	Message    string   `json:"message" validate:"max=4000"`
}

func (NotificationConfig) Type() enums.WorkflowType { return enums.WorkflowTypeNotification }

func (c NotificationConfig) dispatch(ctx context.Context, h Handlers, wf *models.Workflow) (Result, error) {
	res, err := h.Notification(ctx, wf, c)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type envelope struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ParseConfig decodes a stored {type, config} document into its typed variant.
func ParseConfig(raw []byte) (Config, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow config is required")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workflow config")
	}

	typ, err := enums.ParseWorkflowType(env.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnsupported, err, "Unsupported workflow type: "+env.Type).
			WithDetails(map[string]string{"type": env.Type})
	}

	switch typ {
	case enums.WorkflowTypeDataProcessing:
		var cfg DataProcessingConfig
		if err := decodeBody(env.Config, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	case enums.WorkflowTypeNotification:
		var cfg NotificationConfig
		if err := decodeBody(env.Config, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeUnsupported, "Unsupported workflow type: %s", env.Type)
}

func decodeBody(raw json.RawMessage, dest any) error {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workflow config")
		}
	}
	if err := validate.Struct(dest); err != nil {
		details := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workflow config").WithDetails(details)
	}
	return nil
}

