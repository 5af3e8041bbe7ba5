package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

type recordingHandlers struct {
	dataCalls   []DataProcessingConfig
	notifyCalls []NotificationConfig
	err         error
}

func (h *recordingHandlers) DataProcessing(ctx context.Context, wf *models.Workflow, cfg DataProcessingConfig) (*DataProcessingResult, error) {
	h.dataCalls = append(h.dataCalls, cfg)
	if h.err != nil {
		return nil, h.err
	}
	return &DataProcessingResult{Processed: true}, nil
}

func (h *recordingHandlers) Notification(ctx context.Context, wf *models.Workflow, cfg NotificationConfig) (*NotificationResult, error) {
	h.notifyCalls = append(h.notifyCalls, cfg)
	if h.err != nil {
		return nil, h.err
	}
	return &NotificationResult{Sent: true}, nil
}

func workflowWith(raw string) *models.Workflow {
	return &models.Workflow{ID: uuid.New(), ProjectID: uuid.New(), WorkflowConfig: datatypes.JSON(raw)}
}

func TestDispatchRoutesByType(t *testing.T) {
	h := &recordingHandlers{}
	d := NewDispatcher(h)

	res, err := d.Dispatch(context.Background(), workflowWith(`{"type":"data_processing","config":{"source":"s"}}`))
	require.NoError(t, err)
	assert.IsType(t, &DataProcessingResult{}, res)

	res, err = d.Dispatch(context.Background(), workflowWith(`{"type":"notification","config":{}}`))
	require.NoError(t, err)
	assert.IsType(t, &NotificationResult{}, res)

	assert.Len(t, h.dataCalls, 1)
	assert.Len(t, h.notifyCalls, 1)
	assert.Equal(t, "s", h.dataCalls[0].Source)
}

func TestDispatchUnsupportedTypeCallsNoHandler(t *testing.T) {
	h := &recordingHandlers{}
	d := NewDispatcher(h)

	res, err := d.Dispatch(context.Background(), workflowWith(`{"type":"ml_training","config":{}}`))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnsupported))
	assert.Empty(t, h.dataCalls)
	assert.Empty(t, h.notifyCalls)
}

func TestDispatchHandlerErrorYieldsNilResult(t *testing.T) {
	d := NewDispatcher(&recordingHandlers{err: errors.New("boom")})

	res, err := d.Dispatch(context.Background(), workflowWith(`{"type":"notification"}`))
	require.Error(t, err)
	// a typed nil pointer must not leak through the Result interface
	assert.True(t, res == nil)
}
