package workflows

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisynapse/synapse-backend/api/middleware"
	workflowsvc "github.com/aisynapse/synapse-backend/internal/workflows"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

type stubService struct {
	workflowID uuid.UUID
	active     *bool
	summaries  []workflowsvc.Summary
	result     workflowsvc.Result
	err        error
}

func (s *stubService) Execute(_ context.Context, _ uuid.UUID, workflowID uuid.UUID) (workflowsvc.Result, error) {
	s.workflowID = workflowID
	return s.result, s.err
}

func (s *stubService) List(context.Context, uuid.UUID) ([]workflowsvc.Summary, error) {
	return s.summaries, s.err
}

func (s *stubService) SetActive(_ context.Context, _ uuid.UUID, workflowID uuid.UUID, active bool) (*workflowsvc.Summary, error) {
	s.workflowID = workflowID
	s.active = &active
	if s.err != nil {
		return nil, s.err
	}
	return &workflowsvc.Summary{ID: workflowID, IsActive: active}, nil
}

func router(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), uuid.New())))
		})
	})
	r.Get("/api/v1/workflows", List(svc, nil))
	r.Patch("/api/v1/workflows/{workflowId}", Toggle(svc, nil))
	r.Post("/api/v1/workflows/{workflowId}/execute", Execute(svc, nil))
	return r
}

func TestListWorkflows(t *testing.T) {
	svc := &stubService{summaries: []workflowsvc.Summary{{ID: uuid.New(), Name: "Nightly rollup", Project: workflowsvc.ProjectRef{Name: "Ops"}}}}
	resp := httptest.NewRecorder()
	router(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/workflows", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data struct {
			Workflows []workflowsvc.Summary `json:"workflows"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Workflows, 1)
	assert.Equal(t, "Ops", body.Data.Workflows[0].Project.Name)
}

func TestToggleWorkflow(t *testing.T) {
	svc := &stubService{}
	id := uuid.New()
	resp := httptest.NewRecorder()
	router(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/v1/workflows/"+id.String(), strings.NewReader(`{"is_active":false}`)))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, svc.workflowID)
	require.NotNil(t, svc.active)
	assert.False(t, *svc.active)
}

func TestToggleRequiresFlag(t *testing.T) {
	svc := &stubService{}
	resp := httptest.NewRecorder()
	router(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/v1/workflows/"+uuid.NewString(), strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Nil(t, svc.active)
}

func TestExecuteWorkflow(t *testing.T) {
	svc := &stubService{result: &workflowsvc.NotificationResult{Sent: true, Channel: "email", MessageID: "m-1"}}
	id := uuid.New()
	resp := httptest.NewRecorder()
	router(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/workflows/"+id.String()+"/execute", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":{"workflow_id":"`+id.String()+`","result":{"sent":true,"channel":"email","message_id":"m-1"}}}`, resp.Body.String())
}

func TestExecuteErrorsMapToStatus(t *testing.T) {
	cases := map[pkgerrors.Code]int{
		pkgerrors.CodeNotFound:      http.StatusNotFound,
		pkgerrors.CodeForbidden:     http.StatusForbidden,
		pkgerrors.CodeStateConflict: http.StatusUnprocessableEntity,
		pkgerrors.CodeUnsupported:   http.StatusUnprocessableEntity,
	}
	for code, status := range cases {
		svc := &stubService{err: pkgerrors.New(code, "nope")}
		resp := httptest.NewRecorder()
		router(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/workflows/"+uuid.NewString()+"/execute", nil))
		assert.Equal(t, status, resp.Code, code)
	}
}

func TestExecuteRejectsBadID(t *testing.T) {
	resp := httptest.NewRecorder()
	router(&stubService{}).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/workflows/nope/execute", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
