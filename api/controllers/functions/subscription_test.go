package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/internal/usage"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

type stubSubscriptions struct {
	calls  []string
	planID string
	sub    *models.Subscription
	err    error
}

func (s *stubSubscriptions) Create(_ context.Context, _ uuid.UUID, planID string) (*models.Subscription, error) {
	s.calls = append(s.calls, "create")
	s.planID = planID
	return s.sub, s.err
}

func (s *stubSubscriptions) Cancel(context.Context, uuid.UUID) (*models.Subscription, error) {
	s.calls = append(s.calls, "cancel")
	return s.sub, s.err
}

func (s *stubSubscriptions) Update(_ context.Context, _ uuid.UUID, planID string) (*models.Subscription, error) {
	s.calls = append(s.calls, "update")
	s.planID = planID
	return s.sub, s.err
}

type stubLimits struct {
	feature string
	check   *usage.LimitCheck
	err     error
}

func (s *stubLimits) CheckLimit(_ context.Context, _ uuid.UUID, feature string) (*usage.LimitCheck, error) {
	s.feature = feature
	return s.check, s.err
}

func subscriptionRequestFor(t *testing.T, userID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/subscription", strings.NewReader(body))
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestSubscriptionCreate(t *testing.T) {
	userID := uuid.New()
	subs := &stubSubscriptions{sub: &models.Subscription{ID: uuid.New(), UserID: userID, PlanID: "professional", Status: enums.SubscriptionStatusActive}}
	handler := Subscription(subs, &stubLimits{}, nil)

	resp := httptest.NewRecorder()
	handler(resp, subscriptionRequestFor(t, userID, `{"action":"create","planId":"professional"}`))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"create"}, subs.calls)
	assert.Equal(t, "professional", subs.planID)

	var body struct {
		Success      bool                `json:"success"`
		Subscription models.Subscription `json:"subscription"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "professional", body.Subscription.PlanID)
	assert.Equal(t, enums.SubscriptionStatusActive, body.Subscription.Status)
}

func TestSubscriptionCancelAndUpdateRoute(t *testing.T) {
	userID := uuid.New()
	subs := &stubSubscriptions{sub: &models.Subscription{UserID: userID}}
	handler := Subscription(subs, &stubLimits{}, nil)

	for _, body := range []string{`{"action":"cancel"}`, `{"action":"update","planId":"enterprise"}`} {
		resp := httptest.NewRecorder()
		handler(resp, subscriptionRequestFor(t, userID, body))
		require.Equal(t, http.StatusOK, resp.Code, body)
	}
	assert.Equal(t, []string{"cancel", "update"}, subs.calls)
	assert.Equal(t, "enterprise", subs.planID)
}

func TestSubscriptionCheckLimits(t *testing.T) {
	limits := &stubLimits{check: &usage.LimitCheck{CanUse: false, CurrentUsage: 50, Limit: 50}}
	handler := Subscription(&stubSubscriptions{}, limits, nil)

	resp := httptest.NewRecorder()
	handler(resp, subscriptionRequestFor(t, uuid.New(), `{"action":"check_limits","featureName":"workflows"}`))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "workflows", limits.feature)
	assert.JSONEq(t, `{"success":true,"canUse":false,"currentUsage":50,"limit":50}`, resp.Body.String())
}

func TestSubscriptionFailuresFlattenTo400(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		want string
	}{
		{"invalid action", nil, `{"action":"upgrade"}`, "Invalid action"},
		{"missing action", nil, `{}`, "Invalid action"},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "subscription already exists"), `{"action":"create","planId":"starter"}`, "subscription already exists"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found"), `{"action":"cancel"}`, "subscription not found"},
		{"malformed", nil, `{"action":`, "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Subscription(&stubSubscriptions{err: tc.err}, &stubLimits{}, nil)
			resp := httptest.NewRecorder()
			handler(resp, subscriptionRequestFor(t, uuid.New(), tc.body))

			require.Equal(t, http.StatusBadRequest, resp.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.want, body["error"])
		})
	}
}

func TestSubscriptionRejectsOverlongPlanID(t *testing.T) {
	subs := &stubSubscriptions{}
	handler := Subscription(subs, &stubLimits{}, nil)

	for _, action := range []string{"create", "update"} {
		resp := httptest.NewRecorder()
		body := `{"action":"` + action + `","planId":"` + strings.Repeat("x", 85) + `"}`
		handler(resp, subscriptionRequestFor(t, uuid.New(), body))

		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"planId must be at most 64 characters"}`, resp.Body.String())
	}
	assert.Empty(t, subs.calls)

	limits := &stubLimits{}
	resp := httptest.NewRecorder()
	Subscription(subs, limits, nil)(resp, subscriptionRequestFor(t, uuid.New(), `{"action":"check_limits","featureName":"`+strings.Repeat("f", 65)+`"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, limits.feature)
}

func TestSubscriptionRequiresCaller(t *testing.T) {
	subs := &stubSubscriptions{}
	handler := Subscription(subs, &stubLimits{}, nil)

	resp := httptest.NewRecorder()
	handler(resp, subscriptionRequestFor(t, uuid.Nil, `{"action":"create","planId":"starter"}`))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, subs.calls)
}
