package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/internal/plans"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

// LimitCheck is the outcome of evaluating one feature against the caller's plan.
type LimitCheck struct {
	CanUse       bool  `json:"canUse"`
	CurrentUsage int64 `json:"currentUsage"`
	Limit        int64 `json:"limit"`
}

// SubscriptionReader resolves the caller's subscription row.
type SubscriptionReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// Recorder is the narrow surface used by callers that meter work.
type Recorder interface {
	Record(ctx context.Context, userID uuid.UUID, feature string, count int64) error
}

type Service interface {
	Recorder
	CurrentMonthUsage(ctx context.Context, userID uuid.UUID, feature string) (int64, error)
	CheckLimit(ctx context.Context, userID uuid.UUID, feature string) (*LimitCheck, error)
}

// ServiceParams groups dependencies for the usage service.
type ServiceParams struct {
	Repo          Repository
	Subscriptions SubscriptionReader
	Location      *time.Location
	Now           func() time.Time
	Observer      func(feature string, allowed bool)
}

type service struct {
	repo          Repository
	subscriptions SubscriptionReader
	loc           *time.Location
	now           func() time.Time
	observe       func(feature string, allowed bool)
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage repo required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription reader required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	observe := params.Observer
	if observe == nil {
		observe = func(string, bool) {}
	}
	return &service{
		repo:          params.Repo,
		subscriptions: params.Subscriptions,
		loc:           loc,
		now:           now,
		observe:       observe,
	}, nil
}

func (s *service) CurrentMonthUsage(ctx context.Context, userID uuid.UUID, feature string) (int64, error) {
	since := MonthStart(s.now().In(s.loc))
	total, err := s.repo.SumSince(ctx, userID, feature, since)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query usage logs")
	}
	return total, nil
}

// CheckLimit compares month-to-date usage against the plan ceiling. It never writes.
// Subscription status is not consulted; a canceled row still resolves its plan.
func (s *service) CheckLimit(ctx context.Context, userID uuid.UUID, feature string) (*LimitCheck, error) {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "featureName is required")
	}

	sub, err := s.subscriptions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := plans.Limit(sub.PlanID, feature)
	current, err := s.CurrentMonthUsage(ctx, userID, feature)
	if err != nil {
		return nil, err
	}

	check := &LimitCheck{
		CanUse:       current < limit,
		CurrentUsage: current,
		Limit:        limit,
	}
	s.observe(feature, check.CanUse)
	return check, nil
}

func (s *service) Record(ctx context.Context, userID uuid.UUID, feature string, count int64) error {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "feature name is required")
	}
	if count <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage count must be positive")
	}

	entry := &models.UsageLog{
		UserID:      userID,
		FeatureName: feature,
		UsageCount:  count,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record usage")
	}
	return nil
}
