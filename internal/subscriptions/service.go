package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/pkg/db"
	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

// MaxPlanIDLength bounds plan identifiers. Longer ids are rejected, never cut.
const MaxPlanIDLength = 64

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the subscription lifecycle surface.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
	Now               func() time.Time
}

type service struct {
	repo     Repository
	txRunner txRunner
	now      func() time.Time
}

// NewService builds a subscription service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repo required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		txRunner: params.TransactionRunner,
		now:      now,
	}, nil
}

// Create opens a one-month active period starting now. A user holds at most one row.
func (s *service) Create(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error) {
	planID, err := validate(userID, planID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var created *models.Subscription
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		sub := &models.Subscription{
			UserID:             userID,
			PlanID:             planID,
			Status:             enums.SubscriptionStatusActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := txRepo.Create(ctx, sub); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "subscription already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}
		found, err := s.load(ctx, txRepo, userID)
		if err != nil {
			return err
		}
		created = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel marks the row canceled and keeps the plan.
func (s *service) Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.mutate(ctx, userID, "cancel subscription", func(txRepo Repository, at time.Time) (int64, error) {
		return txRepo.UpdateStatus(ctx, userID, enums.SubscriptionStatusCanceled, at)
	})
}

// Update moves the user to planID and reactivates the row. The current period is kept.
func (s *service) Update(ctx context.Context, userID uuid.UUID, planID string) (*models.Subscription, error) {
	planID, err := validate(userID, planID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, "update subscription", func(txRepo Repository, at time.Time) (int64, error) {
		return txRepo.UpdatePlan(ctx, userID, planID, at)
	})
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.load(ctx, s.repo, userID)
}

func (s *service) mutate(ctx context.Context, userID uuid.UUID, op string, apply func(Repository, time.Time) (int64, error)) (*models.Subscription, error) {
	var updated *models.Subscription
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		rows, err := apply(txRepo, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		found, err := s.load(ctx, txRepo, userID)
		if err != nil {
			return err
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) load(ctx context.Context, r Repository, userID uuid.UUID) (*models.Subscription, error) {
	sub, err := r.FindByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return sub, nil
}

func validate(userID uuid.UUID, planID string) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "planId is required")
	}
	if utf8.RuneCountInString(planID) > MaxPlanIDLength {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "planId must be at most %d characters", MaxPlanIDLength)
	}
	return planID, nil
}
