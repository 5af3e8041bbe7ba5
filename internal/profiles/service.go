package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

// MaxFieldLength bounds full_name and company_name.
const MaxFieldLength = 200

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reads and edits the caller's profile.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error)
}

// ServiceParams groups dependencies for the profile service.
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

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profile repo required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, txRunner: params.TransactionRunner, now: now}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.load(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

// Update applies a partial edit. The row is created on first edit with the
// free tier.
func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	fields, err := changes(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var updated *models.Profile
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		seed := &models.Profile{
			ID:               userID,
			SubscriptionTier: enums.SubscriptionTierFree,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := txRepo.CreateIfMissing(ctx, seed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}
		if _, err := txRepo.UpdateFields(ctx, userID, fields, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
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
	return FromModel(updated), nil
}

func (s *service) load(ctx context.Context, r Repository, userID uuid.UUID) (*models.Profile, error) {
	profile, err := r.FindByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func changes(input UpdateProfileDTO) (map[string]any, error) {
	fields := map[string]any{}
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"full_name", input.FullName},
		{"company_name", input.CompanyName},
	} {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if utf8.RuneCountInString(v) > MaxFieldLength {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be at most %d characters", f.column, MaxFieldLength).
				WithDetails(map[string]any{"field": f.column, "max": MaxFieldLength})
		}
		if v == "" {
			fields[f.column] = nil
			continue
		}
		fields[f.column] = v
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}
	return fields, nil
}
