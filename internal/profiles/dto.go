package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/aisynapse/synapse-backend/pkg/db/models"
	"github.com/aisynapse/synapse-backend/pkg/enums"
)

// ProfileDTO is the transport shape of a profile row.
type ProfileDTO struct {
	ID               uuid.UUID              `json:"id"`
	FullName         *string                `json:"full_name"`
	CompanyName      *string                `json:"company_name"`
	SubscriptionTier enums.SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// UpdateProfileDTO carries a partial edit. Nil fields are left untouched and
// an empty string clears the column.
type UpdateProfileDTO struct {
	FullName    *string
	CompanyName *string
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	tier := p.SubscriptionTier
	if tier == "" {
		tier = enums.SubscriptionTierFree
	}
	return &ProfileDTO{
		ID:               p.ID,
		FullName:         p.FullName,
		CompanyName:      p.CompanyName,
		SubscriptionTier: tier,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
