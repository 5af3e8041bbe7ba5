package plans

import (
	"github.com/shopspring/decimal"

	"github.com/aisynapse/synapse-backend/pkg/enums"
)

const (
	Starter      = "starter"
	Professional = "professional"
	Enterprise   = "enterprise"
)

// Plan describes one tier of the public pricing catalog.
type Plan struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price"`
	Currency     string           `json:"currency"`
	Features     []string         `json:"features"`
	Limits       map[string]int64 `json:"limits"`
	Popular      bool             `json:"popular"`
}

var limits = map[string]map[string]int64{
	Starter: {
		enums.FeatureWorkflows: 5,
		enums.FeatureAPICalls:  1000,
		enums.FeatureStorageGB: 10,
	},
	Professional: {
		enums.FeatureWorkflows: 50,
		enums.FeatureAPICalls:  10000,
		enums.FeatureStorageGB: 100,
	},
	Enterprise: {
		enums.FeatureWorkflows: 500,
		enums.FeatureAPICalls:  100000,
		enums.FeatureStorageGB: 1000,
	},
}

var catalog = []Plan{
	{
		ID:           Starter,
		Name:         "Starter",
		Description:  "Perfect for small teams getting started with AI",
		MonthlyPrice: price(49),
		Currency:     "USD",
		Features: []string{
			"Up to 5 AI workflows",
			"Basic analytics dashboard",
			"Email support",
			"1,000 API calls/month",
			"Standard integrations",
		},
	},
	{
		ID:           Professional,
		Name:         "Professional",
		Description:  "Advanced features for growing businesses",
		MonthlyPrice: price(149),
		Currency:     "USD",
		Popular:      true,
		Features: []string{
			"Up to 50 AI workflows",
			"Advanced analytics & insights",
			"Priority support",
			"10,000 API calls/month",
			"Custom integrations",
			"Team collaboration tools",
		},
	},
	{
		ID:          Enterprise,
		Name:        "Enterprise",
		Description: "Full-scale AI transformation for large organizations",
		Currency:    "USD",
		Features: []string{
			"Unlimited AI workflows",
			"Custom AI model training",
			"24/7 dedicated support",
			"Unlimited API calls",
			"White-label options",
			"Advanced security & compliance",
		},
	},
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// LimitsFor returns a copy of the ceilings for planID. Unknown ids resolve to starter.
func LimitsFor(planID string) map[string]int64 {
	tier, ok := limits[planID]
	if !ok {
		tier = limits[Starter]
	}
	out := make(map[string]int64, len(tier))
	for feature, ceiling := range tier {
		out[feature] = ceiling
	}
	return out
}

// Limit returns the ceiling for a single feature. Unknown features have no allowance.
func Limit(planID, feature string) int64 {
	return LimitsFor(planID)[feature]
}

// Plans lists the public catalog in display order.
func Plans() []Plan {
	out := make([]Plan, 0, len(catalog))
	for _, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		p.Limits = LimitsFor(p.ID)
		out = append(out, p)
	}
	return out
}
