package controllers

import (
	"net/http"

	"github.com/aisynapse/synapse-backend/api/responses"
	"github.com/aisynapse/synapse-backend/internal/plans"
)

type planListResponse struct {
	Plans []plans.Plan `json:"plans"`
}

// PublicPlans lists the static plan catalog for the pricing page.
func PublicPlans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, planListResponse{Plans: plans.Plans()})
	}
}
