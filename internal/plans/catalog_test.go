package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisynapse/synapse-backend/pkg/enums"
)

func TestLimitsForKnownPlans(t *testing.T) {
	cases := map[string][3]int64{
		Starter:      {5, 1000, 10},
		Professional: {50, 10000, 100},
		Enterprise:   {500, 100000, 1000},
	}
	for planID, want := range cases {
		got := LimitsFor(planID)
		assert.Equal(t, want[0], got[enums.FeatureWorkflows], planID)
		assert.Equal(t, want[1], got[enums.FeatureAPICalls], planID)
		assert.Equal(t, want[2], got[enums.FeatureStorageGB], planID)
	}
}

func TestLimitsForUnknownPlanFallsBackToStarter(t *testing.T) {
	for _, planID := range []string{"", "gold", "STARTER"} {
		assert.Equal(t, LimitsFor(Starter), LimitsFor(planID), planID)
	}
}

func TestLimitsForReturnsCopy(t *testing.T) {
	got := LimitsFor(Professional)
	got[enums.FeatureWorkflows] = 1

	assert.Equal(t, int64(50), Limit(Professional, enums.FeatureWorkflows))
}

func TestLimitUnknownFeatureIsZero(t *testing.T) {
	assert.Zero(t, Limit(Enterprise, "gpu_hours"))
}

func TestPlansCatalog(t *testing.T) {
	list := Plans()
	require.Len(t, list, 3)

	assert.Equal(t, Starter, list[0].ID)
	require.NotNil(t, list[0].MonthlyPrice)
	assert.Equal(t, "49", list[0].MonthlyPrice.String())
	assert.True(t, list[1].Popular)
	assert.Equal(t, "149", list[1].MonthlyPrice.String())
	assert.Nil(t, list[2].MonthlyPrice)
	assert.Equal(t, int64(500), list[2].Limits[enums.FeatureWorkflows])

	list[0].Features[0] = "mutated"
	assert.NotEqual(t, "mutated", Plans()[0].Features[0])
}
