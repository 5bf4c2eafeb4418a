package advisor

import (
	"strings"
	"testing"

	"github.com/username/finsight/backend/src/models"
)

func TestContextMultiplier_ClampedToWindow(t *testing.T) {
	tight := models.QuestionnaireAnswers{
		Age:                 "65+",
		InvestmentHorizon:   "<2 years",
		AnnualIncome:        "<50K",
		EmergencyFundMonths: "0-1",
		Dependents:          "5+",
		VolatilityComfort:   "panic_sell",
		MaxAcceptableLoss:   "5%",
		InvestmentKnowledge: "beginner",
		HasInsurance:        false,
	}
	m := contextMultiplier(tight, inferContext(tight))
	if m != rangeMultiplierMin {
		t.Errorf("stacked tight factors must clamp to %g, got %g", rangeMultiplierMin, m)
	}

	slack := models.QuestionnaireAnswers{
		Age:                 "<25",
		InvestmentHorizon:   "20+ years",
		AnnualIncome:        "5L+",
		EmergencyFundMonths: "12+",
		Dependents:          "0",
		VolatilityComfort:   "buy_more",
		MaxAcceptableLoss:   "40%+",
		InvestmentKnowledge: "expert",
		HasInsurance:        true,
	}
	m = contextMultiplier(slack, inferContext(slack))
	if m < 1.0 || m > rangeMultiplierMax {
		t.Errorf("slack profile multiplier out of range: %g", m)
	}
}

func TestDynamicRange_DeltaFloor(t *testing.T) {
	a := baselineAnswers()
	ctx := inferContext(a)
	// A tiny bucket still gets at least a two-point half-width.
	r := dynamicRange(models.AssetGold, 3, models.RiskModerate, a, ctx, false)
	if r.Max-float64(3) < rangeDeltaFloor-1e-9 && float64(3)-r.Min < rangeDeltaFloor-1e-9 {
		t.Errorf("expected at least a %.0f-point half-width, got [%g, %g]", rangeDeltaFloor, r.Min, r.Max)
	}
	if r.Base != baseRanges[models.AssetGold] || r.Cap != assetCaps[models.AssetGold] {
		t.Errorf("range must echo its inputs, got base=%g cap=%g", r.Base, r.Cap)
	}
	if !strings.Contains(r.Explanation, "Bounds:") {
		t.Errorf("explanation missing bounds: %q", r.Explanation)
	}
}

func TestDynamicRange_ClippedByTierBounds(t *testing.T) {
	a := baselineAnswers()
	ctx := inferContext(a)
	bounds := assetBounds[models.RiskModerate][models.AssetLiquid]
	r := dynamicRange(models.AssetLiquid, 7, models.RiskModerate, a, ctx, false)
	if r.Min < bounds.Min {
		t.Errorf("window min %g below tier floor %g", r.Min, bounds.Min)
	}
	if r.Max > bounds.Max {
		t.Errorf("window max %g above tier ceiling %g", r.Max, bounds.Max)
	}
	if r.Min > r.Max {
		t.Errorf("degenerate window [%g, %g]", r.Min, r.Max)
	}
}

func TestDynamicRange_AvoidedAsset(t *testing.T) {
	a := baselineAnswers()
	r := dynamicRange(models.AssetGold, 0, models.RiskModerate, a, inferContext(a), true)
	if r.Min != 0 || r.Max != 0 || r.Range != 0 {
		t.Errorf("avoided asset must carry an empty band, got %+v", r)
	}
	if r.Explanation != "Excluded at investor request" {
		t.Errorf("unexpected explanation: %q", r.Explanation)
	}
}

func TestStressTests_AllScenariosPresent(t *testing.T) {
	a := baselineAnswers()
	alloc := map[models.AssetClass]int{
		models.AssetStocks:     25,
		models.AssetEquityMF:   30,
		models.AssetDebt:       20,
		models.AssetLiquid:     10,
		models.AssetGold:       5,
		models.AssetRealEstate: 10,
	}
	results := runStressTests(alloc, a)
	for name, r := range results {
		if r.PortfolioImpactPct >= 0 {
			t.Errorf("%s: crash scenarios must hit the portfolio, impact=%g", name, r.PortfolioImpactPct)
		}
		if r.MonthsCovered < 0 {
			t.Errorf("%s: months covered cannot be negative, got %g", name, r.MonthsCovered)
		}
		if r.Recommendation == "" || r.HistoricalDrop == "" {
			t.Errorf("%s: incomplete scenario result: %+v", name, r)
		}
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(results))
	}
}
