package rebalance

import (
	"testing"
	"time"

	"github.com/username/finsight/backend/src/models"
)

func TestHorizonBandForDate(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		years int
		want  string
	}{
		{1, "<2 years"},
		{3, "<2 years"},
		{5, "5-10 years"},
		{7, "5-10 years"},
		{10, "20+ years"},
		{25, "20+ years"},
	}
	for _, tc := range cases {
		got := horizonBandForDate(now.AddDate(tc.years, 0, 0), now)
		if got != tc.want {
			t.Errorf("%d years out: expected %q, got %q", tc.years, tc.want, got)
		}
	}
}

func TestApplyLiquidFloor_MinimumByEmergencyFund(t *testing.T) {
	cases := []struct {
		name      string
		efMonths  int
		liqAmount float64
		want      int
	}{
		{"no buffer", 0, 0, 8},
		{"thin buffer", 3, 0, 5},
		{"solid buffer", 6, 0, 3},
		{"no buffer plus standing need", 0, 50000, 10},
		{"solid buffer plus standing need", 12, 50000, 5},
	}
	for _, tc := range cases {
		target := map[models.AssetClass]int{
			models.AssetStocks: 50,
			models.AssetDebt:   50,
			models.AssetLiquid: 0,
		}
		out := ApplyLiquidFloor(target, tc.efMonths, tc.liqAmount)
		if out[models.AssetLiquid] != tc.want {
			t.Errorf("%s: expected liquid %d, got %d", tc.name, tc.want, out[models.AssetLiquid])
		}
		sum := 0
		for _, v := range out {
			sum += v
		}
		if sum != 100 {
			t.Errorf("%s: floor must preserve the 100-point total, got %d", tc.name, sum)
		}
	}
}

func TestApplyLiquidFloor_AlreadySatisfied(t *testing.T) {
	target := map[models.AssetClass]int{
		models.AssetStocks: 45,
		models.AssetDebt:   40,
		models.AssetLiquid: 15,
	}
	out := ApplyLiquidFloor(target, 0, 0)
	for c, v := range target {
		if out[c] != v {
			t.Errorf("%s changed from %d to %d with floor already met", c, v, out[c])
		}
	}
}

func TestApplyLiquidFloor_FundingOrder(t *testing.T) {
	target := map[models.AssetClass]int{
		models.AssetStocks:   50,
		models.AssetEquityMF: 48,
		models.AssetDebt:     2,
		models.AssetLiquid:   0,
	}
	out := ApplyLiquidFloor(target, 0, 0)
	if out[models.AssetLiquid] != 8 {
		t.Fatalf("expected liquid at 8, got %d", out[models.AssetLiquid])
	}
	// Debt is drained first, then stocks cover the rest; funds untouched.
	if out[models.AssetDebt] != 0 {
		t.Errorf("expected Debt drained to 0, got %d", out[models.AssetDebt])
	}
	if out[models.AssetStocks] != 44 {
		t.Errorf("expected Stocks at 44, got %d", out[models.AssetStocks])
	}
	if out[models.AssetEquityMF] != 48 {
		t.Errorf("expected Equity MF untouched at 48, got %d", out[models.AssetEquityMF])
	}
}

func TestBlendGoalTargets_EmptyGoals(t *testing.T) {
	out, err := BlendGoalTargets(nil, models.RiskModerate, models.Constraints{}, time.Now())
	if err != nil {
		t.Fatalf("BlendGoalTargets: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil target for empty goals, got %v", out)
	}
}

func TestBlendGoalTargets_TimelineShapesTheMix(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	constraints := models.Constraints{EFMonths: 6}

	near, err := BlendGoalTargets([]models.Goal{
		{Name: "House", TargetAmount: 5000000, TargetDate: now.AddDate(2, 0, 0), Priority: models.PriorityMedium},
	}, models.RiskModerate, constraints, now)
	if err != nil {
		t.Fatalf("near blend: %v", err)
	}
	far, err := BlendGoalTargets([]models.Goal{
		{Name: "Retirement", TargetAmount: 5000000, TargetDate: now.AddDate(25, 0, 0), Priority: models.PriorityMedium},
	}, models.RiskModerate, constraints, now)
	if err != nil {
		t.Fatalf("far blend: %v", err)
	}

	sumCheck := func(name string, m map[models.AssetClass]int) {
		sum := 0
		for _, v := range m {
			sum += v
		}
		if sum != 100 {
			t.Errorf("%s blend must sum to 100, got %d", name, sum)
		}
	}
	sumCheck("near", near)
	sumCheck("far", far)

	nearEquity := near[models.AssetStocks] + near[models.AssetEquityMF]
	farEquity := far[models.AssetStocks] + far[models.AssetEquityMF]
	if nearEquity >= farEquity {
		t.Errorf("a 2-year goal must blend more defensively than a 25-year one: near=%d far=%d",
			nearEquity, farEquity)
	}

	// A mixed household lands between the two single-goal blends.
	mixed, err := BlendGoalTargets([]models.Goal{
		{Name: "House", TargetAmount: 5000000, TargetDate: now.AddDate(2, 0, 0), Priority: models.PriorityMedium},
		{Name: "Retirement", TargetAmount: 5000000, TargetDate: now.AddDate(25, 0, 0), Priority: models.PriorityMedium},
	}, models.RiskModerate, constraints, now)
	if err != nil {
		t.Fatalf("mixed blend: %v", err)
	}
	sumCheck("mixed", mixed)
	mixedEquity := mixed[models.AssetStocks] + mixed[models.AssetEquityMF]
	if mixedEquity < nearEquity || mixedEquity > farEquity {
		t.Errorf("mixed blend should land between %d and %d, got %d", nearEquity, farEquity, mixedEquity)
	}
}
