package rebalance

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/username/finsight/backend/src/models"
)

var proposeNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

// settledConstraints keep the liquidity floor below the plan's own liquid
// share so tests see the raw turnover mechanics.
var settledConstraints = models.Constraints{EFMonths: 6}

func threeClassPlan() *models.AllocationPlan {
	return planWithTargets(map[models.AssetClass]int{
		models.AssetStocks: 45,
		models.AssetDebt:   45,
		models.AssetLiquid: 10,
	})
}

func TestPropose_MissingPlan(t *testing.T) {
	_, err := Propose(nil, nil, nil, models.Constraints{}, Options{}, proposeNow)
	var ire *InvalidRequestError
	if !errors.As(err, &ire) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
	_, err = Propose(&models.AllocationPlan{}, nil, nil, models.Constraints{}, Options{}, proposeNow)
	if !errors.As(err, &ire) {
		t.Fatalf("empty plan: expected InvalidRequestError, got %v", err)
	}
}

func TestPropose_TurnoverBudgetCapsSells(t *testing.T) {
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 70000),
		holdingOf(models.AssetDebt, 20000),
		holdingOf(models.AssetLiquid, 10000),
	}
	prop, err := Propose(threeClassPlan(), holdings, nil, settledConstraints,
		Options{TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(prop.Trades) != 2 {
		t.Fatalf("expected 1 sell + 1 buy, got %+v", prop.Trades)
	}
	sell, buy := prop.Trades[0], prop.Trades[1]
	if sell.Class != models.AssetStocks || sell.Action != "Reduce" || sell.Amount != 10000 {
		t.Errorf("sell must be capped at the 10%% budget, got %+v", sell)
	}
	if buy.Class != models.AssetDebt || buy.Action != "Increase" || buy.Amount != 10000 {
		t.Errorf("buys spend only sale proceeds, got %+v", buy)
	}
	if prop.TurnoverPct != 20 {
		t.Errorf("expected 20%% total turnover, got %g", prop.TurnoverPct)
	}
	if prop.Mode != "to-target" {
		t.Errorf("unexpected mode %q", prop.Mode)
	}
}

func TestPropose_CashOnlySkipsSells(t *testing.T) {
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 70000),
		holdingOf(models.AssetDebt, 20000),
		holdingOf(models.AssetLiquid, 10000),
	}
	prop, err := Propose(threeClassPlan(), holdings, nil, settledConstraints,
		Options{CashOnly: true, TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	for _, tr := range prop.Trades {
		if tr.Action == "Reduce" {
			t.Errorf("cash-only proposal must not sell, got %+v", tr)
		}
	}
	if len(prop.Trades) != 1 || prop.Trades[0].Class != models.AssetDebt || prop.Trades[0].Amount != 25000 {
		t.Errorf("expected a single fully funded Debt buy, got %+v", prop.Trades)
	}
	if !strings.Contains(prop.Rationale, "contributions only") {
		t.Errorf("rationale should mention cash-only mode: %q", prop.Rationale)
	}
}

func TestPropose_DeadBandAndDust(t *testing.T) {
	// 0.3 points of drift sits inside the dead band.
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 45300),
		holdingOf(models.AssetDebt, 44700),
		holdingOf(models.AssetLiquid, 10000),
	}
	prop, err := Propose(threeClassPlan(), holdings, nil, settledConstraints,
		Options{TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(prop.Trades) != 0 {
		t.Errorf("drift inside the dead band must produce no trades, got %+v", prop.Trades)
	}

	// Past the dead band but under one currency unit: dropped as dust.
	holdings = []models.Holding{
		holdingOf(models.AssetStocks, 45.6),
		holdingOf(models.AssetDebt, 44.4),
		holdingOf(models.AssetLiquid, 10),
	}
	prop, err = Propose(threeClassPlan(), holdings, nil, settledConstraints,
		Options{TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(prop.Trades) != 0 {
		t.Errorf("sub-unit trades must be dropped, got %+v", prop.Trades)
	}
	if prop.TurnoverPct != 0 {
		t.Errorf("expected zero turnover, got %g", prop.TurnoverPct)
	}
}

func TestPropose_TurnoverLimitClamping(t *testing.T) {
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 70000),
		holdingOf(models.AssetDebt, 20000),
		holdingOf(models.AssetLiquid, 10000),
	}
	// Zero falls back to the 1% default.
	prop, err := Propose(threeClassPlan(), holdings, nil, settledConstraints, Options{}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if !strings.Contains(prop.Rationale, "turnover under 1%") {
		t.Errorf("expected default 1%% budget in rationale: %q", prop.Rationale)
	}

	// Values above the ceiling clamp to 10%.
	prop, err = Propose(threeClassPlan(), holdings, nil, settledConstraints,
		Options{TurnoverLimitPct: 50}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if !strings.Contains(prop.Rationale, "turnover under 10%") {
		t.Errorf("expected clamped 10%% budget in rationale: %q", prop.Rationale)
	}
}

func TestPropose_GoalsBlendTarget(t *testing.T) {
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 50000),
		holdingOf(models.AssetDebt, 40000),
		holdingOf(models.AssetLiquid, 10000),
	}
	goals := []models.Goal{
		{Name: "House", TargetAmount: 5000000, TargetDate: proposeNow.AddDate(2, 0, 0), Priority: models.PriorityHigh},
		{Name: "Retirement", TargetAmount: 20000000, TargetDate: proposeNow.AddDate(25, 0, 0), Priority: models.PriorityMedium},
	}
	plan := threeClassPlan()
	plan.RiskLevel = models.RiskModerate

	prop, err := Propose(plan, holdings, goals, settledConstraints,
		Options{ConsiderGoals: true, TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if prop.GoalsCount != 2 {
		t.Errorf("expected 2 goals counted, got %d", prop.GoalsCount)
	}
	if prop.BlendedTarget == nil {
		t.Fatal("expected a blended target with goals considered")
	}
	sum := 0
	for _, v := range prop.BlendedTarget {
		sum += v
	}
	if sum != 100 {
		t.Errorf("blended target must sum to 100, got %d", sum)
	}

	// Ignoring goals leaves the plan's own targets in charge.
	prop, err = Propose(plan, holdings, goals, settledConstraints,
		Options{ConsiderGoals: false, TurnoverLimitPct: 10}, proposeNow)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if prop.BlendedTarget != nil || prop.GoalsCount != 0 {
		t.Errorf("goals must be ignored when not considered, got count=%d target=%v",
			prop.GoalsCount, prop.BlendedTarget)
	}
}
