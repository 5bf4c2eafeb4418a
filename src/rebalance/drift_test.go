package rebalance

import (
	"errors"
	"testing"

	"github.com/username/finsight/backend/src/models"
)

func planWithTargets(targets map[models.AssetClass]int) *models.AllocationPlan {
	p := &models.AllocationPlan{}
	for _, c := range models.AssetClasses {
		if pct, ok := targets[c]; ok {
			p.Buckets = append(p.Buckets, models.Bucket{Class: c, Pct: pct})
		}
	}
	return p
}

func holdingOf(class models.AssetClass, value float64) models.Holding {
	v := value
	return models.Holding{Name: string(class) + " position", InstrumentClass: class, CurrentValue: &v}
}

func TestComputeRebalance_SignConvention(t *testing.T) {
	plan := planWithTargets(map[models.AssetClass]int{
		models.AssetStocks: 50,
		models.AssetDebt:   50,
	})
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 70000),
		holdingOf(models.AssetDebt, 30000),
	}
	items, total, err := ComputeRebalance(holdings, plan, 5)
	if err != nil {
		t.Fatalf("ComputeRebalance: %v", err)
	}
	if total != 100000 {
		t.Fatalf("expected total 100000, got %g", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 drifted classes, got %d", len(items))
	}
	// Equal amounts sort by class name, so Debt leads.
	if items[0].Class != models.AssetDebt || items[0].Action != "Increase" || items[0].DriftPct != 20 {
		t.Errorf("underweight Debt should need an Increase of +20, got %+v", items[0])
	}
	if items[1].Class != models.AssetStocks || items[1].Action != "Reduce" || items[1].DriftPct != -20 {
		t.Errorf("overweight Stocks should need a Reduce of -20, got %+v", items[1])
	}
	if items[0].Amount != 20000 || items[1].Amount != 20000 {
		t.Errorf("expected 20000 to move each way, got %g/%g", items[0].Amount, items[1].Amount)
	}
}

func TestComputeRebalance_ToleranceSkipsSmallDrifts(t *testing.T) {
	plan := planWithTargets(map[models.AssetClass]int{
		models.AssetStocks: 50,
		models.AssetDebt:   50,
	})
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 52000),
		holdingOf(models.AssetDebt, 48000),
	}
	items, _, err := ComputeRebalance(holdings, plan, 5)
	if err != nil {
		t.Fatalf("ComputeRebalance: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("2%% drift under a 5%% tolerance must report nothing, got %+v", items)
	}
}

func TestComputeRebalance_UnplannedClassGetsZeroTarget(t *testing.T) {
	plan := planWithTargets(map[models.AssetClass]int{
		models.AssetStocks: 60,
		models.AssetDebt:   40,
	})
	holdings := []models.Holding{
		holdingOf(models.AssetStocks, 60000),
		holdingOf(models.AssetDebt, 30000),
		holdingOf(models.AssetGold, 10000),
	}
	items, _, err := ComputeRebalance(holdings, plan, 5)
	if err != nil {
		t.Fatalf("ComputeRebalance: %v", err)
	}
	var gold *models.RebalanceItem
	for i := range items {
		if items[i].Class == models.AssetGold {
			gold = &items[i]
		}
	}
	if gold == nil {
		t.Fatal("expected a drift item for the unplanned Gold position")
	}
	if gold.Action != "Reduce" || gold.TargetPct != 0 || gold.DriftPct != -10 {
		t.Errorf("unexpected Gold item: %+v", gold)
	}
}

func TestComputeRebalance_EmptyPortfolio(t *testing.T) {
	plan := planWithTargets(map[models.AssetClass]int{
		models.AssetStocks: 60,
		models.AssetDebt:   40,
	})
	items, total, err := ComputeRebalance(nil, plan, 5)
	if err != nil {
		t.Fatalf("ComputeRebalance: %v", err)
	}
	if total != 0 {
		t.Errorf("expected zero total, got %g", total)
	}
	for _, it := range items {
		if it.Action != "Increase" || it.Amount != 0 {
			t.Errorf("empty portfolio can only need zero-amount increases, got %+v", it)
		}
	}
}

func TestComputeRebalance_MissingPlanRejected(t *testing.T) {
	holdings := []models.Holding{holdingOf(models.AssetStocks, 50000)}

	var invalid *InvalidRequestError
	if _, _, err := ComputeRebalance(holdings, nil, 5); !errors.As(err, &invalid) {
		t.Errorf("nil plan must be rejected, got %v", err)
	}
	if _, _, err := ComputeRebalance(holdings, &models.AllocationPlan{}, 5); !errors.As(err, &invalid) {
		t.Errorf("plan without buckets must be rejected, got %v", err)
	}
}

func TestHoldingValueResolution(t *testing.T) {
	units, price, invested, current := 10.0, 150.0, 1200.0, 1800.0

	h := models.Holding{InstrumentClass: models.AssetStocks, CurrentValue: &current, Units: &units, Price: &price, InvestedAmount: &invested}
	if h.Value() != 1800 {
		t.Errorf("explicit current value wins, got %g", h.Value())
	}
	h = models.Holding{InstrumentClass: models.AssetStocks, Units: &units, Price: &price, InvestedAmount: &invested}
	if h.Value() != 1500 {
		t.Errorf("units x price comes next, got %g", h.Value())
	}
	h = models.Holding{InstrumentClass: models.AssetStocks, InvestedAmount: &invested}
	if h.Value() != 1200 {
		t.Errorf("invested amount is the fallback, got %g", h.Value())
	}
	h = models.Holding{InstrumentClass: models.AssetStocks}
	if h.Value() != 0 {
		t.Errorf("no pricing data means zero, got %g", h.Value())
	}
}
