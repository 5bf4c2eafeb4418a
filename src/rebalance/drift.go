package rebalance

import (
	"math"
	"sort"

	"github.com/username/finsight/backend/src/models"
)

// classValues aggregates holding values per asset class, along with the
// portfolio total.
func classValues(holdings []models.Holding) (map[models.AssetClass]float64, float64) {
	byClass := make(map[models.AssetClass]float64)
	total := 0.0
	for _, h := range holdings {
		v := h.Value()
		byClass[h.InstrumentClass] += v
		total += v
	}
	return byClass, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeRebalance compares actual holdings against the plan's targets and
// reports every class drifted beyond the tolerance. DriftPct is target
// minus actual, so a positive drift means the class is underweight and
// needs an Increase. Classes held but absent from the plan are treated as
// zero targets, and vice versa. A plan without buckets is rejected before
// any computation.
func ComputeRebalance(holdings []models.Holding, plan *models.AllocationPlan, driftTolerancePct float64) ([]models.RebalanceItem, float64, error) {
	if plan == nil || len(plan.Buckets) == 0 {
		return nil, 0, &InvalidRequestError{Reason: "missing or empty plan"}
	}
	byClass, total := classValues(holdings)

	classes := make(map[models.AssetClass]bool)
	for _, b := range plan.Buckets {
		classes[b.Class] = true
	}
	for c := range byClass {
		classes[c] = true
	}

	items := make([]models.RebalanceItem, 0, len(classes))
	for class := range classes {
		target := float64(plan.BucketPct(class))
		actual := 0.0
		if total > 0 {
			actual = byClass[class] / total * 100
		}
		drift := round2(target - actual)
		if math.Abs(drift) < driftTolerancePct {
			continue
		}
		action := "Increase"
		if drift < 0 {
			action = "Reduce"
		}
		items = append(items, models.RebalanceItem{
			Class:     class,
			TargetPct: round2(target),
			ActualPct: round2(actual),
			DriftPct:  drift,
			Action:    action,
			Amount:    round2(total * math.Abs(drift) / 100),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return string(items[i].Class) < string(items[j].Class)
	})
	return items, total, nil
}
