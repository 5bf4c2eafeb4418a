package advisor

import (
	"math"
	"sort"

	"github.com/username/finsight/backend/src/models"
)

// tuneBand is one class's tolerance window during a manual adjustment.
type tuneBand struct {
	min float64
	max float64
}

// TuneResult is a manually adjusted allocation. Clamped reports whether
// the requested percentage had to be pulled back into its tolerance band.
type TuneResult struct {
	Allocation map[models.AssetClass]int `json:"allocation"`
	Clamped    bool                      `json:"clamped"`
}

// TunePlan applies a single manual bucket adjustment on top of a plan.
// The changed class is set to newPct clamped to its tolerance band, locked
// classes keep their current value, and the induced surplus or deficit is
// absorbed by the remaining classes in proportion to how much band
// capacity each still has. The result always sums to 100.
//
// current carries the working allocation when the user has already tuned
// before; nil starts from the plan's own percentages.
func TunePlan(plan *models.AllocationPlan, current map[models.AssetClass]int, changed models.AssetClass, newPct float64, locked []models.AssetClass) (*TuneResult, error) {
	if plan == nil || len(plan.Buckets) == 0 {
		return nil, &ValidationError{Field: "plan", Value: "missing or empty"}
	}

	bands := make(map[models.AssetClass]tuneBand, len(plan.Buckets))
	tuned := make(map[models.AssetClass]float64, len(plan.Buckets))
	for _, b := range plan.Buckets {
		bands[b.Class] = tuneBand{min: b.Range.Min, max: b.Range.Max}
		tuned[b.Class] = float64(b.Pct)
	}
	if _, ok := bands[changed]; !ok {
		return nil, &ValidationError{Field: "class", Value: string(changed)}
	}

	lockedSet := make(map[models.AssetClass]bool, len(locked))
	for _, c := range locked {
		if c == changed {
			return nil, &ValidationError{Field: "locked", Value: string(c)}
		}
		if _, ok := bands[c]; !ok {
			return nil, &ValidationError{Field: "locked", Value: string(c)}
		}
		lockedSet[c] = true
	}

	if current != nil {
		for c := range tuned {
			tuned[c] = float64(current[c])
		}
	}

	b := bands[changed]
	clampedNew := clamp(newPct, b.min, b.max)
	clamped := math.Abs(clampedNew-newPct) > 1e-9
	tuned[changed] = clampedNew

	var pool []models.AssetClass
	for _, c := range models.AssetClasses {
		if _, ok := bands[c]; ok && c != changed && !lockedSet[c] {
			pool = append(pool, c)
		}
	}

	sum := 0.0
	for _, v := range tuned {
		sum += v
	}
	leftover := distributeByCapacity(tuned, bands, pool, 100-sum)

	// The changed class itself absorbs what the pool could not, within
	// its own band.
	if leftover > 0 {
		add := math.Min(b.max-tuned[changed], leftover)
		tuned[changed] += add
		leftover -= add
	} else if leftover < 0 {
		cut := math.Min(tuned[changed]-b.min, -leftover)
		tuned[changed] -= cut
		leftover += cut
	}

	// Impossible within the bands: rescale the non-locked classes so the
	// total still lands on 100.
	if math.Abs(leftover) > 1e-6 {
		lockedSum := 0.0
		for c := range lockedSet {
			lockedSum += tuned[c]
		}
		want := math.Max(0, 100-lockedSum)
		poolSum := 0.0
		for c := range tuned {
			if !lockedSet[c] {
				poolSum += tuned[c]
			}
		}
		if poolSum > 0 {
			for c := range tuned {
				if !lockedSet[c] {
					tuned[c] *= want / poolSum
				}
			}
		}
	}

	return &TuneResult{
		Allocation: roundWithLocks(tuned, lockedSet),
		Clamped:    clamped,
	}, nil
}

// distributeByCapacity spreads delta across the pool in proportion to each
// class's remaining band capacity. Returns the part that did not fit.
func distributeByCapacity(tuned map[models.AssetClass]float64, bands map[models.AssetClass]tuneBand, pool []models.AssetClass, delta float64) float64 {
	if delta == 0 || len(pool) == 0 {
		return delta
	}

	caps := make(map[models.AssetClass]float64, len(pool))
	totalCap := 0.0
	for _, c := range pool {
		var capacity float64
		if delta > 0 {
			capacity = math.Max(0, bands[c].max-tuned[c])
		} else {
			capacity = math.Max(0, tuned[c]-bands[c].min)
		}
		caps[c] = capacity
		totalCap += capacity
	}
	if totalCap <= 0 {
		return delta
	}

	remaining := math.Abs(delta)
	for _, c := range pool {
		if remaining <= 0 || totalCap <= 0 {
			break
		}
		take := math.Min(caps[c], remaining*caps[c]/totalCap)
		totalCap -= caps[c]
		if delta > 0 {
			tuned[c] += take
		} else {
			tuned[c] -= take
		}
		remaining -= take
	}
	if delta > 0 {
		return remaining
	}
	return -remaining
}

// roundWithLocks integerizes to a 100-point total with largest-remainder
// rounding, keeping locked classes at their nearest integer and out of the
// leftover distribution. Ties resolve by canonical bucket order.
func roundWithLocks(values map[models.AssetClass]float64, locked map[models.AssetClass]bool) map[models.AssetClass]int {
	type entry struct {
		class models.AssetClass
		order int
		frac  float64
	}
	out := make(map[models.AssetClass]int, len(values))
	var entries []entry
	used := 0
	for i, c := range models.AssetClasses {
		v, ok := values[c]
		if !ok {
			continue
		}
		v = clamp(v, 0, 100)
		if locked[c] {
			n := int(math.Round(v))
			out[c] = n
			used += n
			continue
		}
		floor := math.Floor(v)
		out[c] = int(floor)
		used += int(floor)
		entries = append(entries, entry{class: c, order: i, frac: v - floor})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].frac != entries[j].frac {
			return entries[i].frac > entries[j].frac
		}
		return entries[i].order < entries[j].order
	})
	for i, remain := 0, 100-used; i < len(entries) && remain > 0; i, remain = i+1, remain-1 {
		out[entries[i].class]++
	}
	return out
}
