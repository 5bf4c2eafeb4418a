package advisor

import (
	"math"
	"sort"

	"github.com/username/finsight/backend/src/models"
)

// NormalizeTo100 scales a fractional allocation to whole percentages that
// sum to exactly 100, using the largest remainder method. Ties in the
// remainders resolve by canonical bucket order so the result is stable.
// An all-zero input splits evenly, with the leftover going to the first
// bucket.
func NormalizeTo100(m map[models.AssetClass]float64) map[models.AssetClass]int {
	keys := make([]models.AssetClass, 0, len(m))
	for _, c := range models.AssetClasses {
		if _, ok := m[c]; ok {
			keys = append(keys, c)
		}
	}
	var extras []models.AssetClass
	for c := range m {
		if !models.IsAssetClass(string(c)) {
			extras = append(extras, c)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	keys = append(keys, extras...)

	sum := 0.0
	clamped := make(map[models.AssetClass]float64, len(keys))
	for _, k := range keys {
		v := clamp(m[k], 0, 100)
		clamped[k] = v
		sum += v
	}

	out := make(map[models.AssetClass]int, len(keys))
	if sum == 0 {
		if len(keys) == 0 {
			return out
		}
		eq := 100 / len(keys)
		for _, k := range keys {
			out[k] = eq
		}
		out[keys[0]] += 100 - eq*len(keys)
		return out
	}

	type entry struct {
		class models.AssetClass
		order int
		frac  float64
	}
	entries := make([]entry, 0, len(keys))
	used := 0
	for i, k := range keys {
		scaled := clamped[k] / sum * 100
		floor := math.Floor(scaled)
		out[k] = int(floor)
		used += int(floor)
		entries = append(entries, entry{class: k, order: i, frac: scaled - floor})
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

// enforceBounds pulls every class inside its tier window and settles the
// induced surplus or deficit against classes that still have headroom.
// Avoided classes keep their zero and are exempt from floors.
func enforceBounds(alloc map[models.AssetClass]int, level models.RiskLevel, avoided map[models.AssetClass]bool) map[models.AssetClass]int {
	bounds := assetBounds[level]
	out := make(map[models.AssetClass]int, len(alloc))
	diff := 0
	for _, c := range models.AssetClasses {
		v, ok := alloc[c]
		if !ok {
			continue
		}
		if avoided[c] {
			out[c] = 0
			diff += v
			continue
		}
		b := bounds[c]
		clamped := v
		if float64(v) < b.Min {
			clamped = int(math.Ceil(b.Min))
		} else if float64(v) > b.Max {
			clamped = int(math.Floor(b.Max))
		}
		out[c] = clamped
		diff += v - clamped
	}

	// diff > 0: points freed by ceilings, hand them to classes below max.
	// diff < 0: points borrowed by floors, take them from classes above min.
	for diff != 0 {
		moved := false
		for _, c := range models.AssetClasses {
			if diff == 0 {
				break
			}
			if avoided[c] {
				continue
			}
			v, ok := out[c]
			if !ok {
				continue
			}
			b := bounds[c]
			if diff > 0 && float64(v) < b.Max {
				out[c]++
				diff--
				moved = true
			} else if diff < 0 && float64(v) > b.Min {
				out[c]--
				diff++
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	// Heavy avoidance can leave too little headroom to settle inside the
	// tier windows. The 100-point total outranks the windows, so spread
	// what remains across the surviving classes instead.
	if diff != 0 {
		free := make(map[models.AssetClass]float64, len(out))
		for c, v := range out {
			if !avoided[c] {
				free[c] = float64(v)
			}
		}
		if len(free) == 0 {
			return out
		}
		for c, v := range NormalizeTo100(free) {
			out[c] = v
		}
	}
	return out
}
