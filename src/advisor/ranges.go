package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/username/finsight/backend/src/models"
)

// contextMultiplier widens or tightens tolerance bands from the investor's
// situation. Tight circumstances (short horizon, thin emergency fund, no
// insurance) shrink the bands; slack ones widen them. Always ends up in
// [0.5, 1.5].
func contextMultiplier(a models.QuestionnaireAnswers, ctx InferredContext) float64 {
	m := 1.0

	if a.InvestmentHorizon == "<2 years" {
		m *= 0.8
	}
	if a.InvestmentHorizon == "20+ years" {
		m *= 1.1
	}
	if a.Age == "65+" {
		m *= 0.85
	}
	if a.Age == "<25" {
		m *= 1.05
	}
	if a.EmergencyFundMonths == "0-1" {
		m *= 0.8
	}
	if a.EmergencyFundMonths == "12+" {
		m *= 1.05
	}
	if a.Dependents == "5+" {
		m *= 0.9
	}
	if a.Dependents == "0" {
		m *= 1.1
	}
	if !a.HasInsurance {
		m *= 0.85
	}
	if ctx.WithdrawalNext2Years {
		m *= 0.8
	}
	if ctx.JobStability == "not_stable" {
		m *= 0.9
	}
	if ctx.JobStability == "very_stable" {
		m *= 1.05
	}

	switch ctx.GeographicContext {
	case "urban_affluent":
		m *= 1.15
	case "urban_standard":
		m *= 1.1
	case "rural_standard":
		m *= 0.9
	case "rural_challenged":
		m *= 0.8
	}

	return clamp(m, rangeMultiplierMin, rangeMultiplierMax)
}

func contextSummary(a models.QuestionnaireAnswers) string {
	var factors []string
	if a.InvestmentHorizon == "<2 years" {
		factors = append(factors, "Short horizon")
	}
	if a.Age == "65+" {
		factors = append(factors, "Senior")
	}
	if a.EmergencyFundMonths == "0-1" {
		factors = append(factors, "Low EF")
	}
	if a.Dependents == "5+" {
		factors = append(factors, "Many dependents")
	}
	if !a.HasInsurance {
		factors = append(factors, "No insurance")
	}
	if len(factors) == 0 {
		return "Standard"
	}
	return strings.Join(factors, ", ")
}

// dynamicRange builds the advisory band for one bucket. The half-width is
// the base range scaled by the context multiplier and capped per asset,
// with an absolute floor of two percentage points so small buckets still
// get a usable band. Bounds for the risk tier clip the final window.
func dynamicRange(asset models.AssetClass, pct int, level models.RiskLevel, a models.QuestionnaireAnswers, ctx InferredContext, avoided bool) models.BucketRange {
	if avoided {
		return models.BucketRange{Explanation: "Excluded at investor request"}
	}

	base := baseRanges[asset]
	mult := contextMultiplier(a, ctx)
	cap := assetCaps[asset]
	calculated := math.Min(base*mult, base*cap)

	delta := math.Max(float64(pct)*calculated, rangeDeltaFloor)
	bounds := assetBounds[level][asset]

	return models.BucketRange{
		Min:        math.Max(bounds.Min, float64(pct)-delta),
		Max:        math.Min(bounds.Max, float64(pct)+delta),
		Range:      calculated,
		Base:       base,
		Multiplier: mult,
		Cap:        cap,
		Explanation: fmt.Sprintf("±%.1f%% | Bounds: %.0f–%.0f%% | Context: %s",
			calculated*100, bounds.Min, bounds.Max, contextSummary(a)),
	}
}
