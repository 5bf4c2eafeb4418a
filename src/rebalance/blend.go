package rebalance

import (
	"time"

	"github.com/username/finsight/backend/src/advisor"
	"github.com/username/finsight/backend/src/models"
)

// horizonBandForDate maps a goal's target date onto a questionnaire
// horizon band for the per-goal plan synthesis. Calendar years, so a goal
// exactly three years out still counts as short.
func horizonBandForDate(target, now time.Time) string {
	if !target.After(now.AddDate(3, 0, 0)) {
		return "<2 years"
	}
	if !target.After(now.AddDate(7, 0, 0)) {
		return "5-10 years"
	}
	return "20+ years"
}

func volatilityFromRisk(level models.RiskLevel) string {
	switch level {
	case models.RiskAggressive:
		return "stay_calm"
	case models.RiskConservative:
		return "very_uncomfortable"
	default:
		return "somewhat_concerned"
	}
}

func lossToleranceFromRisk(level models.RiskLevel) string {
	switch level {
	case models.RiskAggressive:
		return "30%"
	case models.RiskConservative:
		return "10%"
	default:
		return "20%"
	}
}

// goalPlanMix builds a neutral-investor plan for a single goal's horizon
// and reads off the bucket mix. Only the horizon, household risk level
// and emergency fund picture vary per goal; the rest of the synthetic
// questionnaire stays fixed so blending is reproducible.
func goalPlanMix(g models.Goal, riskLevel models.RiskLevel, constraints models.Constraints, now time.Time) (map[models.AssetClass]float64, error) {
	efBand := "2-3"
	if constraints.EFMonths >= 6 {
		efBand = "7-12"
	}
	answers := models.QuestionnaireAnswers{
		Age:                 "35-45",
		InvestmentHorizon:   horizonBandForDate(g.TargetDate, now),
		AnnualIncome:        "2L-5L",
		InvestmentAmount:    g.TargetAmount,
		EmergencyFundMonths: efBand,
		Dependents:          "0",
		VolatilityComfort:   volatilityFromRisk(riskLevel),
		MaxAcceptableLoss:   lossToleranceFromRisk(riskLevel),
		InvestmentKnowledge: "experienced",
		HasInsurance:        true,
		AsOf:                now,
	}
	plan, err := advisor.BuildPlan(answers)
	if err != nil {
		return nil, err
	}
	mix := make(map[models.AssetClass]float64, len(plan.Buckets))
	for _, b := range plan.Buckets {
		mix[b.Class] = float64(b.Pct)
	}
	return mix, nil
}

// BlendGoalTargets combines per-goal plan mixes into one household target,
// weighting each goal by target amount (floor of 1) scaled by priority.
// Returns nil when there are no goals to blend.
func BlendGoalTargets(goals []models.Goal, riskLevel models.RiskLevel, constraints models.Constraints, now time.Time) (map[models.AssetClass]int, error) {
	if len(goals) == 0 {
		return nil, nil
	}

	type part struct {
		mix    map[models.AssetClass]float64
		weight float64
	}
	parts := make([]part, 0, len(goals))
	sumW := 0.0
	for _, g := range goals {
		mix, err := goalPlanMix(g, riskLevel, constraints, now)
		if err != nil {
			return nil, err
		}
		w := g.TargetAmount
		if w <= 0 {
			w = 1
		}
		switch g.Priority {
		case models.PriorityHigh:
			w *= 1.2
		case models.PriorityLow:
			w *= 0.8
		}
		parts = append(parts, part{mix: mix, weight: w})
		sumW += w
	}

	acc := make(map[models.AssetClass]float64)
	for _, p := range parts {
		for class, pct := range p.mix {
			acc[class] += pct * (p.weight / sumW)
		}
	}
	blended := advisor.NormalizeTo100(acc)
	return ApplyLiquidFloor(blended, constraints.EFMonths, constraints.LiquidityAmount), nil
}

// liquidFundingOrder is where liquid floor points come from, most
// expendable first.
var liquidFundingOrder = []models.AssetClass{
	models.AssetDebt,
	models.AssetStocks,
	models.AssetEquityMF,
	models.AssetGold,
	models.AssetRealEstate,
}

// ApplyLiquidFloor guarantees a minimum liquid share based on the
// emergency fund picture: 3 points with six or more months saved, 5 with
// some buffer, 8 with none, plus 2 (capped at 12) when a standing
// liquidity need is declared. The shortfall is funded from the other
// classes in order, then proportionally.
func ApplyLiquidFloor(target map[models.AssetClass]int, efMonths int, liquidityAmount float64) map[models.AssetClass]int {
	out := make(map[models.AssetClass]int, len(target))
	for k, v := range target {
		out[k] = v
	}

	minLiquid := 8
	if efMonths >= 6 {
		minLiquid = 3
	} else if efMonths > 0 {
		minLiquid = 5
	}
	if liquidityAmount > 0 {
		minLiquid += 2
		if minLiquid > 12 {
			minLiquid = 12
		}
	}

	if out[models.AssetLiquid] >= minLiquid {
		return out
	}

	need := minLiquid - out[models.AssetLiquid]
	out[models.AssetLiquid] = minLiquid
	for _, class := range liquidFundingOrder {
		if need <= 0 {
			break
		}
		have := out[class]
		if have <= 0 {
			continue
		}
		take := have
		if take > need {
			take = need
		}
		out[class] = have - take
		need -= take
	}
	if need > 0 {
		for _, class := range models.AssetClasses {
			if need <= 0 {
				break
			}
			if class == models.AssetLiquid || out[class] <= 0 {
				continue
			}
			take := out[class]
			if take > need {
				take = need
			}
			out[class] -= take
			need -= take
		}
	}

	asFloat := make(map[models.AssetClass]float64, len(out))
	for k, v := range out {
		asFloat[k] = float64(v)
	}
	return advisor.NormalizeTo100(asFloat)
}
