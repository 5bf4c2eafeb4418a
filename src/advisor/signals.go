package advisor

import (
	"fmt"
	"math"
	"time"

	"github.com/username/finsight/backend/src/models"
)

// factorSignal is one row of the lookup tables below.
type factorSignal struct {
	Equity      float64
	Safety      float64
	Explanation string
}

var ageSignals = map[string]factorSignal{
	"<25":   {15, -8, "Young age provides maximum risk capacity for long-term growth"},
	"25-35": {12, -5, "Prime wealth-building years with high equity tolerance"},
	"35-45": {8, -2, "Peak earning years allow significant equity exposure"},
	"45-55": {3, 3, "Pre-retirement phase begins gradual shift to stability"},
	"55-65": {-5, 8, "Approaching retirement requires increased focus on preservation"},
	"65+":   {-10, 15, "Retirement phase prioritizes capital preservation and income"},
}

var horizonSignals = map[string]factorSignal{
	"<2 years":    {-15, 15, "Short horizon requires maximum liquidity and capital preservation"},
	"2-5 years":   {-5, 5, "Medium-short horizon favors defensive positioning"},
	"5-10 years":  {5, -2, "Medium horizon allows moderate equity exposure"},
	"10-20 years": {10, -5, "Long horizon enables significant equity allocation"},
	"20+ years":   {15, -8, "Very long horizon maximizes growth potential through equity"},
}

var dependentSignals = map[string]factorSignal{
	"0":   {0, 0, "No dependents allows for neutral risk positioning"},
	"1-2": {-2, 5, "Few dependents suggest slight increase in safety allocation"},
	"3-4": {-5, 8, "Multiple dependents require increased financial security"},
	"5+":  {-8, 12, "Many dependents necessitate conservative, stable approach"},
}

var emergencyFundSignals = map[string]factorSignal{
	"0-1":  {-15, 15, "Insufficient emergency fund requires immediate liquidity focus"},
	"2-3":  {-8, 10, "Low emergency fund suggests increasing liquid reserves"},
	"4-6":  {0, 0, "Adequate emergency fund allows normal risk allocation"},
	"7-12": {3, -2, "Good emergency buffer enables slightly higher risk"},
	"12+":  {5, -5, "Excellent emergency fund supports increased equity exposure"},
}

var volatilitySignals = map[string]factorSignal{
	"panic_sell":         {-15, 15, "Low volatility tolerance requires defensive allocation"},
	"very_uncomfortable": {-8, 10, "Limited comfort with volatility suggests caution"},
	"somewhat_concerned": {0, 0, "Moderate volatility comfort allows balanced approach"},
	"stay_calm":          {8, -5, "Good volatility tolerance supports higher equity exposure"},
	"buy_more":           {12, -8, "Excellent volatility tolerance enables aggressive positioning"},
}

var lossToleranceSignals = map[string]factorSignal{
	"5%":   {-10, 10, "Low loss tolerance requires conservative approach"},
	"10%":  {-5, 5, "Limited loss tolerance suggests defensive positioning"},
	"20%":  {0, 0, "Moderate loss tolerance allows balanced allocation"},
	"30%":  {5, -3, "Good loss tolerance supports higher equity exposure"},
	"40%+": {10, -5, "High loss tolerance enables aggressive growth strategy"},
}

// validateAnswers rejects any banded field whose value falls outside the
// closed vocabulary. The first offending field is reported.
func validateAnswers(a models.QuestionnaireAnswers) error {
	checks := []struct {
		field string
		value string
		vocab []string
	}{
		{"age", a.Age, ageBands},
		{"investmentHorizon", a.InvestmentHorizon, horizonBands},
		{"annualIncome", a.AnnualIncome, incomeBands},
		{"emergencyFundMonths", a.EmergencyFundMonths, efBands},
		{"dependents", a.Dependents, dependentBands},
		{"volatilityComfort", a.VolatilityComfort, volatilityBands},
		{"maxAcceptableLoss", a.MaxAcceptableLoss, lossBands},
		{"investmentKnowledge", a.InvestmentKnowledge, knowledgeBands},
	}
	for _, c := range checks {
		if !contains(c.vocab, c.value) {
			return &ValidationError{Field: c.field, Value: c.value}
		}
	}
	avoided := make(map[models.AssetClass]bool, len(a.AvoidAssets))
	for _, c := range a.AvoidAssets {
		if !models.IsAssetClass(string(c)) {
			return &ValidationError{Field: "avoidAssets", Value: string(c)}
		}
		avoided[c] = true
	}
	if len(avoided) == len(models.AssetClasses) {
		return &ValidationError{Field: "avoidAssets", Value: "all asset classes excluded"}
	}
	return nil
}

func contains(vocab []string, v string) bool {
	for _, s := range vocab {
		if s == v {
			return true
		}
	}
	return false
}

// calculateSignals turns validated answers into the weighted signal set
// the allocation base is built from. Validation must run first; this
// function assumes every band resolves.
func calculateSignals(a models.QuestionnaireAnswers) []models.Signal {
	signals := make([]models.Signal, 0, 8+len(a.Goals))

	age := ageSignals[a.Age]
	signals = append(signals, models.Signal{
		Factor: "age", Equity: age.Equity, Safety: age.Safety,
		Weight: weightAge, Explanation: age.Explanation,
	})

	horizon := horizonSignals[a.InvestmentHorizon]
	signals = append(signals, models.Signal{
		Factor: "investment_horizon", Equity: horizon.Equity, Safety: horizon.Safety,
		Weight: weightHorizon, Explanation: horizon.Explanation,
	})

	dep := dependentSignals[a.Dependents]
	signals = append(signals, models.Signal{
		Factor: "dependents", Equity: dep.Equity, Safety: dep.Safety,
		Weight: weightDependents, Explanation: dep.Explanation,
	})

	ef := emergencyFundSignals[a.EmergencyFundMonths]
	signals = append(signals, models.Signal{
		Factor: "emergency_fund", Equity: ef.Equity, Safety: ef.Safety,
		Weight: weightEmergency, Explanation: ef.Explanation,
	})

	vol := volatilitySignals[a.VolatilityComfort]
	signals = append(signals, models.Signal{
		Factor: "volatility_comfort", Equity: vol.Equity, Safety: vol.Safety,
		Weight: weightVolatility, Explanation: vol.Explanation,
	})

	loss := lossToleranceSignals[a.MaxAcceptableLoss]
	signals = append(signals, models.Signal{
		Factor: "loss_tolerance", Equity: loss.Equity, Safety: loss.Safety,
		Weight: weightLoss, Explanation: loss.Explanation,
	})

	signals = append(signals, goalSignals(a.Goals, a.At())...)

	if !a.HasInsurance {
		signals = append(signals, models.Signal{
			Factor: "insurance", Equity: -10, Safety: 10, Weight: weightInsurance,
			Explanation: "Lack of insurance requires more conservative positioning",
		})
	}

	applyKnowledgeMultiplier(signals, a.InvestmentKnowledge)
	return signals
}

// goalSignals converts the goal list into weighted signals sharing a fixed
// slice of the decision budget. With no goals a single neutral signal keeps
// the aggregation balanced.
func goalSignals(goals []models.Goal, now time.Time) []models.Signal {
	if len(goals) == 0 {
		return []models.Signal{{
			Factor:      "default_balanced_goal",
			Weight:      weightGoalsNeutral,
			Explanation: "Balanced approach with no specific goals defined",
		}}
	}

	out := make([]models.Signal, 0, len(goals))
	totalWeight := 0.0
	for _, g := range goals {
		months := monthsUntil(g.TargetDate, now)

		equity := clamp(timelineSignal(months)*priorityMultiplier(g.Priority), -15, 15)
		safety := clamp(-equity*0.7, -15, 15)

		weight := math.Min(1, goalBaseWeight(g.TargetAmount)*urgencyMultiplier(months))
		totalWeight += weight

		tl := "long-term"
		if months <= 12 {
			tl = "urgent"
		} else if months <= 36 {
			tl = "medium-term"
		}
		out = append(out, models.Signal{
			Factor:      "goal_" + g.Name,
			Equity:      equity,
			Safety:      safety,
			Weight:      weight,
			Explanation: fmt.Sprintf("%s: %.1fL %s goal (%s priority)", g.Name, g.TargetAmount/100000, tl, g.Priority),
		})
	}

	// Goals together claim a fixed share of the total decision weight.
	if totalWeight > 0 {
		factor := weightGoals / totalWeight
		for i := range out {
			out[i].Weight *= factor
		}
	}
	return out
}

// timelineSignal maps months-to-target onto a smooth sigmoid from -10
// (past due) to +10 (20+ years), with its inflection at 36 months. No
// cliff effects between adjacent timelines.
func timelineSignal(months int) float64 {
	if months <= 0 {
		return -10
	}
	x := math.Min(240, float64(months))
	s := 20/(1+math.Exp(-0.1*(x-36))) - 10
	return math.Round(s*10) / 10
}

// urgencyMultiplier weights closer goals more heavily.
func urgencyMultiplier(months int) float64 {
	if months <= 0 {
		return 1.5
	}
	if months > 240 {
		return 0.1
	}
	return clamp(1.5-float64(months)/240, 0.1, 1.5)
}

// goalBaseWeight scales logarithmically with the target amount so huge
// goals cannot dominate, normalized against a 10L reference.
func goalBaseWeight(targetAmount float64) float64 {
	normalized := targetAmount / 1000000
	return math.Min(1, math.Log(1+normalized)*0.3)
}

func priorityMultiplier(p models.Priority) float64 {
	switch p {
	case models.PriorityHigh:
		return 1.2
	case models.PriorityLow:
		return 0.8
	default:
		return 1.0
	}
}

// applyKnowledgeMultiplier scales every signal by the investor's knowledge
// level, capping the adjusted magnitudes at +/-10 points.
func applyKnowledgeMultiplier(signals []models.Signal, knowledge string) {
	mult, ok := knowledgeMultipliers[knowledge]
	if !ok {
		mult = 1.0
	}
	for i := range signals {
		signals[i].Equity = clamp(signals[i].Equity*mult, -knowledgeAdjCap, knowledgeAdjCap)
		signals[i].Safety = clamp(signals[i].Safety*mult, -knowledgeAdjCap, knowledgeAdjCap)
		if knowledge == "expert" {
			signals[i].Explanation += " (enhanced for expert knowledge level)"
		} else if knowledge != "experienced" {
			signals[i].Explanation += fmt.Sprintf(" (adjusted for %s knowledge level)", knowledge)
		}
	}
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
