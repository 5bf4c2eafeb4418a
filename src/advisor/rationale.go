package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/username/finsight/backend/src/models"
)

var ageAdvice = map[string]string{
	"<25":   "At your young age, you have decades to build wealth through equity markets.",
	"25-35": "You're in prime wealth-building years with excellent capacity for growth investments.",
	"35-45": "Your peak earning phase allows for significant equity exposure while building long-term wealth.",
	"45-55": "As you approach retirement planning, we're balancing growth with gradual stability increases.",
	"55-65": "Nearing retirement, your portfolio emphasizes preservation while maintaining some growth potential.",
	"65+":   "In retirement, capital preservation and income generation are your primary priorities.",
}

// generateRationale writes the advisor-style narrative for a finished
// allocation: lead with the dominant driver, explain the risk posture,
// tie in goals and special circumstances, then itemize the construction.
func generateRationale(alloc map[models.AssetClass]int, signals []models.Signal, a models.QuestionnaireAnswers, ctx InferredContext, level models.RiskLevel, warnings []models.Warning) []string {
	var rationale []string

	dominant := dominantSignal(signals)
	rationale = append(rationale, leadingStatement(dominant, a))
	rationale = append(rationale, riskExplanation(level, alloc, a))
	rationale = append(rationale, goalsAlignment(a, alloc))

	if special := specialCircumstances(a, ctx, alloc); special != "" {
		rationale = append(rationale, special)
	}

	rationale = append(rationale, constructionRationale(alloc))

	var critical, warn []string
	for _, w := range warnings {
		if w.Severity == "critical" {
			critical = append(critical, w.Message)
		} else {
			warn = append(warn, w.Message)
		}
	}
	if len(critical) > 0 {
		first := ""
		for _, w := range warnings {
			if w.Severity == "critical" {
				first = w.SuggestedAction
				break
			}
		}
		rationale = append(rationale, fmt.Sprintf("Critical Considerations: %s. %s.", strings.Join(critical, "; "), first))
	}
	if len(warn) > 0 {
		rationale = append(rationale, fmt.Sprintf("Additional Considerations: %s. Consider discussing these with your advisor.", strings.Join(warn, "; ")))
	}

	return rationale
}

func dominantSignal(signals []models.Signal) models.Signal {
	max := signals[0]
	for _, s := range signals[1:] {
		if math.Abs(s.Equity*s.Weight) > math.Abs(max.Equity*max.Weight) {
			max = s
		}
	}
	return max
}

func leadingStatement(dominant models.Signal, a models.QuestionnaireAnswers) string {
	if dominant.Factor == "age" {
		if advice, ok := ageAdvice[a.Age]; ok {
			return advice
		}
	}
	return dominant.Explanation
}

func riskExplanation(level models.RiskLevel, alloc map[models.AssetClass]int, a models.QuestionnaireAnswers) string {
	equityTotal := alloc[models.AssetStocks] + alloc[models.AssetEquityMF]
	switch level {
	case models.RiskAggressive:
		comfort := strings.ReplaceAll(a.VolatilityComfort, "_", " ")
		return fmt.Sprintf("Your %d%% equity allocation reflects your comfort with volatility and long-term growth focus, supported by your %s approach to market fluctuations.", equityTotal, comfort)
	case models.RiskConservative:
		return fmt.Sprintf("The conservative %d%% allocation to safety assets provides stability aligned with your risk comfort level and circumstances.", 100-equityTotal)
	default:
		return fmt.Sprintf("This balanced %d%% equity approach provides growth potential while maintaining appropriate safety buffers for your situation.", equityTotal)
	}
}

func goalsAlignment(a models.QuestionnaireAnswers, alloc map[models.AssetClass]int) string {
	goals := a.Goals
	if len(goals) == 0 {
		return "This allocation provides a balanced approach suitable for general investment objectives."
	}
	if len(goals) == 1 {
		g := goals[0]
		return fmt.Sprintf("This allocation is optimized for your %s goal (%.1fL by %d).", g.Name, g.TargetAmount/100000, g.TargetDate.Year())
	}

	now := a.At()
	var urgent, highPriority []string
	longTerm := false
	for _, g := range goals {
		months := monthsUntil(g.TargetDate, now)
		if months <= 24 {
			urgent = append(urgent, g.Name)
		}
		if months > 60 {
			longTerm = true
		}
		if g.Priority == models.PriorityHigh {
			highPriority = append(highPriority, g.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This allocation balances %d goals: ", len(goals))
	if len(urgent) > 0 {
		fmt.Fprintf(&b, "prioritizing near-term goals (%s) with %d%% in stable assets, ",
			strings.Join(urgent, ", "), alloc[models.AssetLiquid]+alloc[models.AssetDebt])
	}
	if len(highPriority) > 0 {
		fmt.Fprintf(&b, "emphasizing high-priority objectives (%s), ", strings.Join(highPriority, ", "))
	}
	if longTerm {
		fmt.Fprintf(&b, "while maintaining %d%% equity exposure for long-term growth.",
			alloc[models.AssetStocks]+alloc[models.AssetEquityMF])
	} else {
		b.WriteString("with appropriate risk balance for your timeline.")
	}
	return b.String()
}

func specialCircumstances(a models.QuestionnaireAnswers, ctx InferredContext, alloc map[models.AssetClass]int) string {
	var circumstances []string

	if a.EmergencyFundMonths == "0-1" || a.EmergencyFundMonths == "2-3" {
		circumstances = append(circumstances, fmt.Sprintf("Higher liquid allocation (%d%%) addresses your emergency fund gap.", alloc[models.AssetLiquid]))
	}
	if a.Dependents == "3-4" || a.Dependents == "5+" {
		circumstances = append(circumstances, fmt.Sprintf("Family responsibilities support the conservative positioning with %d%% in stable assets.", alloc[models.AssetDebt]+alloc[models.AssetLiquid]))
	}
	if ctx.WithdrawalNext2Years {
		circumstances = append(circumstances, "Anticipated withdrawals within 2 years justify the emphasis on liquid and stable investments.")
	}
	if ctx.JobStability == "not_stable" {
		circumstances = append(circumstances, "Income volatility supports maintaining higher safety buffers in your allocation.")
	}

	return strings.Join(circumstances, " ")
}

func constructionRationale(alloc map[models.AssetClass]int) string {
	var components []string
	descriptions := map[models.AssetClass]string{
		models.AssetStocks:     "direct stocks for growth potential",
		models.AssetEquityMF:   "equity mutual funds for diversified equity exposure",
		models.AssetDebt:       "debt for stable income",
		models.AssetGold:       "gold as inflation hedge",
		models.AssetRealEstate: "real estate for portfolio diversification",
		models.AssetLiquid:     "liquid funds for flexibility and opportunities",
	}
	for _, c := range models.AssetClasses {
		if alloc[c] > 0 {
			components = append(components, fmt.Sprintf("%d%% %s", alloc[c], descriptions[c]))
		}
	}
	return fmt.Sprintf("Portfolio construction: %s.", strings.Join(components, ", "))
}
