package advisor

import (
	"github.com/username/finsight/backend/src/models"
)

// consistencyRule flags answer combinations that contradict each other.
type consistencyRule struct {
	condition       func(a models.QuestionnaireAnswers, ctx InferredContext) bool
	message         string
	severity        string
	category        string
	suggestedAction string
}

var consistencyRules = []consistencyRule{
	{
		condition: func(a models.QuestionnaireAnswers, _ InferredContext) bool {
			if a.InvestmentHorizon != "<2 years" {
				return false
			}
			for _, g := range a.Goals {
				if monthsUntil(g.TargetDate, a.At()) > 120 {
					return true
				}
			}
			return false
		},
		message:         "Short horizon with long-term goals",
		severity:        "warning",
		category:        "timeline",
		suggestedAction: "Discuss timeline alignment or goal adjustment",
	},
	{
		condition: func(a models.QuestionnaireAnswers, _ InferredContext) bool {
			return a.EmergencyFundMonths == "0-1" &&
				(a.InvestmentHorizon == "10-20 years" || a.InvestmentHorizon == "20+ years")
		},
		message:         "No emergency fund but planning for the long term",
		severity:        "critical",
		category:        "financial-foundation",
		suggestedAction: "Prioritize emergency fund before long-term investing",
	},
	{
		condition: func(a models.QuestionnaireAnswers, _ InferredContext) bool {
			return a.Age == "65+" && a.InvestmentHorizon == "20+ years"
		},
		message:         "Senior age with very long investment horizon",
		severity:        "warning",
		category:        "timeline",
		suggestedAction: "Verify timeline expectations and health considerations",
	},
	{
		condition: func(a models.QuestionnaireAnswers, ctx InferredContext) bool {
			return ctx.LiquidityNeeds == "monthly" &&
				(a.InvestmentHorizon == "10-20 years" || a.InvestmentHorizon == "20+ years")
		},
		message:         "Frequent liquidity needs may conflict with long-term growth",
		severity:        "warning",
		category:        "behavioral",
		suggestedAction: "Balance liquidity needs with long-term growth strategy",
	},
}

// behavioralWarnings evaluates all consistency rules against the answers.
func behavioralWarnings(a models.QuestionnaireAnswers, ctx InferredContext) []models.Warning {
	var out []models.Warning
	for _, rule := range consistencyRules {
		if rule.condition(a, ctx) {
			out = append(out, models.Warning{
				Severity:        rule.severity,
				Message:         rule.message,
				Category:        rule.category,
				SuggestedAction: rule.suggestedAction,
			})
		}
	}
	return out
}
