package advisor

import (
	"math"
	"time"

	"github.com/username/finsight/backend/src/models"
)

// InferredContext fills in lifestyle details the questionnaire no longer
// asks for directly. Everything here is derived from the banded answers,
// so the same answers always infer the same context.
type InferredContext struct {
	MonthlyObligations   string
	LiquidityNeeds       string
	JobStability         string
	WithdrawalNext2Years bool
	ExpectedReturn       string
	GeographicContext    string
}

func inferContext(a models.QuestionnaireAnswers) InferredContext {
	obligations := inferMonthlyObligations(a.AnnualIncome)
	return InferredContext{
		MonthlyObligations:   obligations,
		LiquidityNeeds:       inferLiquidityNeeds(a.InvestmentHorizon, a.Goals, a.At()),
		JobStability:         inferJobStability(a.Age, a.Dependents, a.EmergencyFundMonths),
		WithdrawalNext2Years: a.EmergencyFundMonths == "0-1" || a.EmergencyFundMonths == "2-3",
		ExpectedReturn:       inferExpectedReturn(a.MaxAcceptableLoss, a.VolatilityComfort),
		GeographicContext:    inferGeographicContext(a.AnnualIncome, obligations),
	}
}

func inferMonthlyObligations(income string) string {
	switch income {
	case "5L+":
		return "25K-50K"
	case "2L-5L":
		return "15K-30K"
	case "1L-2L":
		return "8K-20K"
	case "50K-1L":
		return "5K-12K"
	default:
		return "<5K"
	}
}

func inferLiquidityNeeds(horizon string, goals []models.Goal, now time.Time) string {
	if horizon == "<2 years" {
		return "monthly"
	}
	for _, g := range goals {
		if monthsUntil(g.TargetDate, now) <= 24 {
			return "monthly"
		}
	}
	switch horizon {
	case "2-5 years":
		return "few_times_year"
	case "20+ years":
		return "once_year"
	default:
		return "never"
	}
}

func inferJobStability(age, dependents, efMonths string) string {
	if efMonths == "0-1" || efMonths == "2-3" {
		return "not_stable"
	}
	if age == "65+" || dependents == "5+" {
		return "somewhat_stable"
	}
	if age == "<25" || age == "25-35" {
		return "very_stable"
	}
	return "somewhat_stable"
}

func inferExpectedReturn(maxLoss, volatility string) string {
	switch {
	case maxLoss == "40%+" && volatility == "buy_more":
		return "20%+"
	case maxLoss == "30%" && volatility == "stay_calm":
		return "15-20%"
	case maxLoss == "20%" && volatility == "somewhat_concerned":
		return "12-15%"
	case maxLoss == "10%" && volatility == "very_uncomfortable":
		return "8-12%"
	case maxLoss == "5%" && volatility == "panic_sell":
		return "5-8%"
	default:
		return "8-12%"
	}
}

func inferGeographicContext(income, obligations string) string {
	switch {
	case income == "5L+" && obligations == "25K-50K":
		return "urban_affluent"
	case income == "2L-5L" && obligations == "15K-30K":
		return "urban_standard"
	case income == "1L-2L" && obligations == "8K-20K":
		return "suburban"
	case income == "50K-1L" && obligations == "5K-12K":
		return "rural_standard"
	default:
		return "suburban"
	}
}

// monthsUntil converts a target date to whole months from now, using the
// average month length so the result is stable across month boundaries.
func monthsUntil(target, now time.Time) int {
	diff := target.Sub(now).Hours() / 24 / 30.44
	return int(math.Round(diff))
}
