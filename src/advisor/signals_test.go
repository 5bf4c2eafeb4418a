package advisor

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/username/finsight/backend/src/models"
)

func baselineAnswers() models.QuestionnaireAnswers {
	return models.QuestionnaireAnswers{
		Age:                 "35-45",
		InvestmentHorizon:   "10-20 years",
		AnnualIncome:        "2L-5L",
		InvestmentAmount:    1000000,
		EmergencyFundMonths: "4-6",
		Dependents:          "1-2",
		VolatilityComfort:   "stay_calm",
		MaxAcceptableLoss:   "20%",
		InvestmentKnowledge: "experienced",
		HasInsurance:        true,
		AsOf:                time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAnswers_RejectsUnknownBand(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*models.QuestionnaireAnswers)
	}{
		{"age", func(a *models.QuestionnaireAnswers) { a.Age = "200+" }},
		{"investmentHorizon", func(a *models.QuestionnaireAnswers) { a.InvestmentHorizon = "forever" }},
		{"annualIncome", func(a *models.QuestionnaireAnswers) { a.AnnualIncome = "" }},
		{"emergencyFundMonths", func(a *models.QuestionnaireAnswers) { a.EmergencyFundMonths = "lots" }},
		{"dependents", func(a *models.QuestionnaireAnswers) { a.Dependents = "many" }},
		{"volatilityComfort", func(a *models.QuestionnaireAnswers) { a.VolatilityComfort = "meh" }},
		{"maxAcceptableLoss", func(a *models.QuestionnaireAnswers) { a.MaxAcceptableLoss = "50%" }},
		{"investmentKnowledge", func(a *models.QuestionnaireAnswers) { a.InvestmentKnowledge = "guru" }},
		{"avoidAssets", func(a *models.QuestionnaireAnswers) { a.AvoidAssets = []models.AssetClass{"Crypto"} }},
	}
	for _, tc := range cases {
		a := baselineAnswers()
		tc.mutate(&a)
		err := validateAnswers(a)
		if err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.field)
			continue
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%s: expected *ValidationError, got %T", tc.field, err)
			continue
		}
		if ve.Field != tc.field {
			t.Errorf("expected field %q, got %q", tc.field, ve.Field)
		}
	}
}

func TestValidateAnswers_AcceptsEveryBand(t *testing.T) {
	a := baselineAnswers()
	for _, band := range ageBands {
		a.Age = band
		if err := validateAnswers(a); err != nil {
			t.Errorf("age band %q rejected: %v", band, err)
		}
	}
}

func TestTimelineSignal(t *testing.T) {
	if got := timelineSignal(-3); got != -10 {
		t.Errorf("past-due goal: expected -10, got %g", got)
	}
	if got := timelineSignal(0); got != -10 {
		t.Errorf("due-now goal: expected -10, got %g", got)
	}
	// Sigmoid inflection sits at 36 months.
	if got := timelineSignal(36); got != 0 {
		t.Errorf("36-month goal: expected 0, got %g", got)
	}
	if got := timelineSignal(240); got != 10 {
		t.Errorf("20-year goal: expected 10, got %g", got)
	}
	if got := timelineSignal(500); got != 10 {
		t.Errorf("distant goal must saturate at 10, got %g", got)
	}
	if timelineSignal(12) >= timelineSignal(60) {
		t.Error("timeline signal must increase with distance")
	}
}

func TestUrgencyMultiplier(t *testing.T) {
	if got := urgencyMultiplier(-1); got != 1.5 {
		t.Errorf("past-due: expected 1.5, got %g", got)
	}
	if got := urgencyMultiplier(240); got != 0.5 {
		t.Errorf("240 months: expected 0.5, got %g", got)
	}
	if got := urgencyMultiplier(400); got != 0.1 {
		t.Errorf("beyond 240 months: expected 0.1, got %g", got)
	}
	if urgencyMultiplier(12) <= urgencyMultiplier(120) {
		t.Error("closer goals must carry more urgency")
	}
}

func TestGoalSignals_NeutralWithoutGoals(t *testing.T) {
	sig := goalSignals(nil, time.Now())
	if len(sig) != 1 {
		t.Fatalf("expected single neutral signal, got %d", len(sig))
	}
	if sig[0].Factor != "default_balanced_goal" || sig[0].Weight != weightGoalsNeutral {
		t.Errorf("unexpected neutral signal: %+v", sig[0])
	}
	if sig[0].Equity != 0 || sig[0].Safety != 0 {
		t.Errorf("neutral signal must be zero, got equity=%g safety=%g", sig[0].Equity, sig[0].Safety)
	}
}

func TestGoalSignals_WeightsShareFixedBudget(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	goals := []models.Goal{
		{Name: "House", TargetAmount: 5000000, TargetDate: now.AddDate(2, 0, 0), Priority: models.PriorityHigh},
		{Name: "Retirement", TargetAmount: 20000000, TargetDate: now.AddDate(25, 0, 0), Priority: models.PriorityMedium},
		{Name: "Vacation", TargetAmount: 300000, TargetDate: now.AddDate(1, 0, 0), Priority: models.PriorityLow},
	}
	sig := goalSignals(goals, now)
	if len(sig) != 3 {
		t.Fatalf("expected 3 goal signals, got %d", len(sig))
	}
	total := 0.0
	for _, s := range sig {
		total += s.Weight
		if !strings.HasPrefix(s.Factor, "goal_") {
			t.Errorf("goal factor missing prefix: %q", s.Factor)
		}
		if s.Equity < -15 || s.Equity > 15 {
			t.Errorf("%s equity signal out of clamp: %g", s.Factor, s.Equity)
		}
		if math.Abs(s.Safety-clamp(-s.Equity*0.7, -15, 15)) > 1e-9 {
			t.Errorf("%s safety not derived from equity: equity=%g safety=%g", s.Factor, s.Equity, s.Safety)
		}
	}
	if math.Abs(total-weightGoals) > 1e-9 {
		t.Errorf("goal weights must sum to %g, got %g", weightGoals, total)
	}
	// The near-term house goal pulls toward safety, retirement toward equity.
	if sig[0].Equity >= 0 {
		t.Errorf("2-year goal should carry negative equity signal, got %g", sig[0].Equity)
	}
	if sig[1].Equity <= 0 {
		t.Errorf("25-year goal should carry positive equity signal, got %g", sig[1].Equity)
	}
}

func TestApplyKnowledgeMultiplier(t *testing.T) {
	signals := []models.Signal{{Factor: "age", Equity: 12, Safety: -8, Weight: 0.25, Explanation: "x"}}
	applyKnowledgeMultiplier(signals, "expert")
	if signals[0].Equity != 10 {
		t.Errorf("expert boost must cap at 10, got %g", signals[0].Equity)
	}
	if !strings.Contains(signals[0].Explanation, "enhanced for expert knowledge level") {
		t.Errorf("missing expert annotation: %q", signals[0].Explanation)
	}

	signals = []models.Signal{{Factor: "age", Equity: 10, Safety: -5, Weight: 0.25, Explanation: "x"}}
	applyKnowledgeMultiplier(signals, "beginner")
	if signals[0].Equity != 8 {
		t.Errorf("beginner damping: expected 8, got %g", signals[0].Equity)
	}
	if !strings.Contains(signals[0].Explanation, "adjusted for beginner knowledge level") {
		t.Errorf("missing beginner annotation: %q", signals[0].Explanation)
	}

	signals = []models.Signal{{Factor: "age", Equity: 10, Safety: -5, Weight: 0.25, Explanation: "x"}}
	applyKnowledgeMultiplier(signals, "experienced")
	if signals[0].Equity != 10 || signals[0].Explanation != "x" {
		t.Errorf("experienced must be a no-op, got %+v", signals[0])
	}
}

func TestCalculateSignals_InsuranceSignalOnlyWhenUninsured(t *testing.T) {
	a := baselineAnswers()
	for _, s := range calculateSignals(a) {
		if s.Factor == "insurance" {
			t.Fatal("insured investor must not carry an insurance signal")
		}
	}

	a.HasInsurance = false
	found := false
	for _, s := range calculateSignals(a) {
		if s.Factor == "insurance" {
			found = true
			if s.Equity != -10 || s.Safety != 10 || s.Weight != weightInsurance {
				t.Errorf("unexpected insurance signal: %+v", s)
			}
		}
	}
	if !found {
		t.Error("uninsured investor must carry an insurance signal")
	}
}
