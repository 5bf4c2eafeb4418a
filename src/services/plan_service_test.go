package services

import (
	"os"
	"testing"
	"time"

	"github.com/username/finsight/backend/src/advisor"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
)

func TestMain(m *testing.M) {
	// The services log through the global logger; quiet it for tests.
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func testAnswers() models.QuestionnaireAnswers {
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

func TestPlanService_BuildAndRecall(t *testing.T) {
	svc := NewPlanService(time.Minute, time.Minute)

	if _, ok := svc.LatestPlan(42); ok {
		t.Fatal("expected no cached plan before building one")
	}

	built, err := svc.BuildPlan(42, testAnswers())
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	cached, ok := svc.LatestPlan(42)
	if !ok {
		t.Fatal("expected the plan to be cached after building")
	}
	if cached != built {
		t.Error("LatestPlan must return the plan BuildPlan produced")
	}

	// Another user's cache stays empty.
	if _, ok := svc.LatestPlan(7); ok {
		t.Error("plan cache must be scoped per user")
	}
}

func TestPlanService_ValidationErrorsPropagate(t *testing.T) {
	svc := NewPlanService(time.Minute, time.Minute)
	a := testAnswers()
	a.Age = "immortal"
	_, err := svc.BuildPlan(42, a)
	if !advisor.IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := svc.LatestPlan(42); ok {
		t.Error("failed builds must not populate the cache")
	}
}

func TestPlanService_Expiry(t *testing.T) {
	svc := NewPlanService(20*time.Millisecond, time.Minute)
	if _, err := svc.BuildPlan(42, testAnswers()); err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := svc.LatestPlan(42); ok {
		t.Error("expected the cached plan to expire")
	}
}
