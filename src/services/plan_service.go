package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finsight/backend/src/advisor"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
)

type planService struct {
	cache *cache.Cache
}

// NewPlanService wraps the advisor engine with a per-user cache of the
// most recent plan.
func NewPlanService(ttl, sweepEvery time.Duration) PlanService {
	return &planService{
		cache: cache.New(ttl, sweepEvery),
	}
}

func planCacheKey(userID int64) string {
	return fmt.Sprintf("plan:%d", userID)
}

func (s *planService) BuildPlan(userID int64, answers models.QuestionnaireAnswers) (*models.AllocationPlan, error) {
	plan, err := advisor.BuildPlan(answers)
	if err != nil {
		return nil, err
	}
	s.cache.Set(planCacheKey(userID), plan, cache.DefaultExpiration)
	logger.L.Info("allocation plan built",
		"userID", userID,
		"riskLevel", plan.RiskLevel,
		"riskScore", plan.RiskScore,
		"warnings", len(plan.Warnings))
	return plan, nil
}

func (s *planService) LatestPlan(userID int64) (*models.AllocationPlan, bool) {
	v, ok := s.cache.Get(planCacheKey(userID))
	if !ok {
		return nil, false
	}
	plan, ok := v.(*models.AllocationPlan)
	return plan, ok
}
