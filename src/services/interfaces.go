package services

import (
	"github.com/username/finsight/backend/src/models"
)

// PortfolioService is the persistence surface for a user's holdings,
// goals and constraints. Every call is scoped to one user; handlers pass
// the authenticated user ID, never one taken from the request body.
type PortfolioService interface {
	ListHoldings(userID int64, portfolioID string) ([]models.Holding, error)
	AddHolding(userID int64, portfolioID string, h models.Holding) (models.Holding, error)
	DeleteHolding(userID int64, portfolioID, holdingID string) error

	ListGoals(userID int64, portfolioID string) ([]models.Goal, error)
	AddGoal(userID int64, portfolioID string, g models.Goal) (models.Goal, error)
	DeleteGoal(userID int64, portfolioID, goalID string) error

	GetConstraints(userID int64, portfolioID string) (models.Constraints, error)
	PutConstraints(userID int64, portfolioID string, c models.Constraints) error
}

// PlanService builds allocation plans and remembers the latest one per
// user so the dashboard can re-read it without recomputing.
type PlanService interface {
	BuildPlan(userID int64, answers models.QuestionnaireAnswers) (*models.AllocationPlan, error)
	LatestPlan(userID int64) (*models.AllocationPlan, bool)
}
