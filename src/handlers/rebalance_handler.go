package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/username/finsight/backend/src/config"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
	"github.com/username/finsight/backend/src/rebalance"
	"github.com/username/finsight/backend/src/services"
	"github.com/username/finsight/backend/src/utils"
)

type RebalanceHandler struct {
	portfolioService services.PortfolioService
	planService      services.PlanService
}

func NewRebalanceHandler(portfolioService services.PortfolioService, planService services.PlanService) *RebalanceHandler {
	return &RebalanceHandler{
		portfolioService: portfolioService,
		planService:      planService,
	}
}

type rebalanceRequest struct {
	Plan     *models.AllocationPlan `json:"plan,omitempty"`
	Holdings []models.Holding       `json:"holdings,omitempty"`
	Options  struct {
		CashOnly         bool     `json:"cashOnly"`
		TurnoverLimitPct float64  `json:"turnoverLimitPct"`
		ConsiderGoals    *bool    `json:"considerGoals"`
		DriftTolerance   *float64 `json:"driftTolerancePct"`
	} `json:"options"`
}

// resolvePlanAndHoldings prefers what the client sent, falling back to
// the latest cached plan and the stored holdings.
func (h *RebalanceHandler) resolvePlanAndHoldings(r *http.Request, userID int64, req *rebalanceRequest) (*models.AllocationPlan, []models.Holding, error) {
	plan := req.Plan
	if plan == nil {
		cached, ok := h.planService.LatestPlan(userID)
		if !ok {
			return nil, nil, errors.New("no plan provided and none built yet")
		}
		plan = cached
	}
	holdings := req.Holdings
	if holdings == nil {
		stored, err := h.portfolioService.ListHoldings(userID, portfolioIDFromRequest(r))
		if err != nil {
			return nil, nil, err
		}
		holdings = stored
	}
	return plan, holdings, nil
}

// HandlePropose builds a constrained trade proposal toward the target mix.
func (h *RebalanceHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req rebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, holdings, err := h.resolvePlanAndHoldings(r, userID, &req)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	portfolioID := portfolioIDFromRequest(r)
	constraints, err := h.portfolioService.GetConstraints(userID, portfolioID)
	if err != nil {
		logger.L.Error("rebalance: failed to load constraints", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to load constraints", http.StatusInternalServerError)
		return
	}

	considerGoals := req.Options.ConsiderGoals == nil || *req.Options.ConsiderGoals
	var goals []models.Goal
	if considerGoals {
		goals, err = h.portfolioService.ListGoals(userID, portfolioID)
		if err != nil {
			logger.L.Error("rebalance: failed to load goals", "userID", userID, "error", err)
			utils.SendJSONError(w, "Failed to load goals", http.StatusInternalServerError)
			return
		}
	}

	opts := rebalance.Options{
		CashOnly:         req.Options.CashOnly,
		TurnoverLimitPct: req.Options.TurnoverLimitPct,
		ConsiderGoals:    considerGoals,
	}
	if opts.TurnoverLimitPct == 0 {
		opts.TurnoverLimitPct = config.Cfg.DefaultTurnoverLimit
	}

	proposal, err := rebalance.Propose(plan, holdings, goals, constraints, opts, time.Now())
	if err != nil {
		var invalid *rebalance.InvalidRequestError
		if errors.As(err, &invalid) {
			utils.SendJSONError(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("rebalance proposal failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to build proposal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposal)
}

// HandleDrift reports per-class drift between actual holdings and the
// plan's targets.
func (h *RebalanceHandler) HandleDrift(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req rebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, holdings, err := h.resolvePlanAndHoldings(r, userID, &req)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tolerance := config.Cfg.DefaultDriftTolerance
	if req.Options.DriftTolerance != nil && *req.Options.DriftTolerance >= 0 {
		tolerance = *req.Options.DriftTolerance
	}

	items, total, err := rebalance.ComputeRebalance(holdings, plan, tolerance)
	if err != nil {
		var invalid *rebalance.InvalidRequestError
		if errors.As(err, &invalid) {
			utils.SendJSONError(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("drift computation failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to compute drift", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":             items,
		"totalCurrentValue": total,
		"driftTolerancePct": tolerance,
	})
}
