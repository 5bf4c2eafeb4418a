package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
	"github.com/username/finsight/backend/src/security/validation"
	"github.com/username/finsight/backend/src/services"
	"github.com/username/finsight/backend/src/utils"
)

// defaultPortfolioID scopes single-portfolio users; clients can override
// with the ?portfolio query parameter.
const defaultPortfolioID = "default"

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

func portfolioIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("portfolio"); id != "" {
		return id
	}
	return defaultPortfolioID
}

func (h *PortfolioHandler) HandleListHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	holdings, err := h.portfolioService.ListHoldings(userID, portfolioIDFromRequest(r))
	if err != nil {
		logger.L.Error("failed to list holdings", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to list holdings", http.StatusInternalServerError)
		return
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}

	total := 0.0
	for _, holding := range holdings {
		total += holding.Value()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"holdings":   holdings,
		"totalValue": total,
	})
}

func (h *PortfolioHandler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var holding models.Holding
	if err := json.NewDecoder(r.Body).Decode(&holding); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	holding.Name = validation.SanitizeName(holding.Name)
	if holding.Name == "" {
		utils.SendJSONError(w, "Holding name is required", http.StatusBadRequest)
		return
	}
	if !models.IsAssetClass(string(holding.InstrumentClass)) {
		utils.SendJSONError(w, "Unknown instrument class", http.StatusBadRequest)
		return
	}

	created, err := h.portfolioService.AddHolding(userID, portfolioIDFromRequest(r), holding)
	if err != nil {
		logger.L.Error("failed to add holding", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to add holding", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *PortfolioHandler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	holdingID := r.PathValue("id")
	if holdingID == "" {
		utils.SendJSONError(w, "Holding id is required", http.StatusBadRequest)
		return
	}

	err := h.portfolioService.DeleteHolding(userID, portfolioIDFromRequest(r), holdingID)
	if err == services.ErrNotFound {
		utils.SendJSONError(w, "Holding not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("failed to delete holding", "userID", userID, "holdingID", holdingID, "error", err)
		utils.SendJSONError(w, "Failed to delete holding", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PortfolioHandler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.portfolioService.ListGoals(userID, portfolioIDFromRequest(r))
	if err != nil {
		logger.L.Error("failed to list goals", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"goals": goals})
}

func (h *PortfolioHandler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	goal.Name = validation.SanitizeName(goal.Name)
	if goal.Name == "" {
		utils.SendJSONError(w, "Goal name is required", http.StatusBadRequest)
		return
	}
	if goal.TargetAmount <= 0 {
		utils.SendJSONError(w, "Goal target amount must be positive", http.StatusBadRequest)
		return
	}
	if goal.TargetDate.IsZero() {
		utils.SendJSONError(w, "Goal target date is required", http.StatusBadRequest)
		return
	}
	switch goal.Priority {
	case "", models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		utils.SendJSONError(w, "Unknown goal priority", http.StatusBadRequest)
		return
	}

	created, err := h.portfolioService.AddGoal(userID, portfolioIDFromRequest(r), goal)
	if err != nil {
		logger.L.Error("failed to add goal", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to add goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *PortfolioHandler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := r.PathValue("id")
	if goalID == "" {
		utils.SendJSONError(w, "Goal id is required", http.StatusBadRequest)
		return
	}

	err := h.portfolioService.DeleteGoal(userID, portfolioIDFromRequest(r), goalID)
	if err == services.ErrNotFound {
		utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("failed to delete goal", "userID", userID, "goalID", goalID, "error", err)
		utils.SendJSONError(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PortfolioHandler) HandleGetConstraints(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	constraints, err := h.portfolioService.GetConstraints(userID, portfolioIDFromRequest(r))
	if err != nil {
		logger.L.Error("failed to get constraints", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to get constraints", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(constraints)
}

func (h *PortfolioHandler) HandlePutConstraints(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var constraints models.Constraints
	if err := json.NewDecoder(r.Body).Decode(&constraints); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if constraints.EFMonths < 0 || constraints.EFMonths > 24 {
		utils.SendJSONError(w, "efMonths must be between 0 and 24", http.StatusBadRequest)
		return
	}
	if constraints.LiquidityAmount < 0 {
		utils.SendJSONError(w, "liquidityAmount cannot be negative", http.StatusBadRequest)
		return
	}
	if constraints.LiquidityMonths < 0 || constraints.LiquidityMonths > 36 {
		utils.SendJSONError(w, "liquidityMonths must be between 0 and 36", http.StatusBadRequest)
		return
	}

	if err := h.portfolioService.PutConstraints(userID, portfolioIDFromRequest(r), constraints); err != nil {
		logger.L.Error("failed to save constraints", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to save constraints", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(constraints)
}
