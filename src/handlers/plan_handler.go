package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/finsight/backend/src/advisor"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
	"github.com/username/finsight/backend/src/services"
	"github.com/username/finsight/backend/src/utils"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// HandleBuildPlan computes a fresh allocation plan from questionnaire
// answers. Malformed answers return 400 with the offending field named.
func (h *PlanHandler) HandleBuildPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var answers models.QuestionnaireAnswers
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.planService.BuildPlan(userID, answers)
	if err != nil {
		var vErr *advisor.ValidationError
		if errors.As(err, &vErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": vErr.Error(),
				"field": vErr.Field,
			})
			return
		}
		logger.L.Error("plan build failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to build plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

type tuneRequest struct {
	Class   models.AssetClass         `json:"class"`
	NewPct  float64                   `json:"newPct"`
	Current map[models.AssetClass]int `json:"current,omitempty"`
	Locked  []models.AssetClass       `json:"locked,omitempty"`
}

// HandleTunePlan applies a manual single-bucket adjustment on top of the
// user's latest plan, keeping locked classes fixed and the total at 100.
func (h *PlanHandler) HandleTunePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req tuneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, ok := h.planService.LatestPlan(userID)
	if !ok {
		utils.SendJSONError(w, "No plan built yet", http.StatusNotFound)
		return
	}

	result, err := advisor.TunePlan(plan, req.Current, req.Class, req.NewPct, req.Locked)
	if err != nil {
		var vErr *advisor.ValidationError
		if errors.As(err, &vErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": vErr.Error(),
				"field": vErr.Field,
			})
			return
		}
		logger.L.Error("plan tune failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to tune plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleGetPlan returns the most recently built plan for the user, with
// an ETag so unchanged plans answer 304.
func (h *PlanHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	plan, ok := h.planService.LatestPlan(userID)
	if !ok {
		utils.SendJSONError(w, "No plan built yet", http.StatusNotFound)
		return
	}

	etag, err := utils.GenerateETag(plan)
	if err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}
