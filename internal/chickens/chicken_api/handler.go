package chicken_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cooplog/internal/auth"
	"cooplog/internal/chickens/service"
	"cooplog/internal/logger"
	"cooplog/internal/models"
	"cooplog/internal/utils"
)

type Handler struct {
	ChickenService *service.ChickenService
	Logger         *logger.Logger
}

func NewHandler(chickenService *service.ChickenService, log *logger.Logger) *Handler {
	return &Handler{ChickenService: chickenService, Logger: log}
}

func (h *Handler) CreateChicken(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())
	if ownerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req models.ChickenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	chicken, err := h.ChickenService.CreateChicken(ownerID, req)
	if err != nil {
		h.writeError(w, "CreateChicken", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Chicken created", chicken))
}

func (h *Handler) GetChicken(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	chicken, err := h.ChickenService.GetChicken(chi.URLParam(r, "chickenId"), requesterID)
	if err != nil {
		h.writeError(w, "GetChicken", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Chicken found", chicken))
}

func (h *Handler) UpdateChicken(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req models.ChickenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	chicken, err := h.ChickenService.UpdateChicken(chi.URLParam(r, "chickenId"), requesterID, req)
	if err != nil {
		h.writeError(w, "UpdateChicken", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Chicken updated", chicken))
}

func (h *Handler) DeleteChicken(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.ChickenService.DeleteChicken(chi.URLParam(r, "chickenId"), requesterID); err != nil {
		h.writeError(w, "DeleteChicken", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListChickens(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())
	if ownerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	chickens, err := h.ChickenService.ListChickens(ownerID)
	if err != nil {
		h.writeError(w, "ListChickens", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Chickens listed", chickens))
}

// writeError applies this endpoint family's anti-enumeration policy: a
// chicken that exists under another owner is indistinguishable from one
// that does not exist at all.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrChickenNotFound):
		h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Chicken not found", "NotFound"))
	case errors.Is(err, service.ErrNameRequired):
		h.writeJSON(w, http.StatusBadRequest, utils.ValidationErrorResponse(err.Error(), []utils.FieldDetail{
			{Field: "name", Message: "Name is required"},
		}))
	case errors.Is(err, service.ErrInvalidHatchDate):
		h.writeJSON(w, http.StatusBadRequest, utils.ValidationErrorResponse(err.Error(), []utils.FieldDetail{
			{Field: "hatch_date", Message: "Hatch date must be a valid calendar date"},
		}))
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Something went wrong", "internal"))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
