package user_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cooplog/internal/auth"
	"cooplog/internal/logger"
	"cooplog/internal/utils"
)

type UserDBLayer interface {
	DeleteUserCascade(userID string) error
}

type Handler struct {
	UserDB UserDBLayer
	Logger *logger.Logger
}

func NewHandler(userDB UserDBLayer, log *logger.Logger) *Handler {
	return &Handler{UserDB: userDB, Logger: log}
}

// DeleteAccount removes the authenticated user together with all of their
// production records and chicken profiles, atomically.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.UserDB.DeleteUserCascade(userID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteAccount: cascade failed for user %s: %v", userID, err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(utils.ErrorResponse("Something went wrong", "internal"))
		return
	}

	h.Logger.Info("API", fmt.Sprintf("DeleteAccount: user %s and owned data removed", userID))
	w.WriteHeader(http.StatusNoContent)
}
