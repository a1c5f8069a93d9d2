package production_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cooplog/internal/auth"
	"cooplog/internal/logger"
	"cooplog/internal/models"
	"cooplog/internal/production/service"
	"cooplog/internal/production/validate"
	"cooplog/internal/utils"
)

type Handler struct {
	ProductionService *service.ProductionService
	Logger            *logger.Logger
}

func NewHandler(productionService *service.ProductionService, log *logger.Logger) *Handler {
	return &Handler{ProductionService: productionService, Logger: log}
}

// LogProduction creates a record for the authenticated owner.
func (h *Handler) LogProduction(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())
	if ownerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req models.ProductionEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.ProductionService.LogProduction(ownerID, req)
	if err != nil {
		h.writeDomainError(w, "LogProduction", err)
		return
	}

	h.Logger.LogRecord("CREATE", record.ID, fmt.Sprintf("owner=%s date=%s count=%d", ownerID, record.Date.Format(utils.DateLayout), record.Count))
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Production entry created", record))
}

// ValidateEntry runs the rule set without persisting anything. This is the
// pre-submission placement of the same rules the create/update path
// enforces, so the two verdicts always agree.
func (h *Handler) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.ProductionEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, verrs := validate.ProductionEntry(req.Date, req.Count, time.Now()); len(verrs) > 0 {
		h.writeJSON(w, http.StatusOK, utils.ValidationErrorResponse("Entry is not valid", fieldDetails(verrs)))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Entry is valid", nil))
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	recordID := chi.URLParam(r, "recordId")
	record, err := h.ProductionService.GetRecord(recordID, requesterID)
	if err != nil {
		h.writeDomainError(w, "GetRecord", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Record found", record))
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	recordID := chi.URLParam(r, "recordId")
	var req models.ProductionEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.ProductionService.UpdateRecord(recordID, requesterID, req)
	if err != nil {
		h.writeDomainError(w, "UpdateRecord", err)
		return
	}

	h.Logger.LogRecord("UPDATE", record.ID, fmt.Sprintf("date=%s count=%d", record.Date.Format(utils.DateLayout), record.Count))
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Production entry updated", record))
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserID(r.Context())
	if requesterID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	recordID := chi.URLParam(r, "recordId")
	if err := h.ProductionService.DeleteRecord(recordID, requesterID); err != nil {
		h.writeDomainError(w, "DeleteRecord", err)
		return
	}

	h.Logger.LogRecord("DELETE", recordID, "record removed")
	w.WriteHeader(http.StatusNoContent)
}

// ListRecords returns the owner's records, optionally limited to an
// inclusive ?from=YYYY-MM-DD&to=YYYY-MM-DD range.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())
	if ownerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			http.Error(w, "Invalid 'from' date", http.StatusBadRequest)
			return
		}
		from = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			http.Error(w, "Invalid 'to' date", http.StatusBadRequest)
			return
		}
		to = &parsed
	}

	records, err := h.ProductionService.ListRecords(ownerID, from, to)
	if err != nil {
		h.writeDomainError(w, "ListRecords", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Records listed", records))
}

// MonthlySummary returns the trailing six-month aggregate list, most
// recent month first.
func (h *Handler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())
	if ownerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	summary, err := h.ProductionService.MonthlySummary(ownerID, time.Now())
	if err != nil {
		h.writeDomainError(w, "MonthlySummary", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Monthly summary", summary))
}

// writeDomainError maps domain error kinds to transport status codes.
// Unexpected failures are logged server-side and answered with a generic
// 500 body; no storage detail leaks to the caller.
func (h *Handler) writeDomainError(w http.ResponseWriter, op string, err error) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, utils.ValidationErrorResponse("Entry is not valid", fieldDetails(verrs)))
		return
	}

	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case service.KindDuplicateDateEntry:
			h.writeJSON(w, http.StatusBadRequest, utils.ValidationErrorResponse(domainErr.Message, []utils.FieldDetail{
				{Field: validate.FieldDate, Message: domainErr.Message},
			}))
		case service.KindNotFound:
			h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse(domainErr.Message, domainErr.Kind))
		case service.KindForbidden:
			h.writeJSON(w, http.StatusForbidden, utils.ErrorResponse(domainErr.Message, domainErr.Kind))
		default:
			h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Something went wrong", "internal"))
		}
		return
	}

	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Something went wrong", "internal"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

func fieldDetails(verrs validate.Errors) []utils.FieldDetail {
	details := make([]utils.FieldDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, utils.FieldDetail{Field: fe.Field, Message: fe.Message})
	}
	return details
}
