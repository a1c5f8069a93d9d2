package production_api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cooplog/internal/auth"
	"cooplog/internal/logger"
	"cooplog/internal/models"
	"cooplog/internal/production/db"
	"cooplog/internal/production/production_api"
	"cooplog/internal/production/service"
	"cooplog/internal/utils"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateRecord(record models.EggProductionRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockDBLayer) GetRecordByID(id string) (*models.EggProductionRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EggProductionRecord), args.Error(1)
}

func (m *MockDBLayer) UpdateRecord(record models.EggProductionRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteRecord(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDBLayer) ListRecordsByOwner(ownerID string, from, to *time.Time) ([]models.EggProductionRecord, error) {
	args := m.Called(ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EggProductionRecord), args.Error(1)
}

func (m *MockDBLayer) ListRecordsSince(ownerID string, since time.Time) ([]models.EggProductionRecord, error) {
	args := m.Called(ownerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EggProductionRecord), args.Error(1)
}

func newTestRouter(mockDB *MockDBLayer) chi.Router {
	svc := service.NewProductionService(mockDB, nil)
	handler := production_api.NewHandler(svc, logger.NewLogger())

	r := chi.NewRouter()
	r.Post("/api/production", handler.LogProduction)
	r.Post("/api/production/validate", handler.ValidateEntry)
	r.Get("/api/production/{recordId}", handler.GetRecord)
	r.Put("/api/production/{recordId}", handler.UpdateRecord)
	r.Delete("/api/production/{recordId}", handler.DeleteRecord)
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func yesterday() string {
	return time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
}

func TestLogProductionEndpointCreates(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreateRecord", mock.AnythingOfType("models.EggProductionRecord")).Return(nil)
	router := newTestRouter(mockDB)

	rec := doRequest(t, router, http.MethodPost, "/api/production", "owner-1",
		models.ProductionEntryRequest{Date: yesterday(), Count: 12})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestLogProductionEndpointRequiresAuth(t *testing.T) {
	router := newTestRouter(new(MockDBLayer))

	rec := doRequest(t, router, http.MethodPost, "/api/production", "",
		models.ProductionEntryRequest{Date: yesterday(), Count: 12})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogProductionEndpointValidation(t *testing.T) {
	router := newTestRouter(new(MockDBLayer))

	rec := doRequest(t, router, http.MethodPost, "/api/production", "owner-1",
		models.ProductionEntryRequest{Date: yesterday(), Count: 2.5})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "count", resp.Details[0].Field)
	assert.Equal(t, "Count must be a whole number", resp.Details[0].Message)
}

func TestLogProductionEndpointDuplicateDate(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreateRecord", mock.AnythingOfType("models.EggProductionRecord")).Return(db.ErrDuplicateDate)
	router := newTestRouter(mockDB)

	rec := doRequest(t, router, http.MethodPost, "/api/production", "owner-1",
		models.ProductionEntryRequest{Date: yesterday(), Count: 4})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "date", resp.Details[0].Field)
}

func TestValidateEndpointMirrorsCreateRules(t *testing.T) {
	router := newTestRouter(new(MockDBLayer))

	// Invalid entry: verdict delivered with 200, violations in details.
	rec := doRequest(t, router, http.MethodPost, "/api/production/validate", "owner-1",
		models.ProductionEntryRequest{Date: "3000-01-01", Count: -1.5})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Len(t, resp.Details, 3)

	// Valid entry.
	rec = doRequest(t, router, http.MethodPost, "/api/production/validate", "owner-1",
		models.ProductionEntryRequest{Date: yesterday(), Count: 8})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestGetRecordEndpointNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetRecordByID", "missing").Return(nil, sql.ErrNoRows)
	router := newTestRouter(mockDB)

	rec := doRequest(t, router, http.MethodGet, "/api/production/missing", "owner-1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecordEndpointForbidden(t *testing.T) {
	// The production API answers foreign ownership with an explicit 403;
	// it does not hide the record's existence.
	mockDB := new(MockDBLayer)
	mockDB.On("GetRecordByID", "rec-1").Return(&models.EggProductionRecord{
		ID:      "rec-1",
		OwnerID: "owner-1",
	}, nil)
	router := newTestRouter(mockDB)

	rec := doRequest(t, router, http.MethodGet, "/api/production/rec-1", "owner-2", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteRecordEndpoint(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetRecordByID", "rec-1").Return(&models.EggProductionRecord{
		ID:      "rec-1",
		OwnerID: "owner-1",
	}, nil)
	mockDB.On("DeleteRecord", "rec-1").Return(nil)
	router := newTestRouter(mockDB)

	rec := doRequest(t, router, http.MethodDelete, "/api/production/rec-1", "owner-1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockDB.AssertExpectations(t)
}
