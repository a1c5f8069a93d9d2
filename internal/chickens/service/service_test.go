package service_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cooplog/internal/chickens/service"
	"cooplog/internal/models"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateChicken(chicken models.Chicken) error {
	args := m.Called(chicken)
	return args.Error(0)
}

func (m *MockDBLayer) GetChickenByID(id string) (*models.Chicken, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chicken), args.Error(1)
}

func (m *MockDBLayer) UpdateChicken(chicken models.Chicken) error {
	args := m.Called(chicken)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteChicken(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDBLayer) ListChickensByOwner(ownerID string) ([]models.Chicken, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chicken), args.Error(1)
}

func TestCreateChicken(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("CreateChicken", mock.AnythingOfType("models.Chicken")).Return(nil)

	chicken, err := svc.CreateChicken("owner-1", models.ChickenRequest{
		Name:      "  Henrietta ",
		Breed:     "Rhode Island Red",
		HatchDate: "2024-03-15",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, chicken.ID)
	assert.Equal(t, "Henrietta", chicken.Name, "name should be trimmed")
	assert.Equal(t, "owner-1", chicken.OwnerID)
	mockDB.AssertExpectations(t)
}

func TestCreateChickenRequiresName(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	_, err := svc.CreateChicken("owner-1", models.ChickenRequest{Name: "   "})

	assert.ErrorIs(t, err, service.ErrNameRequired)
	mockDB.AssertNotCalled(t, "CreateChicken", mock.Anything)
}

func TestCreateChickenRejectsBadHatchDate(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	_, err := svc.CreateChicken("owner-1", models.ChickenRequest{
		Name:      "Clucky",
		HatchDate: "last spring",
	})

	assert.ErrorIs(t, err, service.ErrInvalidHatchDate)
}

func TestGetChickenMissingIsNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("GetChickenByID", "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.GetChicken("missing", "owner-1")
	assert.ErrorIs(t, err, service.ErrChickenNotFound)
}

func TestGetChickenForeignOwnerCollapsesToNotFound(t *testing.T) {
	// A chicken owned by someone else answers exactly like a missing id, so
	// ids cannot be probed for existence.
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("GetChickenByID", "chick-1").Return(&models.Chicken{
		ID:      "chick-1",
		OwnerID: "owner-1",
		Name:    "Henrietta",
	}, nil)

	_, err := svc.GetChicken("chick-1", "owner-2")
	assert.ErrorIs(t, err, service.ErrChickenNotFound)
}

func TestDeleteChickenForeignOwner(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("GetChickenByID", "chick-1").Return(&models.Chicken{
		ID:      "chick-1",
		OwnerID: "owner-1",
	}, nil)

	err := svc.DeleteChicken("chick-1", "owner-2")
	assert.ErrorIs(t, err, service.ErrChickenNotFound)
	mockDB.AssertNotCalled(t, "DeleteChicken", mock.Anything)
}

func TestUpdateChickenRewritesProfile(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("GetChickenByID", "chick-1").Return(&models.Chicken{
		ID:      "chick-1",
		OwnerID: "owner-1",
		Name:    "Henrietta",
	}, nil)
	mockDB.On("UpdateChicken", mock.AnythingOfType("models.Chicken")).Return(nil)

	updated, err := svc.UpdateChicken("chick-1", "owner-1", models.ChickenRequest{
		Name:  "Clucky",
		Notes: "moved to the new coop",
	})

	require.NoError(t, err)
	assert.Equal(t, "chick-1", updated.ID)
	assert.Equal(t, "Clucky", updated.Name)
	assert.Equal(t, "moved to the new coop", updated.Notes)
	mockDB.AssertExpectations(t)
}

func TestListChickens(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := service.NewChickenService(mockDB)

	mockDB.On("ListChickensByOwner", "owner-1").Return([]models.Chicken{
		{ID: "chick-1", OwnerID: "owner-1", Name: "Clucky"},
		{ID: "chick-2", OwnerID: "owner-1", Name: "Henrietta"},
	}, nil)

	chickens, err := svc.ListChickens("owner-1")
	require.NoError(t, err)
	assert.Len(t, chickens, 2)
}
