package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cooplog/internal/models"
	"cooplog/internal/utils"
)

// ErrChickenNotFound covers both a missing id and a chicken owned by
// someone else. Unlike the production API, this endpoint family collapses
// 403 into 404 so chicken ids cannot be enumerated from the edit page.
var ErrChickenNotFound = errors.New("chicken not found")

// ErrNameRequired rejects profiles without a name.
var ErrNameRequired = errors.New("chicken name is required")

// ErrInvalidHatchDate rejects a hatch date that is not a calendar date.
var ErrInvalidHatchDate = errors.New("hatch date must be a valid calendar date")

type DBLayer interface {
	CreateChicken(chicken models.Chicken) error
	GetChickenByID(id string) (*models.Chicken, error)
	UpdateChicken(chicken models.Chicken) error
	DeleteChicken(id string) error
	ListChickensByOwner(ownerID string) ([]models.Chicken, error)
}

type ChickenService struct {
	DB DBLayer
}

func NewChickenService(dbLayer DBLayer) *ChickenService {
	return &ChickenService{DB: dbLayer}
}

func (s *ChickenService) CreateChicken(ownerID string, req models.ChickenRequest) (*models.Chicken, error) {
	chicken, err := buildChicken(ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.DB.CreateChicken(*chicken); err != nil {
		return nil, fmt.Errorf("failed to create chicken: %w", err)
	}
	return chicken, nil
}

// GetChicken loads a profile for the requester. Foreign ownership answers
// the same not-found as a missing id.
func (s *ChickenService) GetChicken(id, requesterID string) (*models.Chicken, error) {
	chicken, err := s.DB.GetChickenByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChickenNotFound
		}
		return nil, fmt.Errorf("failed to load chicken %s: %w", id, err)
	}
	if chicken.OwnerID != requesterID {
		return nil, ErrChickenNotFound
	}
	return chicken, nil
}

func (s *ChickenService) UpdateChicken(id, requesterID string, req models.ChickenRequest) (*models.Chicken, error) {
	chicken, err := s.GetChicken(id, requesterID)
	if err != nil {
		return nil, err
	}

	updated, err := buildChicken(requesterID, req)
	if err != nil {
		return nil, err
	}
	chicken.Name = updated.Name
	chicken.Breed = updated.Breed
	chicken.HatchDate = updated.HatchDate
	chicken.PhotoURL = updated.PhotoURL
	chicken.Notes = updated.Notes
	chicken.UpdatedAt = time.Now()

	if err := s.DB.UpdateChicken(*chicken); err != nil {
		return nil, fmt.Errorf("failed to update chicken %s: %w", id, err)
	}
	return chicken, nil
}

func (s *ChickenService) DeleteChicken(id, requesterID string) error {
	if _, err := s.GetChicken(id, requesterID); err != nil {
		return err
	}
	if err := s.DB.DeleteChicken(id); err != nil {
		return fmt.Errorf("failed to delete chicken %s: %w", id, err)
	}
	return nil
}

func (s *ChickenService) ListChickens(ownerID string) ([]models.Chicken, error) {
	chickens, err := s.DB.ListChickensByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chickens: %w", err)
	}
	return chickens, nil
}

func buildChicken(ownerID string, req models.ChickenRequest) (*models.Chicken, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	var hatchDate time.Time
	if req.HatchDate != "" {
		parsed, err := utils.ParseDate(req.HatchDate)
		if err != nil {
			return nil, ErrInvalidHatchDate
		}
		hatchDate = parsed
	}

	now := time.Now()
	return &models.Chicken{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Name),
		Breed:     req.Breed,
		HatchDate: hatchDate,
		PhotoURL:  req.PhotoURL,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
