package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cooplog/internal/models"
	"cooplog/internal/production/db"
	"cooplog/internal/production/validate"
)

type DBLayer interface {
	CreateRecord(record models.EggProductionRecord) error
	GetRecordByID(id string) (*models.EggProductionRecord, error)
	UpdateRecord(record models.EggProductionRecord) error
	DeleteRecord(id string) error
	ListRecordsByOwner(ownerID string, from, to *time.Time) ([]models.EggProductionRecord, error)
	ListRecordsSince(ownerID string, since time.Time) ([]models.EggProductionRecord, error)
}

type EventPublisher interface {
	PublishRecordCreated(record models.EggProductionRecord) error
	PublishRecordUpdated(record models.EggProductionRecord) error
	PublishRecordDeleted(record models.EggProductionRecord) error
}

type ProductionService struct {
	DB     DBLayer
	Events EventPublisher
}

func NewProductionService(dbLayer DBLayer, events EventPublisher) *ProductionService {
	return &ProductionService{DB: dbLayer, Events: events}
}

// LogProduction validates the raw input, then inserts a new record for the
// owner. A collision on (owner, date) surfaces as ErrDuplicateDateEntry;
// validation failures come back as the collected validate.Errors list.
func (s *ProductionService) LogProduction(ownerID string, req models.ProductionEntryRequest) (*models.EggProductionRecord, error) {
	entry, verrs := validate.ProductionEntry(req.Date, req.Count, time.Now())
	if len(verrs) > 0 {
		return nil, verrs
	}

	now := time.Now()
	record := models.EggProductionRecord{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Date:      entry.Date,
		Count:     entry.Count,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.DB.CreateRecord(record); err != nil {
		if errors.Is(err, db.ErrDuplicateDate) {
			return nil, ErrDuplicateDateEntry
		}
		return nil, fmt.Errorf("failed to create production record: %w", err)
	}

	s.publish(func() error { return s.Events.PublishRecordCreated(record) }, "created", record.ID)
	return &record, nil
}

// GetRecord loads one record for the requester. Missing ids answer
// NotFound; records owned by someone else answer Forbidden — this API
// exposes ownership explicitly rather than collapsing 403 into 404.
func (s *ProductionService) GetRecord(id, requesterID string) (*models.EggProductionRecord, error) {
	record, err := s.DB.GetRecordByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	if record.OwnerID != requesterID {
		return nil, ErrForbidden
	}
	return record, nil
}

// UpdateRecord re-validates the new (date, count) and rewrites the record.
// Moving the record onto a date that already has an entry for the same
// owner fails with ErrDuplicateDateEntry. created_at is never touched;
// updated_at is refreshed.
func (s *ProductionService) UpdateRecord(id, requesterID string, req models.ProductionEntryRequest) (*models.EggProductionRecord, error) {
	record, err := s.GetRecord(id, requesterID)
	if err != nil {
		return nil, err
	}

	entry, verrs := validate.ProductionEntry(req.Date, req.Count, time.Now())
	if len(verrs) > 0 {
		return nil, verrs
	}

	record.Date = entry.Date
	record.Count = entry.Count
	record.UpdatedAt = time.Now()

	if err := s.DB.UpdateRecord(*record); err != nil {
		if errors.Is(err, db.ErrDuplicateDate) {
			return nil, ErrDuplicateDateEntry
		}
		return nil, fmt.Errorf("failed to update record %s: %w", id, err)
	}

	s.publish(func() error { return s.Events.PublishRecordUpdated(*record) }, "updated", record.ID)
	return record, nil
}

// DeleteRecord removes the record permanently after the same existence and
// ownership checks as UpdateRecord. No soft delete.
func (s *ProductionService) DeleteRecord(id, requesterID string) error {
	record, err := s.GetRecord(id, requesterID)
	if err != nil {
		return err
	}

	if err := s.DB.DeleteRecord(id); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}

	s.publish(func() error { return s.Events.PublishRecordDeleted(*record) }, "deleted", record.ID)
	return nil
}

// ListRecords returns the owner's records, optionally limited to an
// inclusive date range, newest first.
func (s *ProductionService) ListRecords(ownerID string, from, to *time.Time) ([]models.EggProductionRecord, error) {
	records, err := s.DB.ListRecordsByOwner(ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// MonthlySummary fetches the trailing-window records and aggregates them.
// The result is recomputed on every call; nothing is cached or persisted.
func (s *ProductionService) MonthlySummary(ownerID string, now time.Time) ([]models.MonthlyAggregate, error) {
	records, err := s.DB.ListRecordsSince(ownerID, WindowStart(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load window records: %w", err)
	}
	return SummarizeMonthly(records), nil
}

// publish sends an activity event best-effort. A broker failure is logged
// and never fails the request; there is no retry.
func (s *ProductionService) publish(fn func() error, action, recordID string) {
	if s.Events == nil {
		return
	}
	if err := fn(); err != nil {
		fmt.Printf("Kafka publish error (record %s %s): %v\n", recordID, action, err)
	}
}
