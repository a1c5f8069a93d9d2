package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"cooplog/internal/models"
)

// ErrDuplicateDate is returned when an insert or update collides with the
// (owner_id, date) unique index. The store relies on the database to
// serialize concurrent writes; exactly one wins, the rest observe this.
var ErrDuplicateDate = errors.New("duplicate production entry for this date")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateRecord(record models.EggProductionRecord) error {
	_, err := d.Bun.NewInsert().Model(&record).Exec(context.Background())
	if isUniqueViolation(err) {
		return ErrDuplicateDate
	}
	return err
}

func (d *DB) GetRecordByID(id string) (*models.EggProductionRecord, error) {
	var record models.EggProductionRecord
	err := d.Bun.NewSelect().
		Model(&record).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateRecord rewrites the mutable columns only; created_at never changes
// after insert.
func (d *DB) UpdateRecord(record models.EggProductionRecord) error {
	_, err := d.Bun.NewUpdate().
		Model(&record).
		Column("date", "count", "updated_at").
		Where("id = ?", record.ID).
		Exec(context.Background())
	if isUniqueViolation(err) {
		return ErrDuplicateDate
	}
	return err
}

func (d *DB) DeleteRecord(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.EggProductionRecord)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// ListRecordsByOwner returns the owner's records, optionally restricted to
// an inclusive [from, to] date range, newest date first.
func (d *DB) ListRecordsByOwner(ownerID string, from, to *time.Time) ([]models.EggProductionRecord, error) {
	var records []models.EggProductionRecord
	q := d.Bun.NewSelect().
		Model(&records).
		Where("owner_id = ?", ownerID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	err := q.Order("date DESC").Scan(context.Background())
	return records, err
}

// ListRecordsSince returns the owner's records dated on or after since.
// The boundary is inclusive: a record dated exactly on since is returned.
func (d *DB) ListRecordsSince(ownerID string, since time.Time) ([]models.EggProductionRecord, error) {
	var records []models.EggProductionRecord
	err := d.Bun.NewSelect().
		Model(&records).
		Where("owner_id = ?", ownerID).
		Where("date >= ?", since).
		Scan(context.Background())
	return records, err
}

// DeleteRecordsByOwner removes every record the owner has. Used by the
// account cascade.
func (d *DB) DeleteRecordsByOwner(ownerID string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.EggProductionRecord)(nil)).
		Where("owner_id = ?", ownerID).
		Exec(context.Background())
	return err
}

// isUniqueViolation recognizes the constraint error of both runtime
// backends: Postgres class 23505 in production, SQLite's message in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
