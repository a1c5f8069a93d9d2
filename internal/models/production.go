package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EggProductionRecord is one day's egg count for one owner. The composite
// unique group enforces at most one record per (owner_id, date); a stored
// count of zero means "recorded as zero", which is not the same as no row.
type EggProductionRecord struct {
	bun.BaseModel `bun:"table:egg_production_records"`

	ID        string    `bun:"id,pk" json:"id"`
	OwnerID   string    `bun:"owner_id,notnull,unique:owner_date" json:"owner_id"`
	Date      time.Time `bun:"date,notnull,unique:owner_date" json:"date"`
	Count     int       `bun:"count,notnull" json:"count"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// ProductionEntryRequest is the raw form/API input before validation.
// Count arrives as a JSON number so fractional submissions can be rejected
// instead of silently truncated.
type ProductionEntryRequest struct {
	Date  string  `json:"date"`
	Count float64 `json:"count"`
}

// MonthlyAggregate is derived on demand from the record set and never
// persisted; it can always be rebuilt from raw records.
type MonthlyAggregate struct {
	MonthKey     string `json:"month_key"`
	TotalCount   int    `json:"total_count"`
	DaysRecorded int    `json:"days_recorded"`
}

// ProductionEvent is the activity-stream payload published after a
// successful mutation.
type ProductionEvent struct {
	Action   string    `json:"action"`
	RecordID string    `json:"record_id"`
	OwnerID  string    `json:"owner_id"`
	Date     string    `json:"date"`
	Count    int       `json:"count"`
	At       time.Time `json:"at"`
}
