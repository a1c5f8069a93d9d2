package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Chicken is a profile record for one bird. Photo binaries live outside
// this service; only the public URL is stored here.
type Chicken struct {
	bun.BaseModel `bun:"table:chickens"`

	ID        string    `bun:"id,pk" json:"id"`
	OwnerID   string    `bun:"owner_id,notnull" json:"owner_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Breed     string    `bun:"breed,nullzero" json:"breed,omitempty"`
	HatchDate time.Time `bun:"hatch_date,nullzero" json:"hatch_date,omitempty"`
	PhotoURL  string    `bun:"photo_url,nullzero" json:"photo_url,omitempty"`
	Notes     string    `bun:"notes,nullzero" json:"notes,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

type ChickenRequest struct {
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	HatchDate string `json:"hatch_date"`
	PhotoURL  string `json:"photo_url"`
	Notes     string `json:"notes"`
}
