package db

import (
	"context"

	"github.com/uptrace/bun"

	"cooplog/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateChicken(chicken models.Chicken) error {
	_, err := d.Bun.NewInsert().Model(&chicken).Exec(context.Background())
	return err
}

func (d *DB) GetChickenByID(id string) (*models.Chicken, error) {
	var chicken models.Chicken
	err := d.Bun.NewSelect().
		Model(&chicken).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &chicken, nil
}

func (d *DB) UpdateChicken(chicken models.Chicken) error {
	_, err := d.Bun.NewUpdate().
		Model(&chicken).
		Column("name", "breed", "hatch_date", "photo_url", "notes", "updated_at").
		Where("id = ?", chicken.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteChicken(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Chicken)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ListChickensByOwner(ownerID string) ([]models.Chicken, error) {
	var chickens []models.Chicken
	err := d.Bun.NewSelect().
		Model(&chickens).
		Where("owner_id = ?", ownerID).
		Order("name").
		Scan(context.Background())
	return chickens, err
}

// DeleteChickensByOwner removes every chicken the owner has. Used by the
// account cascade.
func (d *DB) DeleteChickensByOwner(ownerID string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Chicken)(nil)).
		Where("owner_id = ?", ownerID).
		Exec(context.Background())
	return err
}
