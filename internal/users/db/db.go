package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"cooplog/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateUser(user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(context.Background())
	return err
}

func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) UserExists(id string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exists(context.Background())
}

// DeleteUserCascade removes the user and everything they own in one
// transaction, so a failure partway through leaves no orphaned records.
func (d *DB) DeleteUserCascade(userID string) error {
	return d.Bun.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.EggProductionRecord)(nil)).
			Where("owner_id = ?", userID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Chicken)(nil)).
			Where("owner_id = ?", userID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.User)(nil)).
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
}
