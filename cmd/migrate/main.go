// Command migrate rebuilds the development database from scratch: drop,
// create, seed. It is destructive and meant for local setups only; the
// service itself applies versioned migrations on startup.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"cooplog/internal/config"
	"cooplog/internal/models"
	"cooplog/internal/utils"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	// Drop tables in reverse dependency order
	log.Println("Dropping tables...")
	dropTables(ctx, db)

	log.Println("Creating tables...")
	createTables(ctx, db)

	log.Println("Seeding sample data...")
	seedData(ctx, db)

	log.Println("Done.")
}

func dropTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.EggProductionRecord)(nil),
		(*models.Chicken)(nil),
		(*models.User)(nil),
	}
	for _, m := range tables {
		_, _ = db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx)
	}
}

func createTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Chicken)(nil),
		(*models.EggProductionRecord)(nil),
	}
	for _, m := range tables {
		_, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx)
		if err != nil {
			log.Fatalf("Failed to create table for %T: %v", m, err)
		}
	}
}

func seedData(ctx context.Context, db *bun.DB) {
	now := time.Now()
	today := utils.DateOnly(now)

	users := []models.User{
		{ID: "user001", Email: "alice@example.com", FullName: "Alice Henderson", CreatedAt: now},
		{ID: "user002", Email: "bob@example.com", FullName: "Bob Roosterman", CreatedAt: now},
	}
	_, _ = db.NewInsert().Model(&users).Exec(ctx)

	chickens := []models.Chicken{
		{ID: "chick001", OwnerID: "user001", Name: "Henrietta", Breed: "Rhode Island Red", HatchDate: today.AddDate(-1, 0, 0), CreatedAt: now, UpdatedAt: now},
		{ID: "chick002", OwnerID: "user001", Name: "Clucky", Breed: "Leghorn", HatchDate: today.AddDate(0, -8, 0), CreatedAt: now, UpdatedAt: now},
	}
	_, _ = db.NewInsert().Model(&chickens).Exec(ctx)

	records := []models.EggProductionRecord{
		{ID: "rec001", OwnerID: "user001", Date: today.AddDate(0, 0, -2), Count: 5, CreatedAt: now, UpdatedAt: now},
		{ID: "rec002", OwnerID: "user001", Date: today.AddDate(0, 0, -1), Count: 7, CreatedAt: now, UpdatedAt: now},
		{ID: "rec003", OwnerID: "user002", Date: today.AddDate(0, 0, -1), Count: 3, CreatedAt: now, UpdatedAt: now},
	}
	_, _ = db.NewInsert().Model(&records).Exec(ctx)
}
