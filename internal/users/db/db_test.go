package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"cooplog/internal/models"
	"cooplog/internal/users/db"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	err = bunDB.ResetModel(context.Background(),
		(*models.User)(nil),
		(*models.Chicken)(nil),
		(*models.EggProductionRecord)(nil))
	if err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}

	return &db.DB{Bun: bunDB}
}

func seedOwnerWithData(t *testing.T, store *db.DB, userID string) {
	now := time.Now().Round(time.Second)

	err := store.CreateUser(models.User{
		ID:        userID,
		Email:     userID + "@example.com",
		FullName:  "Test User",
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", userID, err)
	}

	chicken := models.Chicken{
		ID:        userID + "-chick",
		OwnerID:   userID,
		Name:      "Henrietta",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := store.Bun.NewInsert().Model(&chicken).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to create chicken: %v", err)
	}

	record := models.EggProductionRecord{
		ID:        userID + "-rec",
		OwnerID:   userID,
		Date:      now.AddDate(0, 0, -1),
		Count:     5,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := store.Bun.NewInsert().Model(&record).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to create record: %v", err)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	store := setupTestDB(t)

	user := models.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		FullName:  "Alice Henderson",
		CreatedAt: time.Now().Round(time.Second),
	}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	retrieved, err := store.GetUserByID("user-1")
	if err != nil {
		t.Fatalf("Failed to retrieve user: %v", err)
	}
	if retrieved.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, retrieved.Email)
	}
}

func TestUserExists(t *testing.T) {
	store := setupTestDB(t)

	exists, err := store.UserExists("nobody")
	if err != nil {
		t.Fatalf("Failed to check user existence: %v", err)
	}
	if exists {
		t.Error("Expected user to not exist")
	}

	seedOwnerWithData(t, store, "user-1")

	exists, err = store.UserExists("user-1")
	if err != nil {
		t.Fatalf("Failed to check user existence: %v", err)
	}
	if !exists {
		t.Error("Expected user to exist")
	}
}

func TestDeleteUserCascade(t *testing.T) {
	store := setupTestDB(t)

	seedOwnerWithData(t, store, "user-1")
	seedOwnerWithData(t, store, "user-2")

	if err := store.DeleteUserCascade("user-1"); err != nil {
		t.Fatalf("Failed to cascade delete: %v", err)
	}

	// The user row and everything owned by it must be gone.
	exists, err := store.UserExists("user-1")
	if err != nil {
		t.Fatalf("Failed to check user existence: %v", err)
	}
	if exists {
		t.Error("Expected user-1 to be deleted")
	}

	ctx := context.Background()
	chickenCount, err := store.Bun.NewSelect().
		Model((*models.Chicken)(nil)).
		Where("owner_id = ?", "user-1").
		Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count chickens: %v", err)
	}
	if chickenCount != 0 {
		t.Errorf("Expected no chickens for user-1, got %d", chickenCount)
	}

	recordCount, err := store.Bun.NewSelect().
		Model((*models.EggProductionRecord)(nil)).
		Where("owner_id = ?", "user-1").
		Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if recordCount != 0 {
		t.Errorf("Expected no records for user-1, got %d", recordCount)
	}

	// The other user's data is untouched.
	exists, err = store.UserExists("user-2")
	if err != nil {
		t.Fatalf("Failed to check user existence: %v", err)
	}
	if !exists {
		t.Error("Expected user-2 to survive the cascade")
	}

	otherRecords, err := store.Bun.NewSelect().
		Model((*models.EggProductionRecord)(nil)).
		Where("owner_id = ?", "user-2").
		Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if otherRecords != 1 {
		t.Errorf("Expected 1 record for user-2, got %d", otherRecords)
	}
}
