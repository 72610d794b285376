package repositories_test

import (
	"context"
	"testing"

	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/repositories"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{Username: username, Password: "x", Role: "User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func TestTaskRepository_AddAssignsID(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	user := seedUser(t, db, "u1")

	task := models.Task{Title: "t", AssignedUserID: user.ID}
	if err := repo.Add(context.Background(), &task); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if task.ID == 0 {
		t.Error("Expected the store to assign an id")
	}
}

func TestTaskRepository_GetByID_AbsentIsNilNil(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)

	task, err := repo.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Expected no error for absent task, got %v", err)
	}
	if task != nil {
		t.Error("Expected nil task for absent id")
	}
}

func TestTaskRepository_GetByID_PreloadsAssignee(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	user := seedUser(t, db, "u1")

	task := models.Task{Title: "t", AssignedUserID: user.ID}
	if err := repo.Add(context.Background(), &task); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	loaded, err := repo.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded == nil || loaded.AssignedUser == nil {
		t.Fatal("Expected the assignee to be preloaded")
	}
	if loaded.AssignedUser.Username != "u1" {
		t.Errorf("Expected assignee 'u1', got %q", loaded.AssignedUser.Username)
	}
}

func TestTaskRepository_GetByUserID_FiltersByAssignee(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	for _, task := range []models.Task{
		{Title: "a1", AssignedUserID: alice.ID},
		{Title: "a2", AssignedUserID: alice.ID},
		{Title: "b1", AssignedUserID: bob.ID},
	} {
		task := task
		if err := repo.Add(context.Background(), &task); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	tasks, err := repo.GetByUserID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks for alice, got %d", len(tasks))
	}

	tasks, err = repo.GetByUserID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByUserID failed for absent user: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected empty slice for absent user, got %d", len(tasks))
	}
}

func TestTaskRepository_UpdateWritesAllColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	user := seedUser(t, db, "u1")

	task := models.Task{Title: "old", Description: "old", Status: "pending", AssignedUserID: user.ID}
	if err := repo.Add(context.Background(), &task); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	task.Title = "new"
	task.Status = "Completed"
	if err := repo.Update(context.Background(), &task); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	loaded, err := repo.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.Title != "new" || loaded.Status != "Completed" {
		t.Errorf("Expected updated columns to persist, got %+v", loaded)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	user := seedUser(t, db, "u1")

	task := models.Task{Title: "t", AssignedUserID: user.ID}
	if err := repo.Add(context.Background(), &task); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := repo.Delete(context.Background(), &task); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	loaded, err := repo.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected task to be gone after delete")
	}
}

func TestTaskRepository_GetAll(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	user := seedUser(t, db, "u1")

	tasks, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected empty store, got %d tasks", len(tasks))
	}

	for i := 0; i < 3; i++ {
		task := models.Task{Title: "t", AssignedUserID: user.ID}
		if err := repo.Add(context.Background(), &task); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	tasks, err = repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(tasks))
	}
}
