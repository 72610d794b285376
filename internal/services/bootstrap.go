package services

import (
	"context"
	"fmt"

	"task-management-system/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Bootstrapper migrates the schema and seeds the fixed development
// accounts plus sample tasks. It runs once at process start, is
// idempotent, and is deliberately outside the task service's runtime
// contract.
type Bootstrapper struct {
	db *gorm.DB
}

func NewBootstrapper(db *gorm.DB) *Bootstrapper {
	return &Bootstrapper{db: db}
}

func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := b.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if _, err := b.ensureUser(ctx, "admin", "Admin123!", models.RoleNameAdmin); err != nil {
		return err
	}

	user, err := b.ensureUser(ctx, "user1", "User123!", models.RoleNameUser)
	if err != nil {
		return err
	}

	return b.seedTasksToUser(ctx, user.ID)
}

func (b *Bootstrapper) ensureUser(ctx context.Context, username, password, role string) (*models.User, error) {
	var existing models.User
	err := b.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		if existing.Role != role {
			existing.Role = role
			if err := b.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to fix role for %q: %w", username, err)
			}
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:    username,
		Email:       username + "@gmail.com",
		PhoneNumber: "123123123",
		Password:    string(hashed),
		Role:        role,
	}

	if err := b.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user %q: %w", username, err)
	}

	return &user, nil
}

// seedTasksToUser plants three sample tasks for the user when it owns
// none. Seed statuses keep their original capitalized spelling; the
// create-status normalization applies only to the service path.
func (b *Bootstrapper) seedTasksToUser(ctx context.Context, userID int) error {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.Task{}).
		Where("assigned_user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tasks := []models.Task{
		{Title: "Task 1", Description: "First Task", Status: "Pending", AssignedUserID: userID},
		{Title: "Task 2", Description: "Second Task", Status: "In Progress", AssignedUserID: userID},
		{Title: "Task 3", Description: "Third Task", Status: "Completed", AssignedUserID: userID},
	}

	return b.db.WithContext(ctx).Create(&tasks).Error
}
