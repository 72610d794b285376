package repositories

import (
	"context"
	"errors"

	"task-management-system/backend/internal/models"

	"gorm.io/gorm"
)

// TaskRepository is the persistence contract for tasks. The store is the
// sole authority for id assignment on Add. Lookups report an absent record
// as (nil, nil); any non-nil error is an infrastructure fault and is never
// translated into a domain error.
type TaskRepository interface {
	Add(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByUserID(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, task *models.Task) error
}

type GormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Add(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *GormTaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("AssignedUser").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormTaskRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Preload("AssignedUser").Find(&tasks).Error
	return tasks, err
}

func (r *GormTaskRepository) GetByUserID(ctx context.Context, userID int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("assigned_user_id = ?", userID).
		Find(&tasks).Error
	return tasks, err
}

func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	// Save writes every field so role-gated partial updates decided by the
	// service layer land exactly as computed.
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}
