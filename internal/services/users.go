package services

import (
	"context"
	"errors"

	"task-management-system/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
)

// UserService is the user store behind both the admin surface and the
// UserDirectory contract the task service consumes.
type UserService interface {
	UserDirectory
	GetUsersInRole(ctx context.Context, role models.Role) ([]models.User, error)
	CreateUser(ctx context.Context, req models.UserRequest, password string) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req models.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserServiceImpl struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserServiceImpl {
	return &UserServiceImpl{db: db}
}

func (s *UserServiceImpl) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) IsInRole(ctx context.Context, user *models.User, role models.Role) (bool, error) {
	if user == nil {
		return false, nil
	}
	return user.RoleKind() == role, nil
}

func (s *UserServiceImpl) GetUsersInRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("role = ?", role.String()).Find(&users).Error
	return users, err
}

// CreateUser adds a user with a bcrypt-hashed password. New users are
// always created in the "User" role; the seeded admin is the only admin.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req models.UserRequest, password string) (*models.User, error) {
	existing, err := s.FindByName(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := req.ToUser()
	user.Password = string(hashed)
	user.Role = models.RoleNameUser

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int, req models.UserRequest) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Username = req.Username
	user.Email = req.Email
	user.PhoneNumber = req.PhoneNumber

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return s.db.WithContext(ctx).Delete(user).Error
}
