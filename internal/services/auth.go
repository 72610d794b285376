package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"task-management-system/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates users and issues the signed tokens whose
// claims the authz middleware later turns back into a Principal.
type AuthService interface {
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
}

type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

type AuthServiceImpl struct {
	users UserDirectory
	cfg   AuthConfig
}

func NewAuthService(users UserDirectory, cfg AuthConfig) *AuthServiceImpl {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	return &AuthServiceImpl{users: users, cfg: cfg}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func (s *AuthServiceImpl) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GenerateToken signs an HS256 token carrying the string-encoded user id,
// the username, and the role claim.
func (s *AuthServiceImpl) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  strconv.Itoa(user.ID),
		"username": user.Username,
		"role":     user.Role,
		"iss":      s.cfg.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
