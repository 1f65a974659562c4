// internal/services/auth_service.go
package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService authenticates the single configured operator account and
// issues the JWT used on mutating routes.
type AuthService struct {
	config *config.Config
}

func NewAuthService(config *config.Config) *AuthService {
	return &AuthService{config: config}
}

func (s *AuthService) Login(req *LoginRequest) (string, error) {
	if s.config.Admin.PasswordHash == "" {
		return "", errors.New("operator login is not configured")
	}

	if req.Username != s.config.Admin.Username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.Admin.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(req.Username, s.config.JWT.AccessTokenTTL)
}

// HashPassword is used by deploy tooling to produce ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
