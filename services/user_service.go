package services

import (
	"context"
	"errors"
	"os"

	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/utils"

	"gorm.io/gorm"
)

// UserDirectory abstracts credential lookup so the backing store can be
// swapped without touching authentication logic.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ValidateCredentials(ctx context.Context, username, password string) bool
	Role(ctx context.Context, username string) (string, bool)
}

type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger) *UserService {
	return &UserService{db: db, log: baseLog.With("service", "user")}
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) bool {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("credential lookup failed", "username", username, "error", err)
		}
		return false
	}
	return utils.CheckPasswordHash(password, user.Password)
}

func (s *UserService) Role(ctx context.Context, username string) (string, bool) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		return "", false
	}
	return user.Role, true
}

// SeedUsers creates the two demo accounts when absent. Passwords come from
// the environment with development defaults.
func SeedUsers(db *gorm.DB, log *logger.Logger) error {
	seeds := []models.User{
		{Username: "admin", Password: envOr("SEED_ADMIN_PASSWORD", "admin123"), Role: models.RoleAdmin},
		{Username: "user", Password: envOr("SEED_USER_PASSWORD", "user123"), Role: models.RoleUser},
	}

	for _, seed := range seeds {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", seed.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&seed).Error; err != nil {
			return err
		}
		log.Info("seeded user", "username", seed.Username, "role", seed.Role)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
