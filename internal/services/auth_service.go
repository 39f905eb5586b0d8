// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates an account. The very first account becomes an active
// admin; every later one waits in PENDING until an admin approves it.
func (s *AuthService) Register(ctx context.Context, req *models.UserRegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if len(req.Password) < 6 {
		return nil, NewValidationError("password", "password must be at least 6 characters")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRegistrations(tx); err != nil {
			return err
		}

		var exists int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return NewConflictError("email %s is already registered", email)
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}

		user = models.User{
			Email:        email,
			PasswordHash: hashedPassword,
			Name:         name,
			Role:         models.RoleUser,
			Status:       models.UserPending,
		}
		if total == 0 {
			user.Role = models.RoleAdmin
			user.Status = models.UserActive
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role, "status": user.Status}).Info("user registered")
	return &user, nil
}

// Login checks credentials and account status. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, req *models.UserLoginRequest) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !valid {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	switch user.Status {
	case models.UserPending:
		return nil, NewForbiddenError("account is waiting for administrator approval")
	case models.UserRejected:
		return nil, NewForbiddenError("account registration was rejected")
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const registrationCounter = "user_registrations"

// lockRegistrations bumps the registration counter row so that concurrent
// registrations queue on its row lock until the holder commits. The first-user
// count read afterwards then sees every committed account.
func lockRegistrations(tx *gorm.DB) error {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: registrationCounter}).Error
	if err != nil {
		return fmt.Errorf("creating registration counter: %w", err)
	}
	err = tx.Model(&models.Counter{}).
		Where("name = ?", registrationCounter).
		UpdateColumn("value", gorm.Expr("value + 1")).Error
	if err != nil {
		return fmt.Errorf("locking registrations: %w", err)
	}
	return nil
}
