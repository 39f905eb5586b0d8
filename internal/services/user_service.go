package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UpdateProfile renames the user. Plan items assigned to the old display name
// follow the rename in the same transaction.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.ProfileUpdateRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}

	var user models.User
	var reassigned int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return notFoundOr(err, "user", userID)
		}
		oldName := user.Name
		if oldName == name {
			return nil
		}

		if err := tx.Model(&user).Update("name", name).Error; err != nil {
			return fmt.Errorf("renaming user %d: %w", userID, err)
		}
		user.Name = name

		res := tx.Model(&models.PlanItem{}).Where("assignee = ?", oldName).Update("assignee", name)
		if res.Error != nil {
			return fmt.Errorf("reassigning plan items: %w", res.Error)
		}
		reassigned = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "reassigned_items": reassigned}).Info("profile updated")
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, req *models.PasswordChangeRequest) error {
	if len(req.NewPassword) < 6 {
		return NewValidationError("newPassword", "password must be at least 6 characters")
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return notFoundOr(err, "user", userID)
	}

	valid, err := utils.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !valid {
		return NewValidationError("currentPassword", "current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return db.Model(&user).Update("password_hash", hash).Error
}

// ListUsers returns users oldest first, optionally filtered by status.
func (s *UserService) ListUsers(ctx context.Context, status string) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		switch models.UserStatus(status) {
		case models.UserPending, models.UserActive, models.UserRejected:
			query = query.Where("status = ?", status)
		default:
			return nil, NewValidationError("status", "unknown user status %q", status)
		}
	}

	var users []models.User
	if err := query.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// ListAssignees returns the display names of active users, for assignment pickers.
func (s *UserService) ListAssignees(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("status = ?", models.UserActive).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	return names, nil
}

func (s *UserService) ApproveUser(ctx context.Context, actorID, userID uint) (*models.User, error) {
	return s.setStatus(ctx, actorID, userID, models.UserActive)
}

func (s *UserService) RejectUser(ctx context.Context, actorID, userID uint) (*models.User, error) {
	return s.setStatus(ctx, actorID, userID, models.UserRejected)
}

func (s *UserService) setStatus(ctx context.Context, actorID, userID uint, status models.UserStatus) (*models.User, error) {
	if actorID == userID {
		return nil, NewValidationError("id", "administrators cannot change their own status")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return notFoundOr(err, "user", userID)
		}
		if user.Status == status {
			return NewConflictError("user %d is already %s", userID, strings.ToLower(string(status)))
		}
		if err := tx.Model(&user).Update("status", status).Error; err != nil {
			return fmt.Errorf("updating user %d status: %w", userID, err)
		}
		user.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "status": status, "by": actorID}).Info("user status changed")
	return &user, nil
}

func (s *UserService) SetRole(ctx context.Context, actorID, userID uint, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, NewValidationError("role", "unknown role %q", role)
	}
	if actorID == userID {
		return nil, NewValidationError("id", "administrators cannot change their own role")
	}

	var user models.User
	db := s.db.WithContext(ctx)
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	if err := db.Model(&user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("updating user %d role: %w", userID, err)
	}
	user.Role = role
	return &user, nil
}
