package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"gorm.io/gorm"
)

var caseNumberCounter atomic.Int64

// CreateFolder inserts a folder directly, bypassing depth checks.
func CreateFolder(t *testing.T, db *gorm.DB, name string, parentID *uint, order int) *models.Folder {
	t.Helper()
	f := &models.Folder{Name: name, ParentID: parentID, SortOrder: order}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to create folder %q: %v", name, err)
	}
	return f
}

// CreateFolderChain builds a single branch of depth n and returns it root first.
func CreateFolderChain(t *testing.T, db *gorm.DB, n int) []*models.Folder {
	t.Helper()
	var chain []*models.Folder
	var parent *uint
	for i := 1; i <= n; i++ {
		f := CreateFolder(t, db, fmt.Sprintf("level-%d", i), parent, 0)
		chain = append(chain, f)
		parent = &f.ID
	}
	return chain
}

type TestCaseOption func(*models.TestCase)

func InFolder(id uint) TestCaseOption {
	return func(tc *models.TestCase) {
		tc.FolderID = &id
	}
}

func WithSequence(seq int) TestCaseOption {
	return func(tc *models.TestCase) {
		tc.Sequence = seq
	}
}

// CreateTestCase inserts a test case with a unique case number. Case numbers
// from this helper start high so they never collide with service-issued ones.
func CreateTestCase(t *testing.T, db *gorm.DB, title string, opts ...TestCaseOption) *models.TestCase {
	t.Helper()
	tc := &models.TestCase{
		Title:          title,
		CaseNumber:     100000 + int(caseNumberCounter.Add(1)),
		Priority:       models.PriorityMedium,
		AutomationType: models.AutomationManual,
	}
	for _, opt := range opts {
		opt(tc)
	}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("failed to create test case %q: %v", title, err)
	}
	return tc
}

type UserOption func(*models.User)

func WithRole(role models.Role) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

func WithStatus(status models.UserStatus) UserOption {
	return func(u *models.User) {
		u.Status = status
	}
}

// CreateUser inserts an ACTIVE USER whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, email, name string, opts ...UserOption) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	u := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.UserActive,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", email, err)
	}
	return u
}

func Ptr[T any](v T) *T {
	return &v
}
