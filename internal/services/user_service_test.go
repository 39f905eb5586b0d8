package services

import (
	"context"
	"testing"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/testutil"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_RenamesAssignments(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "kim@example.com", "Kim")
	tc := testutil.CreateTestCase(t, db, "case")
	plan := &models.Plan{Name: "P", Status: models.PlanActive}
	require.NoError(t, db.Create(plan).Error)

	kim, kimLee := "Kim", "Kim Lee"
	require.NoError(t, db.Create(&[]models.PlanItem{
		{PlanID: plan.ID, TestCaseID: tc.ID, Assignee: &kim, SortOrder: 1},
		{PlanID: plan.ID, TestCaseID: tc.ID, Assignee: &kimLee, SortOrder: 2},
		{PlanID: plan.ID, TestCaseID: tc.ID, SortOrder: 3},
	}).Error)

	updated, err := svc.UpdateProfile(ctx, user.ID, &models.ProfileUpdateRequest{Name: " Kimberly "})
	require.NoError(t, err)
	assert.Equal(t, "Kimberly", updated.Name)

	var items []models.PlanItem
	require.NoError(t, db.Order("sort_order").Find(&items).Error)
	require.Len(t, items, 3)
	require.NotNil(t, items[0].Assignee)
	assert.Equal(t, "Kimberly", *items[0].Assignee)
	require.NotNil(t, items[1].Assignee)
	assert.Equal(t, "Kim Lee", *items[1].Assignee, "only exact matches are renamed")
	assert.Nil(t, items[2].Assignee)

	_, err = svc.UpdateProfile(ctx, 999, &models.ProfileUpdateRequest{Name: "x"})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUserService_ChangePassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "a@example.com", "A")

	err := svc.ChangePassword(ctx, user.ID, &models.PasswordChangeRequest{CurrentPassword: "wrong", NewPassword: "newsecret"})
	assert.True(t, IsKind(err, KindValidation))

	err = svc.ChangePassword(ctx, user.ID, &models.PasswordChangeRequest{CurrentPassword: "password123", NewPassword: "newsecret"})
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	ok, err := utils.VerifyPassword("newsecret", reloaded.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserService_ListUsers_StatusFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "a@example.com", "A")
	testutil.CreateUser(t, db, "b@example.com", "B", testutil.WithStatus(models.UserPending))

	all, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.ListUsers(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Name)

	_, err = svc.ListUsers(ctx, "BANNED")
	assert.True(t, IsKind(err, KindValidation))
}

func TestUserService_ApproveReject(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", "Admin", testutil.WithRole(models.RoleAdmin))
	pending := testutil.CreateUser(t, db, "p@example.com", "P", testutil.WithStatus(models.UserPending))

	approved, err := svc.ApproveUser(ctx, admin.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, approved.Status)

	_, err = svc.ApproveUser(ctx, admin.ID, pending.ID)
	assert.True(t, IsKind(err, KindConflict))

	rejected, err := svc.RejectUser(ctx, admin.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserRejected, rejected.Status)

	_, err = svc.RejectUser(ctx, admin.ID, admin.ID)
	assert.True(t, IsKind(err, KindValidation), "admins cannot reject themselves")

	_, err = svc.ApproveUser(ctx, admin.ID, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUserService_SetRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin@example.com", "Admin", testutil.WithRole(models.RoleAdmin))
	user := testutil.CreateUser(t, db, "u@example.com", "U")

	promoted, err := svc.SetRole(ctx, admin.ID, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = svc.SetRole(ctx, admin.ID, admin.ID, models.RoleUser)
	assert.True(t, IsKind(err, KindValidation), "admins cannot demote themselves")

	_, err = svc.SetRole(ctx, admin.ID, user.ID, "OWNER")
	assert.True(t, IsKind(err, KindValidation))
}

func TestUserService_ListAssignees(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	testutil.CreateUser(t, db, "z@example.com", "Zed")
	testutil.CreateUser(t, db, "a@example.com", "Amy")
	testutil.CreateUser(t, db, "p@example.com", "Pending", testutil.WithStatus(models.UserPending))

	names, err := svc.ListAssignees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy", "Zed"}, names)
}
