package services

import (
	"context"
	"testing"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestCaseService(t *testing.T) (*TestCaseService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewTestCaseService(db), db
}

func TestTestCaseService_Create_AssignsNumberAndSequence(t *testing.T) {
	svc, db := setupTestCaseService(t)
	ctx := context.Background()
	folder := testutil.CreateFolder(t, db, "Login", nil, 0)

	first, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "valid password", FolderID: &folder.ID})
	require.NoError(t, err)
	second, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "wrong password", FolderID: &folder.ID})
	require.NoError(t, err)
	unfiled, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "smoke"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.CaseNumber)
	assert.Equal(t, 2, second.CaseNumber)
	assert.Equal(t, 3, unfiled.CaseNumber)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, 2, second.Sequence)
	assert.Equal(t, 1, unfiled.Sequence, "unfiled cases have their own sequence")
	assert.Equal(t, models.PriorityMedium, first.Priority)
	assert.Equal(t, models.AutomationManual, first.AutomationType)
}

func TestTestCaseService_Create_NumbersNeverReused(t *testing.T) {
	svc, _ := setupTestCaseService(t)
	ctx := context.Background()

	a, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "b"})
	require.NoError(t, err)

	_, err = svc.DeleteTestCase(ctx, b.ID)
	require.NoError(t, err)

	c, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.CaseNumber)
	assert.Equal(t, 3, c.CaseNumber, "number of the deleted newest case is not handed out again")
}

func TestTestCaseService_Create_Errors(t *testing.T) {
	svc, _ := setupTestCaseService(t)
	ctx := context.Background()

	_, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: " "})
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "x", FolderID: testutil.Ptr(uint(42))})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestTestCaseService_List_Filters(t *testing.T) {
	svc, db := setupTestCaseService(t)
	ctx := context.Background()
	folder := testutil.CreateFolder(t, db, "F", nil, 0)

	login, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "Login works", FolderID: &folder.ID, Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "Logout works", FolderID: &folder.ID})
	require.NoError(t, err)
	_, err = svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "Unfiled login", AutomationType: models.AutomationAutomated})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.TestCaseListRequest
		want []string
	}{
		{"all", models.TestCaseListRequest{}, []string{"Login works", "Unfiled login", "Logout works"}},
		{"folder", models.TestCaseListRequest{FolderID: &folder.ID}, []string{"Login works", "Logout works"}},
		{"unfiled", models.TestCaseListRequest{Unfiled: true}, []string{"Unfiled login"}},
		{"search title", models.TestCaseListRequest{Search: "LOGIN"}, []string{"Login works", "Unfiled login"}},
		{"search number", models.TestCaseListRequest{Search: "TC-1"}, []string{"Login works"}},
		{"priority", models.TestCaseListRequest{Priority: "HIGH"}, []string{"Login works"}},
		{"automation", models.TestCaseListRequest{AutomationType: "AUTOMATED"}, []string{"Unfiled login"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			got, pagination, err := svc.ListTestCases(ctx, &req)
			require.NoError(t, err)

			var titles []string
			for _, c := range got {
				titles = append(titles, c.Title)
			}
			assert.ElementsMatch(t, tc.want, titles)
			assert.Equal(t, len(tc.want), pagination.Total)
		})
	}
	assert.Equal(t, 1, login.CaseNumber)
}

func TestTestCaseService_List_Pagination(t *testing.T) {
	svc, _ := setupTestCaseService(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		_, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: title})
		require.NoError(t, err)
	}

	got, pagination, err := svc.ListTestCases(ctx, &models.TestCaseListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Title)
	assert.Equal(t, "d", got[1].Title)
	assert.Equal(t, 5, pagination.Total)
	assert.Equal(t, 3, pagination.Pages)
}

func TestTestCaseService_Update(t *testing.T) {
	svc, _ := setupTestCaseService(t)
	ctx := context.Background()
	tc, err := svc.CreateTestCase(ctx, &models.TestCaseCreateRequest{Title: "old", Steps: "1. open"})
	require.NoError(t, err)

	high := models.PriorityHigh
	updated, err := svc.UpdateTestCase(ctx, tc.ID, &models.TestCaseUpdateRequest{
		Title:    testutil.Ptr("new"),
		Priority: &high,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "1. open", updated.Steps, "untouched fields are kept")
	assert.Equal(t, tc.CaseNumber, updated.CaseNumber)

	_, err = svc.UpdateTestCase(ctx, tc.ID, &models.TestCaseUpdateRequest{Title: testutil.Ptr("  ")})
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.UpdateTestCase(ctx, 999, &models.TestCaseUpdateRequest{})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestTestCaseService_BulkDelete_RemovesPlanItems(t *testing.T) {
	svc, db := setupTestCaseService(t)
	ctx := context.Background()

	a := testutil.CreateTestCase(t, db, "a")
	b := testutil.CreateTestCase(t, db, "b")
	c := testutil.CreateTestCase(t, db, "c")
	plan := &models.Plan{Name: "P", Status: models.PlanActive}
	require.NoError(t, db.Create(plan).Error)
	require.NoError(t, db.Create(&[]models.PlanItem{
		{PlanID: plan.ID, TestCaseID: a.ID, SortOrder: 1},
		{PlanID: plan.ID, TestCaseID: b.ID, SortOrder: 2},
		{PlanID: plan.ID, TestCaseID: c.ID, SortOrder: 3},
	}).Error)

	result, err := svc.BulkDeleteTestCases(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.TestCases)
	assert.EqualValues(t, 2, result.PlanItems)

	_, err = svc.BulkDeleteTestCases(ctx, []uint{c.ID, a.ID})
	assert.True(t, IsKind(err, KindNotFound))

	var remaining int64
	require.NoError(t, db.Model(&models.TestCase{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining, "failed delete keeps c")
}

func TestTestCaseService_Reorder(t *testing.T) {
	svc, db := setupTestCaseService(t)
	ctx := context.Background()

	a := testutil.CreateTestCase(t, db, "a", testutil.WithSequence(1))
	b := testutil.CreateTestCase(t, db, "b", testutil.WithSequence(2))

	err := svc.ReorderTestCases(ctx, []models.TestCaseOrder{{ID: a.ID, Sequence: 2}, {ID: b.ID, Sequence: 1}})
	require.NoError(t, err)

	got, _, err := svc.ListTestCases(ctx, &models.TestCaseListRequest{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)

	err = svc.ReorderTestCases(ctx, []models.TestCaseOrder{{ID: 999, Sequence: 1}})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestTestCaseService_Move_AppendsAfterLastSequence(t *testing.T) {
	svc, db := setupTestCaseService(t)
	ctx := context.Background()

	target := testutil.CreateFolder(t, db, "Target", nil, 0)
	testutil.CreateTestCase(t, db, "existing", testutil.InFolder(target.ID), testutil.WithSequence(4))
	x := testutil.CreateTestCase(t, db, "x")
	y := testutil.CreateTestCase(t, db, "y")

	moved, err := svc.MoveTestCases(ctx, &models.TestCaseMoveRequest{IDs: []uint{y.ID, x.ID, y.ID}, FolderID: &target.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)

	gotY, err := svc.GetTestCase(ctx, y.ID)
	require.NoError(t, err)
	gotX, err := svc.GetTestCase(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotY.Sequence)
	assert.Equal(t, 6, gotX.Sequence)
	require.NotNil(t, gotX.Folder)
	assert.Equal(t, "Target", gotX.Folder.Name)

	_, err = svc.MoveTestCases(ctx, &models.TestCaseMoveRequest{IDs: []uint{x.ID}, FolderID: testutil.Ptr(uint(404))})
	assert.True(t, IsKind(err, KindNotFound))
}
