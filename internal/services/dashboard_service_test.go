package services

import (
	"context"
	"testing"
	"time"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedDashboard builds one active plan with four items (PASS, FAIL,
// IN_PROGRESS, NOT_RUN) and one archived plan with a single PASS item.
func seedDashboard(t *testing.T, db *gorm.DB) (active, archived *models.Plan) {
	t.Helper()
	folder := testutil.CreateFolder(t, db, "F", nil, 0)
	var cases []*models.TestCase
	for i := 0; i < 4; i++ {
		cases = append(cases, testutil.CreateTestCase(t, db, "case", testutil.InFolder(folder.ID)))
	}

	bob := "bob"
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	active = &models.Plan{Name: "Active", Status: models.PlanActive}
	archived = &models.Plan{Name: "Old", Status: models.PlanArchived}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(archived).Error)

	require.NoError(t, db.Create(&[]models.PlanItem{
		{PlanID: active.ID, TestCaseID: cases[0].ID, Result: models.ResultPass, Assignee: &bob, ExecutedAt: &t1, SortOrder: 1},
		{PlanID: active.ID, TestCaseID: cases[1].ID, Result: models.ResultFail, Assignee: &bob, ExecutedAt: &t2, SortOrder: 2},
		{PlanID: active.ID, TestCaseID: cases[2].ID, Result: models.ResultInProgress, Assignee: &bob, SortOrder: 3},
		{PlanID: active.ID, TestCaseID: cases[3].ID, Result: models.ResultNotRun, SortOrder: 4},
		{PlanID: archived.ID, TestCaseID: cases[0].ID, Result: models.ResultPass, Assignee: &bob, ExecutedAt: &t1, SortOrder: 1},
	}).Error)
	return active, archived
}

func TestDashboardService_GetOverviewStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedDashboard(t, db)
	svc := NewDashboardService(db)

	stats, err := svc.GetOverviewStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalTestCases)
	assert.EqualValues(t, 1, stats.TotalFolders)
	assert.EqualValues(t, 1, stats.ActivePlans)
	assert.EqualValues(t, 1, stats.ArchivedPlans)
	assert.EqualValues(t, 4, stats.TotalItems, "archived plan items are excluded")
	assert.EqualValues(t, 1, stats.Pass)
	assert.EqualValues(t, 1, stats.Fail)
	assert.EqualValues(t, 1, stats.InProgress)
	assert.EqualValues(t, 1, stats.NotRun)
	assert.Equal(t, 50, stats.PassRate)
}

func TestDashboardService_GetOverviewStats_Empty(t *testing.T) {
	svc := NewDashboardService(testutil.NewTestDB(t))

	stats, err := svc.GetOverviewStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalItems)
	assert.Zero(t, stats.PassRate)
}

func TestDashboardService_GetActivePlans(t *testing.T) {
	db := testutil.NewTestDB(t)
	active, _ := seedDashboard(t, db)
	empty := &models.Plan{Name: "Empty", Status: models.PlanActive}
	require.NoError(t, db.Create(empty).Error)
	svc := NewDashboardService(db)

	plans, err := svc.GetActivePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	byID := map[uint]models.ActivePlanSummary{}
	for _, p := range plans {
		byID[p.ID] = p
	}
	got := byID[active.ID]
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 50, got.Progress, "IN_PROGRESS is not completed")

	assert.Equal(t, 0, byID[empty.ID].Total)
	assert.Equal(t, 0, byID[empty.ID].Progress)
}

func TestDashboardService_GetMyAssignments(t *testing.T) {
	db := testutil.NewTestDB(t)
	active, _ := seedDashboard(t, db)
	svc := NewDashboardService(db)

	mine, err := svc.GetMyAssignments(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, mine.Total, "only items of active plans")
	assert.Equal(t, 1, mine.Pending)
	for _, item := range mine.Items {
		assert.Equal(t, active.ID, item.PlanID)
		assert.Equal(t, "Active", item.PlanName)
	}
	assert.Equal(t, models.ResultPass, mine.Items[0].Result, "ordered by item order")

	nobody, err := svc.GetMyAssignments(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, 0, nobody.Total)
	assert.NotNil(t, nobody.Items)
}

func TestDashboardService_GetRecentActivity(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedDashboard(t, db)
	svc := NewDashboardService(db)

	entries, err := svc.GetRecentActivity(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3, "only executed items")
	assert.Equal(t, models.ResultFail, entries[0].Result, "newest execution first")

	limited, err := svc.GetRecentActivity(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
