package services

import (
	"context"
	"fmt"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

// DashboardService answers read-only roll-ups over plans, items and test cases.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) GetOverviewStats(ctx context.Context) (*models.OverviewStats, error) {
	var stats models.OverviewStats
	var tally resultTally

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	g.Go(func() error {
		return db.Model(&models.TestCase{}).Count(&stats.TotalTestCases).Error
	})
	g.Go(func() error {
		return db.Model(&models.Folder{}).Count(&stats.TotalFolders).Error
	})
	g.Go(func() error {
		return db.Model(&models.Plan{}).Where("status = ?", models.PlanActive).Count(&stats.ActivePlans).Error
	})
	g.Go(func() error {
		return db.Model(&models.Plan{}).Where("status = ?", models.PlanArchived).Count(&stats.ArchivedPlans).Error
	})
	g.Go(func() error {
		type row struct {
			Result models.ItemResult
			Count  int
		}
		var rows []row
		err := db.Model(&models.PlanItem{}).
			Joins("JOIN plans ON plans.id = plan_items.plan_id").
			Where("plans.status = ?", models.PlanActive).
			Select("plan_items.result AS result, COUNT(*) AS count").
			Group("plan_items.result").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, r := range rows {
			tally.add(r.Result, r.Count)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading overview stats: %w", err)
	}

	stats.TotalItems = int64(tally.Total)
	stats.Pass = int64(tally.Pass)
	stats.Fail = int64(tally.Fail)
	stats.Block = int64(tally.Block)
	stats.InProgress = int64(tally.InProgress)
	stats.NotRun = int64(tally.NotRun)
	stats.PassRate = percent(tally.Pass, completedCount(tally.PlanStats))
	return &stats, nil
}

// GetActivePlans lists ACTIVE plans newest first. Progress here counts only
// items with a final result (PASS, FAIL, BLOCK), unlike the plan list.
func (s *DashboardService) GetActivePlans(ctx context.Context) ([]models.ActivePlanSummary, error) {
	db := s.db.WithContext(ctx)

	var plans []models.Plan
	err := db.Where("status = ?", models.PlanActive).
		Order("created_at DESC, id DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("listing active plans: %w", err)
	}

	ids := make([]uint, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	tallies, err := tallyResults(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.ActivePlanSummary, 0, len(plans))
	for _, p := range plans {
		st := tallies[p.ID]
		out = append(out, models.ActivePlanSummary{
			ID:        p.ID,
			Name:      p.Name,
			CreatedBy: p.CreatedBy,
			CreatedAt: p.CreatedAt,
			Total:     st.Total,
			Completed: completedCount(st),
			Pass:      st.Pass,
			Fail:      st.Fail,
			Block:     st.Block,
			Progress:  dashboardProgress(st),
		})
	}
	return out, nil
}

// GetMyAssignments lists the items of active plans assigned to the given
// display name. Pending counts items still NOT_RUN or IN_PROGRESS.
func (s *DashboardService) GetMyAssignments(ctx context.Context, assignee string) (*models.MyAssignments, error) {
	items := []models.AssignmentItem{}
	err := s.db.WithContext(ctx).
		Table("plan_items").
		Select(`plan_items.id AS item_id, plan_items.plan_id, plans.name AS plan_name,
			plan_items.test_case_id, test_cases.case_number, test_cases.title, test_cases.priority,
			plan_items.result, plan_items.executed_at`).
		Joins("JOIN plans ON plans.id = plan_items.plan_id").
		Joins("JOIN test_cases ON test_cases.id = plan_items.test_case_id").
		Where("plan_items.assignee = ? AND plans.status = ?", assignee, models.PlanActive).
		Order("plans.created_at DESC, plan_items.plan_id DESC, plan_items.sort_order ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading assignments for %q: %w", assignee, err)
	}

	result := &models.MyAssignments{Total: len(items), Items: items}
	for _, item := range items {
		if item.Result == models.ResultNotRun || item.Result == models.ResultInProgress {
			result.Pending++
		}
	}
	return result, nil
}

// GetRecentActivity returns the most recently executed plan items.
func (s *DashboardService) GetRecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries := []models.ActivityEntry{}
	err := s.db.WithContext(ctx).
		Table("plan_items").
		Select(`plan_items.id AS item_id, plan_items.plan_id, plans.name AS plan_name,
			plan_items.test_case_id, test_cases.case_number, test_cases.title,
			plan_items.assignee, plan_items.result, plan_items.executed_at`).
		Joins("JOIN plans ON plans.id = plan_items.plan_id").
		Joins("JOIN test_cases ON test_cases.id = plan_items.test_case_id").
		Where("plan_items.executed_at IS NOT NULL").
		Order("plan_items.executed_at DESC, plan_items.id DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("loading recent activity: %w", err)
	}
	return entries, nil
}
