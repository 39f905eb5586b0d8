package services

import (
	"fmt"
	"math"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"gorm.io/gorm"
)

// Two progress definitions coexist:
//
//   - plan list:        items that left NOT_RUN / total (IN_PROGRESS counts as progressed)
//   - active dashboard: PASS+FAIL+BLOCK / total (IN_PROGRESS does not count)
//
// Both round half up to a whole percent and report 0 for an empty plan.

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// listProgress is the plan list definition of progress.
func listProgress(st models.PlanStats) int {
	return percent(st.Total-st.NotRun, st.Total)
}

// completedCount is the number of items with a final result.
func completedCount(st models.PlanStats) int {
	return st.Pass + st.Fail + st.Block
}

// dashboardProgress is the active-plans dashboard definition of progress.
func dashboardProgress(st models.PlanStats) int {
	return percent(completedCount(st), st.Total)
}

// resultTally accumulates item results into PlanStats.
type resultTally struct {
	models.PlanStats
}

func (st *resultTally) add(result models.ItemResult, n int) {
	s := &st.PlanStats
	s.Total += n
	switch result {
	case models.ResultPass:
		s.Pass += n
	case models.ResultFail:
		s.Fail += n
	case models.ResultBlock:
		s.Block += n
	case models.ResultInProgress:
		s.InProgress += n
	default:
		s.NotRun += n
	}
}

// tallyResults counts plan items per plan and result in one grouped query.
// Plans without items are absent from the returned map.
func tallyResults(tx *gorm.DB, planIDs []uint) (map[uint]models.PlanStats, error) {
	out := make(map[uint]models.PlanStats, len(planIDs))
	if len(planIDs) == 0 {
		return out, nil
	}

	type row struct {
		PlanID uint
		Result models.ItemResult
		Count  int
	}
	var rows []row
	err := tx.Model(&models.PlanItem{}).
		Select("plan_id, result, COUNT(*) AS count").
		Where("plan_id IN ?", planIDs).
		Group("plan_id, result").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tallying plan results: %w", err)
	}

	tallies := make(map[uint]*resultTally)
	for _, r := range rows {
		t, ok := tallies[r.PlanID]
		if !ok {
			t = &resultTally{}
			tallies[r.PlanID] = t
		}
		t.add(r.Result, r.Count)
	}
	for id, t := range tallies {
		out[id] = t.PlanStats
	}
	return out, nil
}

func statsFromItems(items []models.PlanItem) models.PlanStats {
	var t resultTally
	for _, item := range items {
		t.add(item.Result, 1)
	}
	t.Progress = listProgress(t.PlanStats)
	return t.PlanStats
}
