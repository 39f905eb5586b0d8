// internal/services/plan_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PlanService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db, now: time.Now}
}

// CreatePlan creates an ACTIVE plan with one NOT_RUN item per test case, in
// the order given. Repeated test case ids collapse to their first occurrence.
func (s *PlanService) CreatePlan(ctx context.Context, createdBy string, req *models.PlanCreateRequest) (*models.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "plan name is required")
	}
	if len(req.TestCaseIDs) == 0 {
		return nil, NewValidationError("testCaseIds", "select at least one test case")
	}
	caseIDs := uniqueIDs(req.TestCaseIDs)

	plan := models.Plan{
		Name:        name,
		Description: req.Description,
		CreatedBy:   createdBy,
		Status:      models.PlanActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTestCasesExist(tx, caseIDs); err != nil {
			return err
		}
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}

		items := make([]models.PlanItem, 0, len(caseIDs))
		for i, caseID := range caseIDs {
			items = append(items, models.PlanItem{
				PlanID:     plan.ID,
				TestCaseID: caseID,
				Assignee:   blankToNil(req.Assignee),
				Result:     models.ResultNotRun,
				SortOrder:  i + 1,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("creating plan items: %w", err)
		}
		plan.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := statsFromItems(plan.Items)
	plan.Stats = &stats

	logrus.WithFields(logrus.Fields{"plan_id": plan.ID, "items": len(plan.Items), "created_by": createdBy}).Info("plan created")
	return &plan, nil
}

// ListPlans returns plans newest first with their result roll-up. An empty
// filter means ACTIVE; "ALL" disables filtering.
func (s *PlanService) ListPlans(ctx context.Context, status string) ([]models.Plan, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Plan{})
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "", string(models.PlanActive):
		query = query.Where("status = ?", models.PlanActive)
	case string(models.PlanArchived):
		query = query.Where("status = ?", models.PlanArchived)
	case models.PlanStatusAll:
	default:
		return nil, NewValidationError("status", "unknown plan status %q", status)
	}

	var plans []models.Plan
	if err := query.Order("created_at DESC, id DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	ids := make([]uint, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	tallies, err := tallyResults(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		st := tallies[plans[i].ID]
		st.Progress = listProgress(st)
		plans[i].Stats = &st
	}
	return plans, nil
}

// GetPlanDetail returns the plan with its items ordered by item order, then by
// the test case's sequence.
func (s *PlanService) GetPlanDetail(ctx context.Context, id uint) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.TestCase").
		First(&plan, id).Error
	if err != nil {
		return nil, notFoundOr(err, "plan", id)
	}

	sort.SliceStable(plan.Items, func(i, j int) bool {
		a, b := plan.Items[i], plan.Items[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return caseSequence(a) < caseSequence(b)
	})

	stats := statsFromItems(plan.Items)
	plan.Stats = &stats
	return &plan, nil
}

// UpdatePlanItem patches one item. Setting a result other than NOT_RUN stamps
// executedAt; reverting to NOT_RUN leaves the previous stamp in place.
func (s *PlanService) UpdatePlanItem(ctx context.Context, itemID uint, req *models.PlanItemUpdateRequest) (*models.PlanItem, error) {
	db := s.db.WithContext(ctx)

	var item models.PlanItem
	if err := db.First(&item, itemID).Error; err != nil {
		return nil, notFoundOr(err, "plan item", itemID)
	}

	updates, err := s.itemUpdates(req)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("updating plan item %d: %w", itemID, err)
		}
	}

	if err := db.Preload("TestCase").First(&item, itemID).Error; err != nil {
		return nil, notFoundOr(err, "plan item", itemID)
	}
	return &item, nil
}

// BulkUpdatePlanItems applies the same patch to every listed item that belongs
// to planID. Items of other plans are ignored, and the count reflects that.
func (s *PlanService) BulkUpdatePlanItems(ctx context.Context, planID uint, req *models.PlanItemBulkUpdateRequest) (int64, error) {
	if len(req.ItemIDs) == 0 {
		return 0, NewValidationError("itemIds", "no plan items selected")
	}
	if req.PlanItemUpdateRequest.Empty() {
		return 0, NewValidationError("", "nothing to update")
	}
	updates, err := s.itemUpdates(&req.PlanItemUpdateRequest)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePlanExists(tx, planID); err != nil {
			return err
		}
		res := tx.Model(&models.PlanItem{}).
			Where("id IN ? AND plan_id = ?", req.ItemIDs, planID).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("bulk updating plan items: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{"plan_id": planID, "requested": len(req.ItemIDs), "updated": affected}).Info("plan items bulk updated")
	return affected, nil
}

func (s *PlanService) itemUpdates(req *models.PlanItemUpdateRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if req.Result != nil {
		if !req.Result.Valid() {
			return nil, NewValidationError("result", "unknown result %q", *req.Result)
		}
		updates["result"] = *req.Result
		if *req.Result != models.ResultNotRun {
			updates["executed_at"] = s.now()
		}
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.Assignee != nil {
		updates["assignee"] = blankToNil(req.Assignee)
	}
	return updates, nil
}

// UpdatePlan patches name/description and, when TestCaseIDs is given, syncs the
// items: missing test cases lose their items, new ones are appended after the
// current last order. Existing items keep their results.
func (s *PlanService) UpdatePlan(ctx context.Context, id uint, req *models.PlanUpdateRequest) (*models.Plan, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name", "plan name is required")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TestCaseIDs != nil && len(req.TestCaseIDs) == 0 {
		return nil, NewValidationError("testCaseIds", "a plan needs at least one test case")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.First(&plan, id).Error; err != nil {
			return notFoundOr(err, "plan", id)
		}

		if len(updates) > 0 {
			if err := tx.Model(&plan).Updates(updates).Error; err != nil {
				return fmt.Errorf("updating plan %d: %w", id, err)
			}
		}

		if req.TestCaseIDs != nil {
			return syncPlanItems(tx, id, uniqueIDs(req.TestCaseIDs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlanDetail(ctx, id)
}

func syncPlanItems(tx *gorm.DB, planID uint, caseIDs []uint) error {
	if err := ensureTestCasesExist(tx, caseIDs); err != nil {
		return err
	}

	var items []models.PlanItem
	if err := tx.Where("plan_id = ?", planID).Find(&items).Error; err != nil {
		return fmt.Errorf("loading plan items: %w", err)
	}

	wanted := make(map[uint]bool, len(caseIDs))
	for _, id := range caseIDs {
		wanted[id] = true
	}

	present := make(map[uint]bool, len(items))
	maxOrder := 0
	var stale []uint
	for _, item := range items {
		present[item.TestCaseID] = true
		if item.SortOrder > maxOrder {
			maxOrder = item.SortOrder
		}
		if !wanted[item.TestCaseID] {
			stale = append(stale, item.ID)
		}
	}

	if len(stale) > 0 {
		if err := tx.Where("id IN ?", stale).Delete(&models.PlanItem{}).Error; err != nil {
			return fmt.Errorf("removing plan items: %w", err)
		}
	}

	var added []models.PlanItem
	for _, caseID := range caseIDs {
		if present[caseID] {
			continue
		}
		maxOrder++
		added = append(added, models.PlanItem{
			PlanID:     planID,
			TestCaseID: caseID,
			Result:     models.ResultNotRun,
			SortOrder:  maxOrder,
		})
	}
	if len(added) > 0 {
		if err := tx.Create(&added).Error; err != nil {
			return fmt.Errorf("adding plan items: %w", err)
		}
	}
	return nil
}

func (s *PlanService) ArchivePlan(ctx context.Context, id uint) (*models.Plan, error) {
	return s.setStatus(ctx, id, models.PlanArchived)
}

func (s *PlanService) UnarchivePlan(ctx context.Context, id uint) (*models.Plan, error) {
	return s.setStatus(ctx, id, models.PlanActive)
}

func (s *PlanService) setStatus(ctx context.Context, id uint, status models.PlanStatus) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, id).Error; err != nil {
			return notFoundOr(err, "plan", id)
		}
		if plan.Status == status {
			return NewConflictError("plan %d is already %s", id, strings.ToLower(string(status)))
		}
		if err := tx.Model(&plan).Update("status", status).Error; err != nil {
			return fmt.Errorf("changing plan %d status: %w", id, err)
		}
		plan.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"plan_id": id, "status": status}).Info("plan status changed")
	return &plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, id uint) error {
	_, err := s.BulkDeletePlans(ctx, []uint{id})
	return err
}

// BulkDeletePlans removes the plans and their items atomically. Repeated ids
// are counted once.
func (s *PlanService) BulkDeletePlans(ctx context.Context, ids []uint) (*models.PlanDeleteResult, error) {
	if len(ids) == 0 {
		return nil, NewValidationError("ids", "no plans selected")
	}
	ids = uniqueIDs(ids)

	result := &models.PlanDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := ensurePlanExists(tx, id); err != nil {
				return err
			}
		}
		res := tx.Where("plan_id IN ?", ids).Delete(&models.PlanItem{})
		if res.Error != nil {
			return fmt.Errorf("deleting plan items: %w", res.Error)
		}
		result.PlanItems = res.RowsAffected

		res = tx.Where("id IN ?", ids).Delete(&models.Plan{})
		if res.Error != nil {
			return fmt.Errorf("deleting plans: %w", res.Error)
		}
		result.Plans = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"plan_ids": ids, "plans": result.Plans, "plan_items": result.PlanItems}).Info("plans deleted")
	return result, nil
}

func ensurePlanExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Plan{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking plan %d: %w", id, err)
	}
	if count == 0 {
		return NewNotFoundError("plan", id)
	}
	return nil
}

func caseSequence(item models.PlanItem) int {
	if item.TestCase == nil {
		return 0
	}
	return item.TestCase.Sequence
}

// blankToNil turns a whitespace-only optional string into nil.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
