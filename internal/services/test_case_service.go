package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TestCaseService struct {
	db *gorm.DB
}

func NewTestCaseService(db *gorm.DB) *TestCaseService {
	return &TestCaseService{db: db}
}

func (s *TestCaseService) ListTestCases(ctx context.Context, req *models.TestCaseListRequest) ([]models.TestCase, *models.Pagination, error) {
	var testCases []models.TestCase
	var total int64

	query := s.db.WithContext(ctx).Model(&models.TestCase{})

	switch {
	case req.FolderID != nil:
		query = query.Where("folder_id = ?", *req.FolderID)
	case req.Unfiled:
		query = query.Where("folder_id IS NULL")
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(search), "TC-")); err == nil {
			query = query.Where("case_number = ? OR LOWER(title) LIKE ?", n, "%"+strings.ToLower(search)+"%")
		} else {
			query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
	}
	if req.Priority != "" {
		query = query.Where("priority = ?", req.Priority)
	}
	if req.AutomationType != "" {
		query = query.Where("automation_type = ?", req.AutomationType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting test cases: %w", err)
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	offset := (req.Page - 1) * req.Limit

	err := query.Order("sequence ASC, case_number ASC").
		Limit(req.Limit).Offset(offset).
		Find(&testCases).Error
	if err != nil {
		return nil, nil, fmt.Errorf("listing test cases: %w", err)
	}

	pagination := &models.Pagination{
		Page:  req.Page,
		Limit: req.Limit,
		Total: int(total),
		Pages: int(math.Ceil(float64(total) / float64(req.Limit))),
	}
	return testCases, pagination, nil
}

func (s *TestCaseService) GetTestCase(ctx context.Context, id uint) (*models.TestCase, error) {
	var tc models.TestCase
	if err := s.db.WithContext(ctx).Preload("Folder").First(&tc, id).Error; err != nil {
		return nil, notFoundOr(err, "test case", id)
	}
	return &tc, nil
}

func (s *TestCaseService) CreateTestCase(ctx context.Context, req *models.TestCaseCreateRequest) (*models.TestCase, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, NewValidationError("title", "title is required")
	}

	tc := models.TestCase{
		Title:          title,
		Description:    req.Description,
		Precondition:   req.Precondition,
		Steps:          req.Steps,
		ExpectedResult: req.ExpectedResult,
		Priority:       req.Priority,
		AutomationType: req.AutomationType,
		Category:       req.Category,
		FolderID:       req.FolderID,
	}
	if tc.Priority == "" {
		tc.Priority = models.PriorityMedium
	}
	if tc.AutomationType == "" {
		tc.AutomationType = models.AutomationManual
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.FolderID != nil {
			if err := ensureFolderExists(tx, *req.FolderID); err != nil {
				return err
			}
		}

		number, err := nextCaseNumber(tx)
		if err != nil {
			return err
		}
		seq, err := nextSequence(tx, req.FolderID)
		if err != nil {
			return err
		}
		tc.CaseNumber = number
		tc.Sequence = seq

		return tx.Create(&tc).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"test_case_id": tc.ID, "case_number": tc.CaseNumber}).Info("test case created")
	return &tc, nil
}

func (s *TestCaseService) UpdateTestCase(ctx context.Context, id uint, req *models.TestCaseUpdateRequest) (*models.TestCase, error) {
	tc, err := s.GetTestCase(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewValidationError("title", "title is required")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Precondition != nil {
		updates["precondition"] = *req.Precondition
	}
	if req.Steps != nil {
		updates["steps"] = *req.Steps
	}
	if req.ExpectedResult != nil {
		updates["expected_result"] = *req.ExpectedResult
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.AutomationType != nil {
		updates["automation_type"] = *req.AutomationType
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if len(updates) == 0 {
		return tc, nil
	}

	if err := s.db.WithContext(ctx).Model(tc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating test case %d: %w", id, err)
	}
	return s.GetTestCase(ctx, id)
}

func (s *TestCaseService) DeleteTestCase(ctx context.Context, id uint) (*models.TestCaseDeleteResult, error) {
	return s.BulkDeleteTestCases(ctx, []uint{id})
}

// BulkDeleteTestCases deletes the test cases and every plan item referencing them.
func (s *TestCaseService) BulkDeleteTestCases(ctx context.Context, ids []uint) (*models.TestCaseDeleteResult, error) {
	if len(ids) == 0 {
		return nil, NewValidationError("ids", "no test cases selected")
	}

	result := &models.TestCaseDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTestCasesExist(tx, ids); err != nil {
			return err
		}

		res := tx.Where("test_case_id IN ?", ids).Delete(&models.PlanItem{})
		if res.Error != nil {
			return fmt.Errorf("deleting plan items: %w", res.Error)
		}
		result.PlanItems = res.RowsAffected

		res = tx.Where("id IN ?", ids).Delete(&models.TestCase{})
		if res.Error != nil {
			return fmt.Errorf("deleting test cases: %w", res.Error)
		}
		result.TestCases = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"test_case_ids": ids, "plan_items": result.PlanItems}).Info("test cases deleted")
	return result, nil
}

// ReorderTestCases assigns the given sequences in one transaction.
func (s *TestCaseService) ReorderTestCases(ctx context.Context, items []models.TestCaseOrder) error {
	if len(items) == 0 {
		return NewValidationError("items", "nothing to reorder")
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTestCasesExist(tx, ids); err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Model(&models.TestCase{}).Where("id = ?", item.ID).Update("sequence", item.Sequence).Error
			if err != nil {
				return fmt.Errorf("reordering test case %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

// MoveTestCases files the test cases under folderID (nil un-files them),
// appending them after the folder's current last sequence in request order.
func (s *TestCaseService) MoveTestCases(ctx context.Context, req *models.TestCaseMoveRequest) (int64, error) {
	if len(req.IDs) == 0 {
		return 0, NewValidationError("ids", "no test cases selected")
	}

	var moved int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.FolderID != nil {
			if err := ensureFolderExists(tx, *req.FolderID); err != nil {
				return err
			}
		}
		if err := ensureTestCasesExist(tx, req.IDs); err != nil {
			return err
		}

		seq, err := nextSequence(tx, req.FolderID)
		if err != nil {
			return err
		}
		for _, id := range uniqueIDs(req.IDs) {
			res := tx.Model(&models.TestCase{}).Where("id = ?", id).Updates(map[string]interface{}{
				"folder_id": req.FolderID,
				"sequence":  seq,
			})
			if res.Error != nil {
				return fmt.Errorf("moving test case %d: %w", id, res.Error)
			}
			moved += res.RowsAffected
			seq++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

func ensureFolderExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Folder{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking folder %d: %w", id, err)
	}
	if count == 0 {
		return NewNotFoundError("folder", id)
	}
	return nil
}

// ensureTestCasesExist fails with NotFound naming the first missing id.
func ensureTestCasesExist(tx *gorm.DB, ids []uint) error {
	var found []uint
	if err := tx.Model(&models.TestCase{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("checking test cases: %w", err)
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			return NewNotFoundError("test case", id)
		}
	}
	return nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence of each.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
