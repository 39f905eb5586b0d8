package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FolderService struct {
	db *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{db: db}
}

// loadIndex reads every folder in one query. Name is the secondary sort key so
// that siblings sharing an order come out alphabetically.
func loadIndex(tx *gorm.DB) (*folderIndex, []models.Folder, error) {
	var folders []models.Folder
	if err := tx.Order("sort_order, name, id").Find(&folders).Error; err != nil {
		return nil, nil, fmt.Errorf("loading folders: %w", err)
	}
	return newFolderIndex(folders), folders, nil
}

func (s *FolderService) GetTree(ctx context.Context) ([]*models.FolderNode, error) {
	db := s.db.WithContext(ctx)

	_, folders, err := loadIndex(db)
	if err != nil {
		return nil, err
	}

	type folderCount struct {
		FolderID uint
		Count    int
	}
	var counts []folderCount
	err = db.Model(&models.TestCase{}).
		Select("folder_id, COUNT(*) AS count").
		Where("folder_id IS NOT NULL").
		Group("folder_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("counting test cases per folder: %w", err)
	}
	caseCounts := make(map[uint]int, len(counts))
	for _, c := range counts {
		caseCounts[c.FolderID] = c.Count
	}

	return buildTree(folders, caseCounts), nil
}

func (s *FolderService) GetFolder(ctx context.Context, id uint) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.WithContext(ctx).First(&folder, id).Error; err != nil {
		return nil, notFoundOr(err, "folder", id)
	}
	return &folder, nil
}

func (s *FolderService) CreateFolder(ctx context.Context, req *models.FolderCreateRequest) (*models.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "folder name is required")
	}

	var folder models.Folder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idx, _, err := loadIndex(tx)
		if err != nil {
			return err
		}

		if req.ParentID != nil {
			if !idx.exists(*req.ParentID) {
				return NewNotFoundError("parent folder", *req.ParentID)
			}
			if idx.depth(req.ParentID)+1 > models.MaxFolderDepth {
				return NewValidationError("parentId", "folders cannot be nested more than %d levels deep", models.MaxFolderDepth)
			}
		}

		folder = models.Folder{
			Name:      name,
			ParentID:  req.ParentID,
			SortOrder: idx.nextOrder(req.ParentID, 0),
		}
		return tx.Create(&folder).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"folder_id": folder.ID, "parent_id": parentField(folder.ParentID)}).Info("folder created")
	return &folder, nil
}

func (s *FolderService) RenameFolder(ctx context.Context, id uint, req *models.FolderRenameRequest) (*models.Folder, error) {
	folder, err := s.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "folder name is required")
	}

	if err := s.db.WithContext(ctx).Model(folder).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("renaming folder %d: %w", id, err)
	}
	folder.Name = name
	return folder, nil
}

// MoveFolder re-parents and/or re-orders a folder. The move is rejected when it
// would make the folder its own ancestor or push any leaf below MaxFolderDepth.
func (s *FolderService) MoveFolder(ctx context.Context, id uint, req *models.FolderMoveRequest) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idx, _, err := loadIndex(tx)
		if err != nil {
			return err
		}

		current, ok := idx.byID[id]
		if !ok {
			return NewNotFoundError("folder", id)
		}
		newParent := req.ParentID

		if newParent != nil {
			if *newParent == id {
				return NewValidationError("parentId", "a folder cannot be its own parent")
			}
			if !idx.exists(*newParent) {
				return NewNotFoundError("parent folder", *newParent)
			}
			for _, d := range idx.descendants(id) {
				if d == *newParent {
					return NewValidationError("parentId", "cannot move a folder into its own descendant")
				}
			}
		}

		if idx.depth(newParent)+1+idx.maxDescendantDepth(id) > models.MaxFolderDepth {
			return NewValidationError("parentId", "move would exceed the maximum folder depth of %d", models.MaxFolderDepth)
		}

		updates := map[string]interface{}{}
		if sameParent(current.ParentID, newParent) {
			if req.Order == nil {
				return NewValidationError("order", "order is required when the parent does not change")
			}
			updates["sort_order"] = *req.Order
		} else {
			order := idx.nextOrder(newParent, id)
			if req.Order != nil {
				order = *req.Order
			}
			updates["parent_id"] = newParent
			updates["sort_order"] = order
		}

		if err := tx.Model(&models.Folder{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("moving folder %d: %w", id, err)
		}
		return tx.First(&folder, id).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"folder_id": id, "parent_id": parentField(folder.ParentID), "order": folder.SortOrder}).Info("folder moved")
	return &folder, nil
}

// ReorderFolders applies all order changes atomically.
func (s *FolderService) ReorderFolders(ctx context.Context, items []models.FolderOrder) error {
	if len(items) == 0 {
		return NewValidationError("items", "nothing to reorder")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&models.Folder{}).Where("id = ?", item.ID).Update("sort_order", item.Order)
			if res.Error != nil {
				return fmt.Errorf("reordering folder %d: %w", item.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Folder{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return NewNotFoundError("folder", item.ID)
				}
			}
		}
		return nil
	})
}

func (s *FolderService) DeleteFolder(ctx context.Context, id uint) (*models.FolderDeleteResult, error) {
	return s.BulkDeleteFolders(ctx, []uint{id})
}

// BulkDeleteFolders removes the folders, all of their descendants, the test
// cases inside any of them and the plan items pointing at those test cases.
func (s *FolderService) BulkDeleteFolders(ctx context.Context, ids []uint) (*models.FolderDeleteResult, error) {
	if len(ids) == 0 {
		return nil, NewValidationError("ids", "no folders selected")
	}

	result := &models.FolderDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idx, _, err := loadIndex(tx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !idx.exists(id) {
				return NewNotFoundError("folder", id)
			}
		}

		affected := idx.closure(ids)
		caseIDs := tx.Model(&models.TestCase{}).Select("id").Where("folder_id IN ?", affected)

		res := tx.Where("test_case_id IN (?)", caseIDs).Delete(&models.PlanItem{})
		if res.Error != nil {
			return fmt.Errorf("deleting plan items: %w", res.Error)
		}
		result.PlanItems = res.RowsAffected

		res = tx.Where("folder_id IN ?", affected).Delete(&models.TestCase{})
		if res.Error != nil {
			return fmt.Errorf("deleting test cases: %w", res.Error)
		}
		result.TestCases = res.RowsAffected

		for _, level := range idx.deepestFirst(affected) {
			res = tx.Where("id IN ?", level).Delete(&models.Folder{})
			if res.Error != nil {
				return fmt.Errorf("deleting folders: %w", res.Error)
			}
			result.Folders += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"folder_ids": ids,
		"folders":    result.Folders,
		"test_cases": result.TestCases,
		"plan_items": result.PlanItems,
	}).Info("folders deleted")
	return result, nil
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// parentField is the log value of a parent reference: the id, or nil at the root.
func parentField(id *uint) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
