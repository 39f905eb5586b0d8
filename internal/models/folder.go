package models

import (
	"time"
)

// MaxFolderDepth bounds the chain length from any root folder to its deepest leaf.
const MaxFolderDepth = 5

type Folder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	ParentID  *uint     `json:"parentId" gorm:"index"`
	SortOrder int       `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// 关联
	Parent    *Folder    `json:"-" gorm:"foreignKey:ParentID"`
	TestCases []TestCase `json:"-" gorm:"foreignKey:FolderID"`
}

// FolderNode is a folder with its children attached, as returned by the tree endpoint.
type FolderNode struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	ParentID      *uint         `json:"parentId"`
	SortOrder     int           `json:"order"`
	TestCaseCount int           `json:"testCaseCount"`
	Children      []*FolderNode `json:"children"`
}

type FolderCreateRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	ParentID *uint  `json:"parentId"`
}

type FolderRenameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// FolderMoveRequest moves a folder. A nil ParentID means the root level.
type FolderMoveRequest struct {
	ParentID *uint `json:"parentId"`
	Order    *int  `json:"order" validate:"omitempty,min=0"`
}

type FolderOrder struct {
	ID    uint `json:"id" validate:"required"`
	Order int  `json:"order" validate:"min=0"`
}

type FolderReorderRequest struct {
	Items []FolderOrder `json:"items" validate:"required,min=1,dive"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

// FolderDeleteResult reports how many rows a folder delete cascaded through.
type FolderDeleteResult struct {
	Folders   int64 `json:"folders"`
	TestCases int64 `json:"testCases"`
	PlanItems int64 `json:"planItems"`
}
