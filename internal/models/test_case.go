package models

import (
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type AutomationType string

const (
	AutomationManual    AutomationType = "MANUAL"
	AutomationAutomated AutomationType = "AUTOMATED"
)

type TestCase struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CaseNumber     int            `json:"caseNumber" gorm:"uniqueIndex;not null"`
	Title          string         `json:"title" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Precondition   string         `json:"precondition" gorm:"type:text"`
	Steps          string         `json:"steps" gorm:"type:text"`
	ExpectedResult string         `json:"expectedResult" gorm:"type:text"`
	Priority       Priority       `json:"priority" gorm:"size:10;default:MEDIUM"`
	AutomationType AutomationType `json:"automationType" gorm:"size:10;default:MANUAL"`
	Category       *string        `json:"category" gorm:"size:100"`
	FolderID       *uint          `json:"folderId" gorm:"index"`
	Sequence       int            `json:"sequence" gorm:"default:0"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// 关联
	Folder    *Folder    `json:"folder,omitempty" gorm:"foreignKey:FolderID"`
	PlanItems []PlanItem `json:"-" gorm:"foreignKey:TestCaseID"`
}

// Counter is a named monotonically increasing value that survives row deletes.
type Counter struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int    `gorm:"not null;default:0"`
}

type TestCaseCreateRequest struct {
	Title          string         `json:"title" validate:"required,notblank,max=255"`
	Description    string         `json:"description"`
	Precondition   string         `json:"precondition"`
	Steps          string         `json:"steps"`
	ExpectedResult string         `json:"expectedResult"`
	Priority       Priority       `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType AutomationType `json:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
	Category       *string        `json:"category" validate:"omitempty,max=100"`
	FolderID       *uint          `json:"folderId"`
}

// TestCaseUpdateRequest patches a test case; nil fields are left unchanged.
// Moving between folders goes through the move endpoint so sequences stay consistent.
type TestCaseUpdateRequest struct {
	Title          *string         `json:"title" validate:"omitempty,notblank,max=255"`
	Description    *string         `json:"description"`
	Precondition   *string         `json:"precondition"`
	Steps          *string         `json:"steps"`
	ExpectedResult *string         `json:"expectedResult"`
	Priority       *Priority       `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType *AutomationType `json:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
	Category       *string         `json:"category" validate:"omitempty,max=100"`
}

type TestCaseListRequest struct {
	Page           int    `form:"page" validate:"min=1"`
	Limit          int    `form:"limit" validate:"min=1,max=200"`
	FolderID       *uint  `form:"folderId"`
	Unfiled        bool   `form:"unfiled"`
	Search         string `form:"search"`
	Priority       string `form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType string `form:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
}

type TestCaseOrder struct {
	ID       uint `json:"id" validate:"required"`
	Sequence int  `json:"sequence" validate:"min=0"`
}

type TestCaseReorderRequest struct {
	Items []TestCaseOrder `json:"items" validate:"required,min=1,dive"`
}

// TestCaseMoveRequest moves test cases into a folder; nil FolderID un-files them.
type TestCaseMoveRequest struct {
	IDs      []uint `json:"ids" validate:"required,min=1"`
	FolderID *uint  `json:"folderId"`
}

// TestCaseDeleteResult reports the rows removed by a test case delete.
type TestCaseDeleteResult struct {
	TestCases int64 `json:"testCases"`
	PlanItems int64 `json:"planItems"`
}
