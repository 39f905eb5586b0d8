package models

import (
	"time"
)

type PlanStatus string

const (
	PlanActive   PlanStatus = "ACTIVE"
	PlanArchived PlanStatus = "ARCHIVED"
)

// PlanStatusAll is the list filter value that disables status filtering.
const PlanStatusAll = "ALL"

type ItemResult string

const (
	ResultNotRun     ItemResult = "NOT_RUN"
	ResultInProgress ItemResult = "IN_PROGRESS"
	ResultPass       ItemResult = "PASS"
	ResultFail       ItemResult = "FAIL"
	ResultBlock      ItemResult = "BLOCK"
)

// Valid reports whether r is one of the known results.
func (r ItemResult) Valid() bool {
	switch r {
	case ResultNotRun, ResultInProgress, ResultPass, ResultFail, ResultBlock:
		return true
	}
	return false
}

type Plan struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedBy   string     `json:"createdBy" gorm:"size:100"`
	Status      PlanStatus `json:"status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// 关联
	Items []PlanItem `json:"items,omitempty" gorm:"foreignKey:PlanID"`

	// 计算字段
	Stats *PlanStats `json:"stats,omitempty" gorm:"-"`
}

type PlanItem struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	PlanID     uint       `json:"planId" gorm:"not null;index"`
	TestCaseID uint       `json:"testCaseId" gorm:"not null;index"`
	Assignee   *string    `json:"assignee" gorm:"size:100;index"`
	Result     ItemResult `json:"result" gorm:"size:20;default:NOT_RUN;index"`
	Comment    *string    `json:"comment" gorm:"type:text"`
	ExecutedAt *time.Time `json:"executedAt"`
	SortOrder  int        `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// 关联
	Plan     *Plan     `json:"-" gorm:"foreignKey:PlanID"`
	TestCase *TestCase `json:"testCase,omitempty" gorm:"foreignKey:TestCaseID"`
}

// PlanStats is the roll-up of a plan's item results.
type PlanStats struct {
	Total      int `json:"total"`
	Pass       int `json:"pass"`
	Fail       int `json:"fail"`
	Block      int `json:"block"`
	InProgress int `json:"inProgress"`
	NotRun     int `json:"notRun"`
	Progress   int `json:"progress"`
}

type PlanCreateRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description string  `json:"description"`
	TestCaseIDs []uint  `json:"testCaseIds" validate:"required,min=1"`
	Assignee    *string `json:"assignee" validate:"omitempty,max=100"`
}

type PlanUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description"`
	TestCaseIDs []uint  `json:"testCaseIds"`
}

// PlanItemUpdateRequest patches a plan item; nil fields are left unchanged.
type PlanItemUpdateRequest struct {
	Result   *ItemResult `json:"result" validate:"omitempty,oneof=NOT_RUN IN_PROGRESS PASS FAIL BLOCK"`
	Comment  *string     `json:"comment"`
	Assignee *string     `json:"assignee" validate:"omitempty,max=100"`
}

// Empty reports whether the request carries no field to change.
func (r *PlanItemUpdateRequest) Empty() bool {
	return r.Result == nil && r.Comment == nil && r.Assignee == nil
}

type PlanItemBulkUpdateRequest struct {
	ItemIDs []uint `json:"itemIds" validate:"required,min=1"`
	PlanItemUpdateRequest
}

type BulkUpdateResult struct {
	Updated int64 `json:"updated"`
}

// PlanDeleteResult reports the rows removed by a plan delete.
type PlanDeleteResult struct {
	Plans     int64 `json:"plans"`
	PlanItems int64 `json:"planItems"`
}
