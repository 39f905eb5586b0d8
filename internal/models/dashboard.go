package models

import (
	"time"
)

// OverviewStats summarises the whole workspace for the dashboard header.
type OverviewStats struct {
	TotalTestCases int64 `json:"totalTestCases"`
	TotalFolders   int64 `json:"totalFolders"`
	ActivePlans    int64 `json:"activePlans"`
	ArchivedPlans  int64 `json:"archivedPlans"`
	TotalItems     int64 `json:"totalItems"`
	Pass           int64 `json:"pass"`
	Fail           int64 `json:"fail"`
	Block          int64 `json:"block"`
	InProgress     int64 `json:"inProgress"`
	NotRun         int64 `json:"notRun"`
	// PassRate is pass over executed (pass+fail+block) items, in percent.
	PassRate int `json:"passRate"`
}

type ActivePlanSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Pass      int       `json:"pass"`
	Fail      int       `json:"fail"`
	Block     int       `json:"block"`
	Progress  int       `json:"progress"`
}

type AssignmentItem struct {
	ItemID     uint       `json:"itemId"`
	PlanID     uint       `json:"planId"`
	PlanName   string     `json:"planName"`
	TestCaseID uint       `json:"testCaseId"`
	CaseNumber int        `json:"caseNumber"`
	Title      string     `json:"title"`
	Priority   Priority   `json:"priority"`
	Result     ItemResult `json:"result"`
	ExecutedAt *time.Time `json:"executedAt"`
}

type MyAssignments struct {
	Total   int              `json:"total"`
	Pending int              `json:"pending"`
	Items   []AssignmentItem `json:"items"`
}

type ActivityEntry struct {
	ItemID     uint       `json:"itemId"`
	PlanID     uint       `json:"planId"`
	PlanName   string     `json:"planName"`
	TestCaseID uint       `json:"testCaseId"`
	CaseNumber int        `json:"caseNumber"`
	Title      string     `json:"title"`
	Assignee   *string    `json:"assignee"`
	Result     ItemResult `json:"result"`
	ExecutedAt *time.Time `json:"executedAt"`
}
