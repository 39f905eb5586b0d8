package services

import (
	"errors"
	"fmt"

	"github.com/koesnuj/portfolio-sub001/internal/models"

	"gorm.io/gorm"
)

const caseNumberCounter = "test_case_number"

// nextCaseNumber advances the persisted case number counter. The counter is
// seeded from the current maximum so numbers keep increasing even when the
// newest test case has been deleted. Must run inside a transaction.
func nextCaseNumber(tx *gorm.DB) (int, error) {
	var counter models.Counter
	err := tx.Where("name = ?", caseNumberCounter).First(&counter).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		counter = models.Counter{Name: caseNumberCounter}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("creating case number counter: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("loading case number counter: %w", err)
	}

	var maxNumber int
	if err := tx.Model(&models.TestCase{}).Select("COALESCE(MAX(case_number), 0)").Scan(&maxNumber).Error; err != nil {
		return 0, fmt.Errorf("reading max case number: %w", err)
	}

	next := counter.Value
	if maxNumber > next {
		next = maxNumber
	}
	next++

	if err := tx.Model(&models.Counter{}).Where("name = ?", caseNumberCounter).Update("value", next).Error; err != nil {
		return 0, fmt.Errorf("advancing case number counter: %w", err)
	}
	return next, nil
}

// nextSequence returns 1 + the highest test case sequence inside folderID
// (nil meaning unfiled test cases), or 1 for an empty folder.
func nextSequence(tx *gorm.DB, folderID *uint) (int, error) {
	query := tx.Model(&models.TestCase{}).Select("COALESCE(MAX(sequence), 0)")
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}
	var maxSeq int
	if err := query.Scan(&maxSeq).Error; err != nil {
		return 0, fmt.Errorf("reading max sequence: %w", err)
	}
	return maxSeq + 1, nil
}
