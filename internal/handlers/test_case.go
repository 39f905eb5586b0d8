package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"
	"github.com/koesnuj/portfolio-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
)

const maxTestCasePageSize = 200

type TestCaseHandler struct {
	testCaseService *services.TestCaseService
}

func NewTestCaseHandler(testCaseService *services.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{testCaseService: testCaseService}
}

func (h *TestCaseHandler) GetTestCases(c *gin.Context) {
	var req models.TestCaseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, "invalid query parameters")
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > maxTestCasePageSize {
		req.Limit = maxTestCasePageSize
	}
	if err := validator.ValidateStruct(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}

	testCases, pagination, err := h.testCaseService.ListTestCases(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"testCases":  testCases,
		"pagination": pagination,
	})
}

func (h *TestCaseHandler) GetTestCase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tc, err := h.testCaseService.GetTestCase(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, tc)
}

func (h *TestCaseHandler) CreateTestCase(c *gin.Context) {
	var req models.TestCaseCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	tc, err := h.testCaseService.CreateTestCase(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, tc)
}

func (h *TestCaseHandler) UpdateTestCase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.TestCaseUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	tc, err := h.testCaseService.UpdateTestCase(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, tc)
}

func (h *TestCaseHandler) DeleteTestCase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.testCaseService.DeleteTestCase(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "test case deleted", result)
}

func (h *TestCaseHandler) BulkDeleteTestCases(c *gin.Context) {
	var req models.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.testCaseService.BulkDeleteTestCases(c.Request.Context(), req.IDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "test cases deleted", result)
}

func (h *TestCaseHandler) ReorderTestCases(c *gin.Context) {
	var req models.TestCaseReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.testCaseService.ReorderTestCases(c.Request.Context(), req.Items); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "test cases reordered", nil)
}

func (h *TestCaseHandler) MoveTestCases(c *gin.Context) {
	var req models.TestCaseMoveRequest
	if !bindJSON(c, &req) {
		return
	}

	moved, err := h.testCaseService.MoveTestCases(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"moved": moved})
}
