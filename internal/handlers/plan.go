package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GetPlans lists plans; ?status=ACTIVE|ARCHIVED|ALL, ACTIVE when omitted.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, plans)
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.PlanCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	createdBy := ""
	if user := currentUser(c); user != nil {
		createdBy = user.Name
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), createdBy, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlanDetail(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, plan)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.PlanUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, plan)
}

func (h *PlanHandler) ArchivePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.ArchivePlan(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "plan archived", plan)
}

func (h *PlanHandler) UnarchivePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.UnarchivePlan(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "plan restored", plan)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "plan deleted", nil)
}

func (h *PlanHandler) BulkDeletePlans(c *gin.Context) {
	var req models.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.planService.BulkDeletePlans(c.Request.Context(), req.IDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "plans deleted", result)
}

func (h *PlanHandler) UpdatePlanItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req models.PlanItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.planService.UpdatePlanItem(c.Request.Context(), itemID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, item)
}

func (h *PlanHandler) BulkUpdatePlanItems(c *gin.Context) {
	planID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.PlanItemBulkUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.planService.BulkUpdatePlanItems(c.Request.Context(), planID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, models.BulkUpdateResult{Updated: updated})
}
