package handlers

import (
	"strconv"

	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	stats, err := h.dashboardService.GetOverviewStats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

func (h *DashboardHandler) GetActivePlans(c *gin.Context) {
	plans, err := h.dashboardService.GetActivePlans(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, plans)
}

// GetMyAssignments matches items by the caller's display name.
func (h *DashboardHandler) GetMyAssignments(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}

	assignments, err := h.dashboardService.GetMyAssignments(c.Request.Context(), user.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, assignments)
}

func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	activity, err := h.dashboardService.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, activity)
}
