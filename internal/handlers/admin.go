package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves account moderation. Routes are behind AdminMiddleware.
type AdminHandler struct {
	userService *services.UserService
}

func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// GetUsers lists accounts; ?status=PENDING|ACTIVE|REJECTED filters them.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, users)
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ApproveUser(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "user approved", user)
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.RejectUser(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "user rejected", user)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UserRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), currentUser(c).ID, id, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "role updated", user)
}
