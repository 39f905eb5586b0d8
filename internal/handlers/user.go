package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "profile updated", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.PasswordChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), currentUser(c).ID, &req); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "password changed", nil)
}

func (h *UserHandler) GetAssignees(c *gin.Context) {
	names, err := h.userService.ListAssignees(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, names)
}
