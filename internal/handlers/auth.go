package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/config"
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	config      *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

// Register creates the account. Only an account that is immediately active
// (the first one) receives a token; others must wait for approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := models.UserResponse{User: user}
	message := "registration received, waiting for administrator approval"
	if user.Status == models.UserActive {
		token, err := h.issueToken(user)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		resp.Token = token
		message = "registration successful"
	}

	utils.SuccessWithMessage(c, message, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.UserLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "login successful", models.UserResponse{
		User:  user,
		Token: token,
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}

	fresh, err := h.authService.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, fresh)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Tokens are stateless; the client discards its copy.
	utils.SuccessWithMessage(c, "logged out", nil)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	return utils.GenerateToken(
		user.ID, user.Email, user.Name, string(user.Role),
		h.config.JWT.Secret, h.config.JWT.ExpireHours)
}
