package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"
	"github.com/koesnuj/portfolio-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// handleServiceError writes the response for an error returned by a service.
// Unclassified errors are logged and hidden behind a generic 500.
func handleServiceError(c *gin.Context, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).WithError(err).Error("request failed")
		utils.InternalError(c)
		return
	}

	switch se.Kind {
	case services.KindValidation:
		if se.Field != "" {
			utils.ErrorWithData(c, http.StatusBadRequest, se.Message, map[string]string{se.Field: se.Message})
			return
		}
		utils.BadRequest(c, se.Message)
	case services.KindNotFound:
		utils.NotFound(c, se.Message)
	case services.KindConflict:
		utils.Error(c, http.StatusConflict, se.Message)
	case services.KindUnauthorized:
		utils.Unauthorized(c, se.Message)
	case services.KindForbidden:
		utils.Forbidden(c, se.Message)
	default:
		utils.InternalError(c)
	}
}

// paramID parses a positive numeric path parameter, answering 400 on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the user stored by the auth middleware.
func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get("user")
	user, _ := u.(*models.User)
	return user
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequest(c, "malformed request body")
		return false
	}
	if err := validator.ValidateStruct(req); err != nil {
		utils.ValidationError(c, err)
		return false
	}
	return true
}
