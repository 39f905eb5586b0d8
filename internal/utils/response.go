package utils

import (
	"net/http"

	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, models.Response{
		Success: false,
		Message: message,
	})
}

func ErrorWithData(c *gin.Context, code int, message string, errors interface{}) {
	c.JSON(code, models.Response{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}

// ValidationError reports request validation failures. Validator errors are
// flattened to field -> rule; anything else is passed through as its message.
func ValidationError(c *gin.Context, err error) {
	if fields := validator.FieldErrors(err); fields != nil {
		ErrorWithData(c, http.StatusBadRequest, "validation failed", fields)
		return
	}
	Error(c, http.StatusBadRequest, err.Error())
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	Error(c, http.StatusBadRequest, message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}
	Error(c, http.StatusForbidden, message)
}
