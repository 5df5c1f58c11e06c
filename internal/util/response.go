package util

import (
	"net/http"

	"math_tutor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the flat {"message": ...} error body every endpoint
// uses. Clients never see stack traces or driver errors.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

func LogInternalError(c *gin.Context, message string, err error) {
	logger.Log.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	InternalServerError(c, message)
}
