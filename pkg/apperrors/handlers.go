package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный конверт ответа об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError - отправляет AppError клиенту в стандартном конверте.
// Серверные ошибки (5xx) дополнительно логируются.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		slog.Error("server error", "error", err.Error(), "path", c.Request.URL.Path)
	}
	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}
