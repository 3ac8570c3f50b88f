// Package handlers contains the gin handlers for the planner API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dinner-planner/internal/pkg/common"
)

// respondError maps domain errors onto the API error envelope.
func respondError(c *gin.Context, err error) {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, common.ErrorResponse{
			Code:    custom.Code,
			Message: custom.Message,
		})
		return
	}
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	common.LogError("request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// pathID parses the named int64 path parameter, answering 400 when invalid.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid " + name,
		})
		return 0, false
	}
	return id, true
}
