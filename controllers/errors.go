package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/pkg/fault"
)

// respondServiceError maps service-layer errors onto HTTP statuses:
// validation faults 422, missing rows 404, constraint conflicts 409,
// everything else 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case fault.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": fault.Message(err)})
	case errors.Is(err, fault.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "Already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
	}
}
