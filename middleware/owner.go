package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/models"
)

// CheckQuestionnaireOwner loads the questionnaire from the :slug param,
// verifies the caller owns it and puts it into the context. Non-owners get
// a 404, not a 403, so slugs are not probeable.
func CheckQuestionnaireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		slug := c.Param("slug")
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Missing questionnaire slug"})
			return
		}

		var q models.Questionnaire
		err := config.DB.Where("slug = ? AND owner_id = ?", slug, u.ID).First(&q).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Questionnaire not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load questionnaire"})
			return
		}

		c.Set(CtxQuestionnaire, q)
		c.Next()
	}
}
