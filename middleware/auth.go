package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/utils"
)

const (
	CtxUser          = "user"             // models.User of the authenticated caller
	CtxQuestionnaire = "questionnaireObj" // models.Questionnaire loaded by owner check

	HeaderRespondentKey = "X-Respondent-Key" // anonymous player identity
)

// AuthJWT checks Authorization: Bearer <token>, validates the JWT, loads
// the user and injects it into the context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		uid, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid subject"})
			return
		}

		var user models.User
		if err := config.DB.First(&user, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid bearer token is present and
// silently continues without one otherwise. Player routes use it: they
// serve both authenticated and anonymous respondents.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.Next()
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.Next()
			return
		}
		uid, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			c.Next()
			return
		}
		var user models.User
		if err := config.DB.First(&user, uid).Error; err != nil {
			c.Next()
			return
		}
		c.Set(CtxUser, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context, or nil for
// anonymous callers.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, ok := v.(models.User)
	if !ok {
		return nil
	}
	return &u
}
