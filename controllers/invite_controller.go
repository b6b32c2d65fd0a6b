package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/middleware"
	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/services"
)

type createInviteReq struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateInvite invites a registered user by email. Inviting the same user
// twice returns the existing invite.
func CreateInvite(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var req createInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var invited models.User
	err := config.DB.Where("email = ?", req.Email).First(&invited).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user with that email"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot look up user"})
		return
	}

	invite, err := services.CreateInvite(config.DB, &q, &invited)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func ListInvites(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	invites, err := services.GetInvites(config.DB, &q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot list invites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

func RevokeInvite(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	inviteID, err := strconv.Atoi(c.Param("inviteID"))
	if err != nil || inviteID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invite id"})
		return
	}

	invite, err := services.GetInviteByID(config.DB, &q, uint(inviteID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := services.RevokeInvite(config.DB, invite); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "revoked"})
}
