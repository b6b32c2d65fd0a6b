package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/middleware"
	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/services"
)

type createQuestionnaireReq struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
}

func CreateQuestionnaire(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createQuestionnaireReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	q, err := services.CreateQuestionnaire(config.DB, u, req.Title, req.Description, "")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, q)
}

// GetMyQuestionnaires lists the caller's questionnaires, newest first.
func GetMyQuestionnaires(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var qs []models.Questionnaire
	if err := config.DB.Where("owner_id = ?", u.ID).
		Order("created_at DESC").Find(&qs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot list questionnaires"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionnaires": qs})
}

// GetPublicQuestionnaires is the anonymous landing list: public ones only.
func GetPublicQuestionnaires(c *gin.Context) {
	var qs []models.Questionnaire
	if err := config.DB.Where("access_type = ?", models.AccessPublic).
		Order("created_at DESC").Find(&qs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot list questionnaires"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionnaires": qs})
}

// GetQuestionnaireDetail returns the editor view: the questionnaire, its
// nodes with outgoing edges, and current graph violations.
func GetQuestionnaireDetail(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var nodes []models.Node
	if err := config.DB.Preload("OutgoingEdges").Preload("OutgoingEdges.Destination").
		Where("questionnaire_id = ?", q.ID).
		Order("id ASC").Find(&nodes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load nodes"})
		return
	}

	violations, err := services.ValidateGraph(config.DB, &q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot validate graph"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionnaire":     q,
		"nodes":             nodes,
		"validation_errors": violations,
	})
}

type updateQuestionnaireReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func UpdateQuestionnaire(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var req updateQuestionnaireReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if req.Title == nil && req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := services.UpdateQuestionnaire(config.DB, &q, req.Title, req.Description); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func DeleteQuestionnaire(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	if err := services.DeleteQuestionnaire(config.DB, &q); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type activateReq struct {
	AccessType models.AccessType `json:"access_type" binding:"required"`
}

// ActivateQuestionnaire publishes with the requested access type; the
// graph must validate first.
func ActivateQuestionnaire(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var req activateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if err := services.ActivateQuestionnaire(config.DB, &q, req.AccessType); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_type": q.AccessType})
}

func DeactivateQuestionnaire(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	if err := services.DeactivateQuestionnaire(config.DB, &q); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_type": q.AccessType})
}

// ValidateQuestionnaire reports current graph violations without changing
// anything.
func ValidateQuestionnaire(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	violations, err := services.ValidateGraph(config.DB, &q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot validate graph"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"validation_errors": violations, "playable": len(violations) == 0})
}
