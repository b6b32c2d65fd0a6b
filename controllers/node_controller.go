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

// loadOwnedNode fetches the :node param within the questionnaire already
// placed in context by CheckQuestionnaireOwner.
func loadOwnedNode(c *gin.Context, q models.Questionnaire) (*models.Node, bool) {
	var node models.Node
	err := config.DB.Where("questionnaire_id = ? AND slug = ?", q.ID, c.Param("node")).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Node not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load node"})
		return nil, false
	}
	return &node, true
}

type createNodeReq struct {
	Content  string          `json:"content" binding:"required,min=1"`
	NodeType models.NodeType `json:"node_type" binding:"required"`
}

func CreateNode(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)

	var req createNodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	node, err := services.CreateNode(config.DB, &q, req.Content, req.NodeType, "")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

type updateNodeReq struct {
	Content  *string          `json:"content"`
	NodeType *models.NodeType `json:"node_type"`
}

func UpdateNode(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)
	node, ok := loadOwnedNode(c, q)
	if !ok {
		return
	}

	var req updateNodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if err := services.UpdateNode(config.DB, node, req.Content, req.NodeType); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func DeleteNode(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)
	node, ok := loadOwnedNode(c, q)
	if !ok {
		return
	}

	if err := services.DeleteNode(config.DB, node); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func SetStartNode(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)
	node, ok := loadOwnedNode(c, q)
	if !ok {
		return
	}

	if err := services.SetStartNode(config.DB, &q, node); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"start_node_id": q.StartNodeID})
}

type createEdgeReq struct {
	DestinationSlug string            `json:"destination_slug" binding:"required"`
	AnswerType      models.AnswerType `json:"answer_type" binding:"required"`
}

// CreateEdge adds an outgoing edge from :node to another node of the same
// questionnaire. A duplicate (source, answer type) pair yields 409.
func CreateEdge(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)
	source, ok := loadOwnedNode(c, q)
	if !ok {
		return
	}

	var req createEdgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var destination models.Node
	err := config.DB.Where("questionnaire_id = ? AND slug = ?", q.ID, req.DestinationSlug).
		First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Destination node not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load destination"})
		return
	}

	edge, err := services.CreateEdge(config.DB, source, &destination, req.AnswerType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, edge)
}

func DeleteEdge(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionnaire).(models.Questionnaire)
	source, ok := loadOwnedNode(c, q)
	if !ok {
		return
	}

	edgeID, err := strconv.Atoi(c.Param("edgeID"))
	if err != nil || edgeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid edge id"})
		return
	}

	var edge models.Edge
	err = config.DB.Where("id = ? AND source_id = ?", edgeID, source.ID).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Edge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load edge"})
		return
	}

	if err := services.DeleteEdge(config.DB, &edge); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
