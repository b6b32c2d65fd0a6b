package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/middleware"
	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/services"
)

// respondentKey returns the anonymous identity for this request. When the
// caller is authenticated the key is irrelevant and empty; otherwise the
// X-Respondent-Key header is used, minted fresh if the client has none yet.
// Clients must echo the returned key on subsequent play requests.
func respondentKey(c *gin.Context, user *models.User) string {
	if user != nil {
		return ""
	}
	key := c.GetHeader(middleware.HeaderRespondentKey)
	if key == "" {
		key = uuid.New().String()
	}
	return key
}

// loadPlayableQuestionnaire resolves :slug and gates it through the access
// policy for the current identity.
func loadPlayableQuestionnaire(c *gin.Context) (*models.Questionnaire, *models.User, bool) {
	user := middleware.CurrentUser(c)

	var q models.Questionnaire
	err := config.DB.Where("slug = ?", c.Param("slug")).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Questionnaire not found"})
		return nil, nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load questionnaire"})
		return nil, nil, false
	}

	allowed, err := services.CanPlay(config.DB, &q, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot check access"})
		return nil, nil, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"message": "You cannot play this questionnaire"})
		return nil, nil, false
	}
	return &q, user, true
}

// StartQuestionnaire starts or resumes a session and returns the start
// node. Anonymous respondents get their key back and must send it on every
// following request.
func StartQuestionnaire(c *gin.Context) {
	q, user, ok := loadPlayableQuestionnaire(c)
	if !ok {
		return
	}

	if q.StartNodeID == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "This questionnaire has no starting step"})
		return
	}

	key := respondentKey(c, user)
	session, err := services.GetOrCreateActiveSession(config.DB, q, user, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var start models.Node
	if err := config.DB.First(&start, *q.StartNodeID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load start node"})
		return
	}
	edges, err := services.GetOutgoingEdges(config.DB, &start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load edges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":        session,
		"respondent_key": key,
		"node":           start,
		"outgoing_edges": edges,
		"is_terminal":    start.NodeType == models.NodeTerminal,
	})
}

// GetPlayNode shows one node with its outgoing edges.
func GetPlayNode(c *gin.Context) {
	q, _, ok := loadPlayableQuestionnaire(c)
	if !ok {
		return
	}

	var node models.Node
	err := config.DB.Where("questionnaire_id = ? AND slug = ?", q.ID, c.Param("node")).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Node not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load node"})
		return
	}

	edges, err := services.GetOutgoingEdges(config.DB, &node)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load edges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node":           node,
		"outgoing_edges": edges,
		"is_terminal":    node.NodeType == models.NodeTerminal,
	})
}

type answerReq struct {
	AnswerType models.AnswerType `json:"answer_type" binding:"required"`
}

// AnswerNode records the answer on the current node and advances the
// session to the edge's destination, which it returns.
func AnswerNode(c *gin.Context) {
	q, user, ok := loadPlayableQuestionnaire(c)
	if !ok {
		return
	}

	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var node models.Node
	err := config.DB.Where("questionnaire_id = ? AND slug = ?", q.ID, c.Param("node")).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Node not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load node"})
		return
	}

	destination, err := services.GetDestinationForAnswer(config.DB, &node, req.AnswerType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	key := respondentKey(c, user)
	session, err := services.GetOrCreateActiveSession(config.DB, q, user, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := services.RecordAnswerAndAdvance(config.DB, session, &node, req.AnswerType, destination); err != nil {
		respondServiceError(c, err)
		return
	}

	edges, err := services.GetOutgoingEdges(config.DB, destination)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load edges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node":           destination,
		"outgoing_edges": edges,
		"is_terminal":    destination.NodeType == models.NodeTerminal,
		"respondent_key": key,
	})
}

// CompleteQuestionnaire marks the active session complete and returns the
// recorded path. With no active session it never starts one: a repeated
// complete shows the most recent finished run instead.
func CompleteQuestionnaire(c *gin.Context) {
	q, user, ok := loadPlayableQuestionnaire(c)
	if !ok {
		return
	}

	key := respondentKey(c, user)
	session, err := services.GetActiveSession(config.DB, q, user, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if session == nil {
		session, err = services.GetLatestCompletedSession(config.DB, q, user, key)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if session == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No session to complete"})
			return
		}
	} else if err := services.CompleteSession(config.DB, session); err != nil {
		respondServiceError(c, err)
		return
	}

	responses, err := services.GetSessionResponses(config.DB, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"responses": responses,
	})
}

// GetPlayHistory shows the most recently completed run for this identity.
func GetPlayHistory(c *gin.Context) {
	q, user, ok := loadPlayableQuestionnaire(c)
	if !ok {
		return
	}

	key := respondentKey(c, user)
	session, err := services.GetLatestCompletedSession(config.DB, q, user, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"session": nil, "responses": []models.NodeResponse{}})
		return
	}

	responses, err := services.GetSessionResponses(config.DB, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot load responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"responses": responses,
	})
}

// GetCompletedSessions lists the authenticated user's completed runs across
// all questionnaires.
func GetCompletedSessions(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	sessions, err := services.GetCompletedSessions(config.DB, &u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
