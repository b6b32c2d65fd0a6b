package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
)

// StartSession creates a fresh session for the given identity. When the
// questionnaire has a start node its visit is recorded immediately at
// order 1.
func StartSession(db *gorm.DB, q *models.Questionnaire, user *models.User, sessionKey string) (*models.QuestionnaireSession, error) {
	session := models.QuestionnaireSession{
		QuestionnaireID: q.ID,
		SessionKey:      sessionKey,
	}
	if user != nil {
		session.UserID = &user.ID
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	if q.StartNodeID != nil {
		if _, err := RecordNodeVisit(db, &session, *q.StartNodeID, ""); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

// RecordNodeVisit appends one response row at max(order)+1. The order is
// read-then-write without locking; the unique (session, order) index is the
// backstop when two writers race, and the loser gets gorm.ErrDuplicatedKey.
func RecordNodeVisit(db *gorm.DB, session *models.QuestionnaireSession, nodeID uint, answerGiven string) (*models.NodeResponse, error) {
	var lastOrder uint
	row := db.Model(&models.NodeResponse{}).
		Where("session_id = ?", session.ID).
		Select("COALESCE(MAX(step_order), 0)").
		Row()
	if err := row.Scan(&lastOrder); err != nil {
		return nil, err
	}
	resp := models.NodeResponse{
		SessionID:   session.ID,
		NodeID:      nodeID,
		AnswerGiven: answerGiven,
		Order:       lastOrder + 1,
	}
	if err := db.Create(&resp).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordAnswerAndAdvance back-fills the answer on the most recent visit of
// currentNode, then records a visit to the destination. A missing row for
// currentNode is a silent no-op: it cannot happen when the player drove the
// respondent here, and recording the advance is still the right outcome.
func RecordAnswerAndAdvance(db *gorm.DB, session *models.QuestionnaireSession, currentNode *models.Node, answerType models.AnswerType, destination *models.Node) (*models.NodeResponse, error) {
	var last models.NodeResponse
	err := db.Where("session_id = ? AND node_id = ?", session.ID, currentNode.ID).
		Order("step_order DESC").
		First(&last).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no row to back-fill
	case err != nil:
		return nil, err
	default:
		if err := db.Model(&last).Update("answer_given", string(answerType)).Error; err != nil {
			return nil, err
		}
	}
	return RecordNodeVisit(db, session, destination.ID, "")
}

// CompleteSession flags the session done and stamps the time. Calling it
// again just re-stamps.
func CompleteSession(db *gorm.DB, session *models.QuestionnaireSession) error {
	now := time.Now()
	if err := db.Model(session).Updates(map[string]interface{}{
		"is_complete":  true,
		"completed_at": now,
	}).Error; err != nil {
		return err
	}
	session.IsComplete = true
	session.CompletedAt = &now
	return nil
}

// GetActiveSession finds the most recent incomplete session for
// (questionnaire, identity), or nil when there is none. Identity is the
// user when present, else the anonymous session key, never both and never
// a fallback from one to the other. Equal timestamps break on highest id.
func GetActiveSession(db *gorm.DB, q *models.Questionnaire, user *models.User, sessionKey string) (*models.QuestionnaireSession, error) {
	query := db.Where("questionnaire_id = ? AND is_complete = ?", q.ID, false)
	if user != nil {
		query = query.Where("user_id = ?", user.ID)
	} else {
		query = query.Where("user_id IS NULL AND session_key = ?", sessionKey)
	}

	var session models.QuestionnaireSession
	err := query.Order("started_at DESC, id DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOrCreateActiveSession resumes the active session for (questionnaire,
// identity) or starts a new one.
func GetOrCreateActiveSession(db *gorm.DB, q *models.Questionnaire, user *models.User, sessionKey string) (*models.QuestionnaireSession, error) {
	existing, err := GetActiveSession(db, q, user, sessionKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return StartSession(db, q, user, sessionKey)
}

// GetSessionResponses returns the session's trail in path order with nodes
// loaded.
func GetSessionResponses(db *gorm.DB, session *models.QuestionnaireSession) ([]models.NodeResponse, error) {
	var responses []models.NodeResponse
	err := db.Preload("Node").
		Where("session_id = ?", session.ID).
		Order("step_order ASC").
		Find(&responses).Error
	return responses, err
}

// GetCompletedSessions returns a user's completed sessions, most recent
// first.
func GetCompletedSessions(db *gorm.DB, user *models.User) ([]models.QuestionnaireSession, error) {
	var sessions []models.QuestionnaireSession
	err := db.Preload("Questionnaire").
		Where("user_id = ? AND is_complete = ?", user.ID, true).
		Order("completed_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// GetLatestCompletedSession finds the most recently completed session for
// (questionnaire, identity), if any.
func GetLatestCompletedSession(db *gorm.DB, q *models.Questionnaire, user *models.User, sessionKey string) (*models.QuestionnaireSession, error) {
	query := db.Where("questionnaire_id = ? AND is_complete = ?", q.ID, true)
	if user != nil {
		query = query.Where("user_id = ?", user.ID)
	} else {
		query = query.Where("user_id IS NULL AND session_key = ?", sessionKey)
	}
	var session models.QuestionnaireSession
	err := query.Order("completed_at DESC, id DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
