package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/pkg/fault"
)

// CreateInvite grants a user access to a questionnaire. Idempotent: a
// second call for the same (questionnaire, user) returns the existing row.
func CreateInvite(db *gorm.DB, q *models.Questionnaire, invitedUser *models.User) (*models.QuestionnaireInvite, error) {
	invite := models.QuestionnaireInvite{
		QuestionnaireID: q.ID,
		InvitedUserID:   invitedUser.ID,
	}
	err := db.Where("questionnaire_id = ? AND invited_user_id = ?", q.ID, invitedUser.ID).
		FirstOrCreate(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// RevokeInvite deletes an invite.
func RevokeInvite(db *gorm.DB, invite *models.QuestionnaireInvite) error {
	return db.Delete(&models.QuestionnaireInvite{}, invite.ID).Error
}

// GetInvites lists a questionnaire's invites with invited users loaded.
func GetInvites(db *gorm.DB, q *models.Questionnaire) ([]models.QuestionnaireInvite, error) {
	var invites []models.QuestionnaireInvite
	err := db.Preload("InvitedUser").
		Where("questionnaire_id = ?", q.ID).
		Order("id ASC").
		Find(&invites).Error
	return invites, err
}

// GetInviteByID loads an invite, verifying it belongs to the questionnaire.
func GetInviteByID(db *gorm.DB, q *models.Questionnaire, inviteID uint) (*models.QuestionnaireInvite, error) {
	var invite models.QuestionnaireInvite
	err := db.Where("id = ? AND questionnaire_id = ?", inviteID, q.ID).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
