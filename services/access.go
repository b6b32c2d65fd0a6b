package services

import (
	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
)

// CanPlay decides whether a user (nil for anonymous) may play a
// questionnaire. The owner always may; otherwise draft and private are
// owner-only, public is open to everyone, and invite_only requires an
// invite row. Anything unrecognized denies.
func CanPlay(db *gorm.DB, q *models.Questionnaire, user *models.User) (bool, error) {
	if user != nil && user.ID == q.OwnerID {
		return true, nil
	}
	switch q.AccessType {
	case models.AccessPublic:
		return true, nil
	case models.AccessDraft, models.AccessPrivate:
		return false, nil
	case models.AccessInviteOnly:
		if user == nil {
			return false, nil
		}
		var count int64
		err := db.Model(&models.QuestionnaireInvite{}).
			Where("questionnaire_id = ? AND invited_user_id = ?", q.ID, user.ID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		return count > 0, nil
	default:
		return false, nil
	}
}
