package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/pkg/fault"
)

// ActivateQuestionnaire publishes a questionnaire with the given access
// type after validating its graph. DRAFT is not a legal target; use
// DeactivateQuestionnaire for that. Re-activating with the current state is
// allowed and re-runs validation. On any violation the state is unchanged.
func ActivateQuestionnaire(db *gorm.DB, q *models.Questionnaire, target models.AccessType) error {
	if target == models.AccessDraft {
		return fault.NewValidationError("use deactivate to set draft status")
	}
	if !target.Valid() {
		return fault.NewValidationError("invalid access_type '%s': must be public, private or invite_only", target)
	}
	violations, err := ValidateGraph(db, q)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return fault.NewValidationError("cannot activate questionnaire: %s", strings.Join(violations, "; "))
	}
	if err := db.Model(q).Update("access_type", target).Error; err != nil {
		return err
	}
	q.AccessType = target
	return nil
}

// DeactivateQuestionnaire retreats to draft. Always legal, no validation.
func DeactivateQuestionnaire(db *gorm.DB, q *models.Questionnaire) error {
	if err := db.Model(q).Update("access_type", models.AccessDraft).Error; err != nil {
		return err
	}
	q.AccessType = models.AccessDraft
	return nil
}
