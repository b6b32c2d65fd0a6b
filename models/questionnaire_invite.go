package models

import "time"

// QuestionnaireInvite grants one user access to an invite-only questionnaire.
// One row per (questionnaire, user); creation is idempotent.
type QuestionnaireInvite struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionnaireID uint      `gorm:"column:questionnaire_id;not null;uniqueIndex:uniq_questionnaire_invite" json:"questionnaire_id"`
	InvitedUserID   uint      `gorm:"column:invited_user_id;not null;uniqueIndex:uniq_questionnaire_invite" json:"invited_user_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Questionnaire *Questionnaire `gorm:"foreignKey:QuestionnaireID;constraint:OnDelete:CASCADE" json:"-"`
	InvitedUser   *User          `gorm:"foreignKey:InvitedUserID;constraint:OnDelete:CASCADE" json:"invited_user,omitempty"`
}

func (QuestionnaireInvite) TableName() string {
	return "questionnaire_invites"
}
