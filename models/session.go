package models

import "time"

// QuestionnaireSession is one respondent's walk through a questionnaire.
// Authenticated respondents are keyed by UserID, anonymous ones by an
// opaque SessionKey; exactly one of the two identifies a session.
type QuestionnaireSession struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionnaireID uint       `gorm:"column:questionnaire_id;not null;index" json:"questionnaire_id"`
	UserID          *uint      `gorm:"column:user_id" json:"user_id"`
	SessionKey      string     `gorm:"column:session_key;size:40;default:''" json:"session_key"`
	IsComplete      bool       `gorm:"column:is_complete;default:false" json:"is_complete"`
	StartedAt       time.Time  `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at"`

	Questionnaire *Questionnaire `gorm:"foreignKey:QuestionnaireID;constraint:OnDelete:CASCADE" json:"-"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Responses []NodeResponse `gorm:"foreignKey:SessionID" json:"-"`
}

func (QuestionnaireSession) TableName() string {
	return "questionnaire_sessions"
}
