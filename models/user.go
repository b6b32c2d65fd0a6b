package models

import "time"

type User struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;size:150;not null" json:"username"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Slug         string    `gorm:"column:slug;size:150;uniqueIndex;not null" json:"slug"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Questionnaires []Questionnaire        `gorm:"foreignKey:OwnerID" json:"-"`
	Invites        []QuestionnaireInvite  `gorm:"foreignKey:InvitedUserID" json:"-"`
	Sessions       []QuestionnaireSession `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
