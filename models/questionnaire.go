package models

import "time"

// AccessType governs who may play a questionnaire. Draft doubles as the
// "unpublished" state; the other three are published variants.
type AccessType string

const (
	AccessDraft      AccessType = "draft"
	AccessPublic     AccessType = "public"
	AccessPrivate    AccessType = "private"
	AccessInviteOnly AccessType = "invite_only"
)

func (a AccessType) Valid() bool {
	switch a {
	case AccessDraft, AccessPublic, AccessPrivate, AccessInviteOnly:
		return true
	}
	return false
}

type Questionnaire struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	Slug        string     `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	OwnerID     uint       `gorm:"column:owner_id;not null" json:"owner_id"`
	AccessType  AccessType `gorm:"column:access_type;size:20;default:'draft'" json:"access_type"`
	StartNodeID *uint      `gorm:"column:start_node_id" json:"start_node_id"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Owner     *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	StartNode *Node `gorm:"foreignKey:StartNodeID;constraint:OnDelete:SET NULL" json:"-"`

	Nodes    []Node                 `gorm:"foreignKey:QuestionnaireID" json:"-"`
	Sessions []QuestionnaireSession `gorm:"foreignKey:QuestionnaireID" json:"-"`
	Invites  []QuestionnaireInvite  `gorm:"foreignKey:QuestionnaireID" json:"-"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}
