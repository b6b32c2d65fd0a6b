package models

import "time"

// AnswerType tags an edge with the answer that follows it.
type AnswerType string

const (
	AnswerYes  AnswerType = "yes"
	AnswerNo   AnswerType = "no"
	AnswerNext AnswerType = "next"
)

func (a AnswerType) Valid() bool {
	switch a {
	case AnswerYes, AnswerNo, AnswerNext:
		return true
	}
	return false
}

// Edge is a directed arc between two nodes of the same questionnaire.
// A source node can carry at most one edge per answer type.
type Edge struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SourceID      uint       `gorm:"column:source_id;not null;uniqueIndex:uniq_answer_type_per_source" json:"source_id"`
	DestinationID uint       `gorm:"column:destination_id;not null" json:"destination_id"`
	AnswerType    AnswerType `gorm:"column:answer_type;size:20;not null;uniqueIndex:uniq_answer_type_per_source" json:"answer_type"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Source      *Node `gorm:"foreignKey:SourceID;constraint:OnDelete:CASCADE" json:"-"`
	Destination *Node `gorm:"foreignKey:DestinationID;constraint:OnDelete:CASCADE" json:"destination,omitempty"`
}

func (Edge) TableName() string {
	return "edges"
}
