package models

import "time"

// NodeType decides how many outgoing edges a node must carry: questions
// branch on YES/NO, statements continue with NEXT, terminals end the path.
type NodeType string

const (
	NodeQuestion  NodeType = "question"
	NodeStatement NodeType = "statement"
	NodeTerminal  NodeType = "terminal"
)

func (n NodeType) Valid() bool {
	switch n {
	case NodeQuestion, NodeStatement, NodeTerminal:
		return true
	}
	return false
}

type Node struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionnaireID uint      `gorm:"column:questionnaire_id;not null;uniqueIndex:uniq_node_slug_per_questionnaire" json:"questionnaire_id"`
	Slug            string    `gorm:"column:slug;size:255;not null;uniqueIndex:uniq_node_slug_per_questionnaire" json:"slug"`
	Content         string    `gorm:"column:content;type:text;not null" json:"content"`
	NodeType        NodeType  `gorm:"column:node_type;size:20;not null" json:"node_type"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Questionnaire *Questionnaire `gorm:"foreignKey:QuestionnaireID;constraint:OnDelete:CASCADE" json:"-"`

	OutgoingEdges []Edge `gorm:"foreignKey:SourceID" json:"outgoing_edges,omitempty"`
	IncomingEdges []Edge `gorm:"foreignKey:DestinationID" json:"-"`
}

func (Node) TableName() string {
	return "nodes"
}
