package models

import "time"

// NodeResponse is one visited step of a session. Order starts at 1 and
// grows by one per visit; AnswerGiven stays empty until the respondent
// answers and the row is back-filled.
type NodeResponse struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionID   uint      `gorm:"column:session_id;not null;uniqueIndex:uniq_response_order_per_session" json:"session_id"`
	NodeID      uint      `gorm:"column:node_id;not null" json:"node_id"`
	AnswerGiven string    `gorm:"column:answer_given;size:20;default:''" json:"answer_given"`
	Order       uint      `gorm:"column:step_order;not null;uniqueIndex:uniq_response_order_per_session" json:"order"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Session *QuestionnaireSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Node    *Node                 `gorm:"foreignKey:NodeID;constraint:OnDelete:CASCADE" json:"node,omitempty"`
}

func (NodeResponse) TableName() string {
	return "node_responses"
}
