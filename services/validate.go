package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
)

// ValidateNodeEdges checks one node's outgoing edges against its type:
//
//	question  — exactly 2 edges, one YES and one NO
//	statement — exactly 1 edge, and it must be NEXT
//	terminal  — no outgoing edges
//
// A statement with zero edges reports only the count violation, not a
// missing NEXT on top of it.
func ValidateNodeEdges(node models.Node, outgoing []models.Edge) []string {
	var errs []string
	types := map[models.AnswerType]bool{}
	for _, e := range outgoing {
		types[e.AnswerType] = true
	}

	switch node.NodeType {
	case models.NodeQuestion:
		if len(outgoing) != 2 {
			errs = append(errs, fmt.Sprintf("Question '%s' must have exactly 2 answers (YES and NO).", node.Slug))
		}
		if !types[models.AnswerYes] {
			errs = append(errs, fmt.Sprintf("Question '%s' is missing a YES answer.", node.Slug))
		}
		if !types[models.AnswerNo] {
			errs = append(errs, fmt.Sprintf("Question '%s' is missing a NO answer.", node.Slug))
		}
	case models.NodeStatement:
		if len(outgoing) != 1 {
			errs = append(errs, fmt.Sprintf("Statement '%s' must have exactly 1 answer (NEXT).", node.Slug))
		}
		if len(outgoing) > 0 && !types[models.AnswerNext] {
			errs = append(errs, fmt.Sprintf("Statement '%s' must have a NEXT answer.", node.Slug))
		}
	case models.NodeTerminal:
		if len(outgoing) != 0 {
			errs = append(errs, fmt.Sprintf("Terminal '%s' must have no outgoing answers.", node.Slug))
		}
	}
	return errs
}

// ValidateGraph checks the whole questionnaire: the start node must be set,
// and every node must satisfy its per-type edge rules. Violations come back
// in node id order so messages are reproducible.
func ValidateGraph(db *gorm.DB, q *models.Questionnaire) ([]string, error) {
	var errs []string

	if q.StartNodeID == nil {
		errs = append(errs, "Questionnaire must have a starting step.")
	}

	var nodes []models.Node
	if err := db.Preload("OutgoingEdges").
		Where("questionnaire_id = ?", q.ID).
		Order("id ASC").
		Find(&nodes).Error; err != nil {
		return nil, err
	}
	for _, node := range nodes {
		errs = append(errs, ValidateNodeEdges(node, node.OutgoingEdges)...)
	}
	return errs, nil
}
