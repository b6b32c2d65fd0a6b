package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/pkg/fault"
)

// CreateQuestionnaire creates a draft questionnaire, generating a unique
// slug from the title when none is given.
func CreateQuestionnaire(db *gorm.DB, owner models.User, title, description, slug string) (*models.Questionnaire, error) {
	if slug == "" {
		var err error
		slug, err = GenerateQuestionnaireSlug(db, title)
		if err != nil {
			return nil, fault.NewInternalError("cannot generate slug", err)
		}
	}
	q := models.Questionnaire{
		Title:       title,
		Slug:        slug,
		Description: description,
		OwnerID:     owner.ID,
		AccessType:  models.AccessDraft,
	}
	if err := db.Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuestionnaire updates title and/or description. Nil means unchanged.
func UpdateQuestionnaire(db *gorm.DB, q *models.Questionnaire, title, description *string) error {
	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return nil
	}
	if err := db.Model(q).Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

// DeleteQuestionnaire removes a questionnaire and everything it owns.
// The cascade is explicit and runs inside one transaction: responses,
// sessions, invites, edges, nodes, then the questionnaire row itself.
func DeleteQuestionnaire(db *gorm.DB, q *models.Questionnaire) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sessionIDs := tx.Model(&models.QuestionnaireSession{}).
			Select("id").Where("questionnaire_id = ?", q.ID)
		if err := tx.Where("session_id IN (?)", sessionIDs).
			Delete(&models.NodeResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("questionnaire_id = ?", q.ID).
			Delete(&models.QuestionnaireSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("questionnaire_id = ?", q.ID).
			Delete(&models.QuestionnaireInvite{}).Error; err != nil {
			return err
		}
		nodeIDs := tx.Model(&models.Node{}).
			Select("id").Where("questionnaire_id = ?", q.ID)
		if err := tx.Where("source_id IN (?) OR destination_id IN (?)", nodeIDs, nodeIDs).
			Delete(&models.Edge{}).Error; err != nil {
			return err
		}
		// start_node_id references a node about to go away
		if err := tx.Model(&models.Questionnaire{}).Where("id = ?", q.ID).
			Update("start_node_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("questionnaire_id = ?", q.ID).
			Delete(&models.Node{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Questionnaire{}, q.ID).Error
	})
}

// CreateNode adds a node to a questionnaire. The type must be one of the
// known node types; the slug is generated from the content when empty.
func CreateNode(db *gorm.DB, q *models.Questionnaire, content string, nodeType models.NodeType, slug string) (*models.Node, error) {
	if !nodeType.Valid() {
		return nil, fault.NewValidationError("invalid node_type '%s': must be question, statement or terminal", nodeType)
	}
	if slug == "" {
		var err error
		slug, err = GenerateNodeSlug(db, q.ID, content)
		if err != nil {
			return nil, fault.NewInternalError("cannot generate slug", err)
		}
	}
	node := models.Node{
		QuestionnaireID: q.ID,
		Slug:            slug,
		Content:         content,
		NodeType:        nodeType,
	}
	if err := db.Create(&node).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// UpdateNode updates content and/or type. A nil field means unchanged.
func UpdateNode(db *gorm.DB, node *models.Node, content *string, nodeType *models.NodeType) error {
	updates := map[string]interface{}{}
	if content != nil {
		updates["content"] = *content
	}
	if nodeType != nil {
		if !nodeType.Valid() {
			return fault.NewValidationError("invalid node_type '%s': must be question, statement or terminal", *nodeType)
		}
		updates["node_type"] = *nodeType
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(node).Updates(updates).Error
}

// DeleteNode removes a node and its incident edges. When the node is the
// questionnaire's start node the reference is cleared first, as a separate
// write, so the delete never leaves it dangling.
func DeleteNode(db *gorm.DB, node *models.Node) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var q models.Questionnaire
		if err := tx.First(&q, node.QuestionnaireID).Error; err != nil {
			return err
		}
		if q.StartNodeID != nil && *q.StartNodeID == node.ID {
			if err := tx.Model(&q).Update("start_node_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("source_id = ? OR destination_id = ?", node.ID, node.ID).
			Delete(&models.Edge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Node{}, node.ID).Error
	})
}

// CreateEdge links two nodes of the same questionnaire. A second edge with
// the same (source, answer type) is rejected by the unique index and comes
// back as gorm.ErrDuplicatedKey.
func CreateEdge(db *gorm.DB, source, destination *models.Node, answerType models.AnswerType) (*models.Edge, error) {
	if !answerType.Valid() {
		return nil, fault.NewValidationError("invalid answer_type '%s': must be yes, no or next", answerType)
	}
	if source.QuestionnaireID != destination.QuestionnaireID {
		return nil, fault.NewValidationError("source and destination nodes must belong to the same questionnaire")
	}
	edge := models.Edge{
		SourceID:      source.ID,
		DestinationID: destination.ID,
		AnswerType:    answerType,
	}
	if err := db.Create(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// DeleteEdge removes a single edge.
func DeleteEdge(db *gorm.DB, edge *models.Edge) error {
	return db.Delete(&models.Edge{}, edge.ID).Error
}

// SetStartNode points the questionnaire at its entry node. The node must
// belong to the questionnaire.
func SetStartNode(db *gorm.DB, q *models.Questionnaire, node *models.Node) error {
	if node.QuestionnaireID != q.ID {
		return fault.NewValidationError("node does not belong to this questionnaire")
	}
	if err := db.Model(q).Update("start_node_id", node.ID).Error; err != nil {
		return err
	}
	q.StartNodeID = &node.ID
	return nil
}

// GetOutgoingEdges returns a node's outgoing edges with destinations loaded,
// ordered by id for stable display.
func GetOutgoingEdges(db *gorm.DB, node *models.Node) ([]models.Edge, error) {
	var edges []models.Edge
	err := db.Preload("Destination").
		Where("source_id = ?", node.ID).
		Order("id ASC").
		Find(&edges).Error
	return edges, err
}

// GetDestinationForAnswer resolves the edge for an answer type and returns
// its destination node. Used by the player to drive traversal.
func GetDestinationForAnswer(db *gorm.DB, node *models.Node, answerType models.AnswerType) (*models.Node, error) {
	var edge models.Edge
	err := db.Preload("Destination").
		Where("source_id = ? AND answer_type = ?", node.ID, answerType).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return edge.Destination, nil
}
