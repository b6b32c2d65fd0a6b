package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/noyes-server/models"
)

func edgesOf(types ...models.AnswerType) []models.Edge {
	var edges []models.Edge
	for _, t := range types {
		edges = append(edges, models.Edge{AnswerType: t})
	}
	return edges
}

func TestValidateNodeEdges(t *testing.T) {
	tests := []struct {
		name     string
		nodeType models.NodeType
		edges    []models.Edge
		want     []string
	}{
		{
			name:     "question with yes and no is valid",
			nodeType: models.NodeQuestion,
			edges:    edgesOf(models.AnswerYes, models.AnswerNo),
			want:     nil,
		},
		{
			name:     "question with no edges",
			nodeType: models.NodeQuestion,
			edges:    nil,
			want: []string{
				"Question 'n' must have exactly 2 answers (YES and NO).",
				"Question 'n' is missing a YES answer.",
				"Question 'n' is missing a NO answer.",
			},
		},
		{
			name:     "question missing no",
			nodeType: models.NodeQuestion,
			edges:    edgesOf(models.AnswerYes),
			want: []string{
				"Question 'n' must have exactly 2 answers (YES and NO).",
				"Question 'n' is missing a NO answer.",
			},
		},
		{
			name:     "question with yes and next",
			nodeType: models.NodeQuestion,
			edges:    edgesOf(models.AnswerYes, models.AnswerNext),
			want: []string{
				"Question 'n' is missing a NO answer.",
			},
		},
		{
			name:     "statement with next is valid",
			nodeType: models.NodeStatement,
			edges:    edgesOf(models.AnswerNext),
			want:     nil,
		},
		{
			// zero edges reports only the count rule, not a missing NEXT too
			name:     "statement with no edges reports one violation",
			nodeType: models.NodeStatement,
			edges:    nil,
			want: []string{
				"Statement 'n' must have exactly 1 answer (NEXT).",
			},
		},
		{
			name:     "statement with wrong edge type",
			nodeType: models.NodeStatement,
			edges:    edgesOf(models.AnswerYes),
			want: []string{
				"Statement 'n' must have a NEXT answer.",
			},
		},
		{
			name:     "terminal with no edges is valid",
			nodeType: models.NodeTerminal,
			edges:    nil,
			want:     nil,
		},
		{
			name:     "terminal with an edge",
			nodeType: models.NodeTerminal,
			edges:    edgesOf(models.AnswerNext),
			want: []string{
				"Terminal 'n' must have no outgoing answers.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := models.Node{Slug: "n", NodeType: tt.nodeType}
			got := ValidateNodeEdges(node, tt.edges)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateGraphStartNode(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	q := seedQuestionnaire(t, db, owner, "Quiz")

	// no start node, no nodes: exactly the start-node violation
	violations, err := ValidateGraph(db, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Questionnaire must have a starting step."}, violations)

	// start-node rule is independent of node validity
	terminal := seedNode(t, db, q, "The end", models.NodeTerminal)
	violations, err = ValidateGraph(db, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Questionnaire must have a starting step."}, violations)

	require.NoError(t, SetStartNode(db, q, terminal))
	violations, err = ValidateGraph(db, q)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateGraphAggregatesInNodeOrder(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	q := seedQuestionnaire(t, db, owner, "Quiz")

	question := seedNode(t, db, q, "Lonely question", models.NodeQuestion)
	seedNode(t, db, q, "Lonely statement", models.NodeStatement)
	require.NoError(t, SetStartNode(db, q, question))

	violations, err := ValidateGraph(db, q)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Question 'lonely-question' must have exactly 2 answers (YES and NO).",
		"Question 'lonely-question' is missing a YES answer.",
		"Question 'lonely-question' is missing a NO answer.",
		"Statement 'lonely-statement' must have exactly 1 answer (NEXT).",
	}, violations)
}

func TestValidateGraphPlayable(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	q, _, _, _ := seedPlayableGraph(t, db, owner)

	violations, err := ValidateGraph(db, q)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
