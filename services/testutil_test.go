package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/models"
)

// testDB opens a private in-memory database per test. cache=shared keeps
// every pooled connection on the same database.
func testDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Slug:         username,
		PasswordHash: "pw",
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func seedQuestionnaire(tb testing.TB, db *gorm.DB, owner *models.User, title string) *models.Questionnaire {
	tb.Helper()
	q, err := CreateQuestionnaire(db, *owner, title, "", "")
	if err != nil {
		tb.Fatalf("seed questionnaire: %v", err)
	}
	return q
}

func seedNode(tb testing.TB, db *gorm.DB, q *models.Questionnaire, content string, nodeType models.NodeType) *models.Node {
	tb.Helper()
	node, err := CreateNode(db, q, content, nodeType, "")
	if err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return node
}

func seedEdge(tb testing.TB, db *gorm.DB, source, destination *models.Node, answerType models.AnswerType) *models.Edge {
	tb.Helper()
	edge, err := CreateEdge(db, source, destination, answerType)
	if err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return edge
}

// seedPlayableGraph builds the smallest valid questionnaire: one question
// with YES and NO leading to two terminals, question set as start node.
// Returns questionnaire, question, yes-terminal, no-terminal.
func seedPlayableGraph(tb testing.TB, db *gorm.DB, owner *models.User) (*models.Questionnaire, *models.Node, *models.Node, *models.Node) {
	tb.Helper()
	q := seedQuestionnaire(tb, db, owner, "Is the sky blue?")
	question := seedNode(tb, db, q, "Is the sky blue?", models.NodeQuestion)
	correct := seedNode(tb, db, q, "Correct!", models.NodeTerminal)
	wrong := seedNode(tb, db, q, "Wrong!", models.NodeTerminal)
	seedEdge(tb, db, question, correct, models.AnswerYes)
	seedEdge(tb, db, question, wrong, models.AnswerNo)
	if err := SetStartNode(db, q, question); err != nil {
		tb.Fatalf("set start node: %v", err)
	}
	return q, question, correct, wrong
}
