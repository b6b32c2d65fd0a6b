package config

import (
	"fmt"
	"log"
	"os"

	"github.com/vnkhanh/noyes-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbName, port)

	// TranslateError so unique-index violations come back as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	// FK creation is skipped during migration: questionnaires.start_node_id
	// and nodes.questionnaire_id reference each other, and the service layer
	// cascades deletes explicitly.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// Migrate creates or updates all tables. Shared with the test harness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Questionnaire{},
		&models.Node{},
		&models.Edge{},
		&models.QuestionnaireInvite{},
		&models.QuestionnaireSession{},
		&models.NodeResponse{},
		&models.ExportJob{},
	)
}
