package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/noyes-server/config"
	"github.com/vnkhanh/noyes-server/middleware"
	"github.com/vnkhanh/noyes-server/models"
	"github.com/vnkhanh/noyes-server/routes"
	"github.com/vnkhanh/noyes-server/services"
)

// setupServer wires the full router against a throwaway database. The
// controllers read the connection through the config package, so the global
// is swapped for the duration of the test.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	r := gin.New()
	routes.SetupRoutes(r)
	return r, db
}

func seedPlayable(t *testing.T, db *gorm.DB) *models.Questionnaire {
	t.Helper()
	owner := &models.User{Username: "owner", Email: "owner@example.com", Slug: "owner", PasswordHash: "pw"}
	require.NoError(t, db.Create(owner).Error)

	q, err := services.CreateQuestionnaire(db, *owner, "Sky quiz", "", "")
	require.NoError(t, err)
	question, err := services.CreateNode(db, q, "Is the sky blue?", models.NodeQuestion, "")
	require.NoError(t, err)
	correct, err := services.CreateNode(db, q, "Correct!", models.NodeTerminal, "")
	require.NoError(t, err)
	wrong, err := services.CreateNode(db, q, "Wrong!", models.NodeTerminal, "")
	require.NoError(t, err)
	_, err = services.CreateEdge(db, question, correct, models.AnswerYes)
	require.NoError(t, err)
	_, err = services.CreateEdge(db, question, wrong, models.AnswerNo)
	require.NoError(t, err)
	require.NoError(t, services.SetStartNode(db, q, question))
	require.NoError(t, services.ActivateQuestionnaire(db, q, models.AccessPublic))
	return q
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, respondentKey string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if respondentKey != "" {
		req.Header.Set(middleware.HeaderRespondentKey, respondentKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestAnonymousPlayFlow(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)

	w, body := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	key, _ := body["respondent_key"].(string)
	require.NotEmpty(t, key)
	node := body["node"].(map[string]any)
	assert.Equal(t, "is-the-sky-blue", node["slug"])
	assert.Equal(t, false, body["is_terminal"])

	// starting again resumes the same session
	w, body = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	firstSession := body["session"].(map[string]any)["id"]

	w, body = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/nodes/is-the-sky-blue/answer",
		`{"answer_type":"yes"}`, key)
	require.Equal(t, http.StatusOK, w.Code)
	dest := body["node"].(map[string]any)
	assert.Equal(t, "correct", dest["slug"])
	assert.Equal(t, true, body["is_terminal"])

	w, body = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/complete", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	responses := body["responses"].([]any)
	require.Len(t, responses, 2)
	assert.Equal(t, body["session"].(map[string]any)["id"], firstSession)

	w, body = doJSON(t, r, http.MethodGet, "/api/play/"+q.Slug+"/history", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, body["session"])
	assert.Len(t, body["responses"].([]any), 2)

	// a different respondent key has no history
	w, body = doJSON(t, r, http.MethodGet, "/api/play/"+q.Slug+"/history", "", uuid.New().String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["session"])
}

func TestDoubleCompleteDoesNotStartNewSession(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)

	w, body := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	key := body["respondent_key"].(string)

	w, _ = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/nodes/is-the-sky-blue/answer",
		`{"answer_type":"yes"}`, key)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/complete", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	completedID := body["session"].(map[string]any)["id"]
	assert.Len(t, body["responses"].([]any), 2)

	// a second complete just shows the finished run again
	w, body = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/complete", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, completedID, body["session"].(map[string]any)["id"])
	assert.Len(t, body["responses"].([]any), 2)

	var sessions int64
	require.NoError(t, db.Model(&models.QuestionnaireSession{}).Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)

	// history still points at the real run, not a stub
	w, body = doJSON(t, r, http.MethodGet, "/api/play/"+q.Slug+"/history", "", key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, completedID, body["session"].(map[string]any)["id"])
}

func TestCompleteWithoutAnySession(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)

	w, _ := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/complete", "", uuid.New().String())
	assert.Equal(t, http.StatusNotFound, w.Code)

	var sessions int64
	require.NoError(t, db.Model(&models.QuestionnaireSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestAnswerWithUnknownEdge(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)

	w, _ := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	// terminals have no outgoing edges
	w, _ = doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/nodes/correct/answer",
		`{"answer_type":"yes"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayDraftForbidden(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)
	require.NoError(t, services.DeactivateQuestionnaire(db, q))

	w, _ := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlayUnknownSlug(t *testing.T) {
	r, _ := setupServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/play/no-such-quiz/start", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartWithoutStartNode(t *testing.T) {
	r, db := setupServer(t)
	q := seedPlayable(t, db)

	// force an inconsistent published questionnaire with no start node
	require.NoError(t, db.Model(q).Update("start_node_id", nil).Error)

	w, _ := doJSON(t, r, http.MethodPost, "/api/play/"+q.Slug+"/start", "", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
