package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/domain/models"
	"github.com/wallace-21/BirdNest/internal/repository/gormdb"
	"github.com/wallace-21/BirdNest/internal/server/handlers"
	"github.com/wallace-21/BirdNest/internal/server/router"
	"github.com/wallace-21/BirdNest/internal/service/ai"
	agentclient "github.com/wallace-21/BirdNest/pkg/clients/agent"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Bird{}))

	return db
}

// setupServer wires the full route table over an in-memory database.
// Passing a nil client leaves the chat relay unconfigured.
func setupServer(t *testing.T, client agentclient.Client) *gin.Engine {
	t.Helper()

	repo := gormdb.NewBirdRepository(newTestDB(t))
	birdHandler := handlers.NewBirdHandler(repo, nil)

	var provider *ai.Provider
	if client != nil {
		provider = ai.NewProviderWithAgent(ai.NewWithClient(client, nil), nil)
	} else {
		provider = ai.NewProvider(config.AgentConfig{}, nil)
	}
	chatHandler := handlers.NewChatHandler(provider, nil)

	return router.New("/api/v1", birdHandler, chatHandler, nil)
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func birdPayload(birdID, name, scientificName, status string) map[string]any {
	return map[string]any{
		"bird_id":                  birdID,
		"name":                     name,
		"scientific_name":          scientificName,
		"conservation_status":      map[string]any{"status": status, "label": "Test"},
		"quick_facts":              []any{map[string]any{"label": "Family", "value": "Falconidae", "icon": "feather"}},
		"tags":                     []any{map[string]any{"text": "Migratory", "icon": "plane"}},
		"images":                   map[string]any{"main": []any{}, "gallery": []any{}},
		"overview":                 map[string]any{"about": map[string]any{"title": "About"}},
		"habitat_and_distribution": map[string]any{"habitat": map[string]any{"title": "Habitat"}},
		"diet_and_behavior":        map[string]any{"diet": map[string]any{"title": "Diet"}},
		"sounds":                   map[string]any{"vocalizations": []any{}},
		"related_birds":            []any{},
		"meta_data":                map[string]any{"contributors": []any{}},
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.BirdResponse {
	t.Helper()

	var envelope models.BirdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []models.Bird {
	t.Helper()

	var birds []models.Bird
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &birds))
	return birds
}

func TestCreateBird(t *testing.T) {
	engine := setupServer(t, nil)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "test-falcon", envelope.Data.BirdID)
	assert.NotZero(t, envelope.Data.ID)
	assert.False(t, envelope.Data.CreatedAt.IsZero())
}

func TestCreateBird_DuplicateBirdID(t *testing.T) {
	engine := setupServer(t, nil)
	payload := birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/birds/", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/v1/birds/", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestCreateBird_MissingRequiredField(t *testing.T) {
	engine := setupServer(t, nil)

	payload := birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern")
	delete(payload, "name")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/birds/", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListBirds_Pagination(t *testing.T) {
	engine := setupServer(t, nil)

	for i := 1; i <= 3; i++ {
		w := doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
			birdPayload(fmt.Sprintf("bird-%d", i), fmt.Sprintf("Bird %d", i), fmt.Sprintf("Avis %d", i), "least-concern"))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/?skip=0&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/?skip=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/?limit=101", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetBird(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/test-falcon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Test Falcon", envelope.Data.Name)
}

func TestGetBird_NotFound(t *testing.T) {
	engine := setupServer(t, nil)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/nonexistent-bird", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestUpdateBird_PartialUpdate(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	w := doRequest(t, engine, http.MethodPut, "/api/v1/birds/test-falcon",
		map[string]any{"name": "Updated Test Falcon"})
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Updated Test Falcon", envelope.Data.Name)

	// Unlisted fields keep their pre-update values.
	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/test-falcon", nil)
	envelope = decodeEnvelope(t, w)
	assert.Equal(t, "Updated Test Falcon", envelope.Data.Name)
	assert.Equal(t, "Falco testicus", envelope.Data.ScientificName)
}

func TestUpdateBird_NotFound(t *testing.T) {
	engine := setupServer(t, nil)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/birds/nonexistent-bird",
		map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBird(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	w := doRequest(t, engine, http.MethodDelete, "/api/v1/birds/test-falcon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	assert.Equal(t, "test-falcon", envelope.Data.BirdID)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/test-falcon", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/birds/test-falcon", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchBirdsByName(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/search/name?name=T", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/search/name?name=test+falcon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	birds := decodeList(t, w)
	require.Len(t, birds, 1)
	assert.Equal(t, "Test Falcon", birds[0].Name)
}

func TestSearchBirdsByScientificName(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/search/scientific?scientific_name=ab", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/search/scientific?scientific_name=testicus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestFilterBirdsByConservationStatus(t *testing.T) {
	engine := setupServer(t, nil)

	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("test-falcon", "Test Falcon", "Falco testicus", "least-concern"))
	doRequest(t, engine, http.MethodPost, "/api/v1/birds/",
		birdPayload("rare-eagle", "Rare Eagle", "Aquila rara", "endangered"))

	w := doRequest(t, engine, http.MethodGet, "/api/v1/birds/filter/conservation?status=least-concern", nil)
	require.Equal(t, http.StatusOK, w.Code)
	birds := decodeList(t, w)
	require.Len(t, birds, 1)
	assert.Equal(t, "test-falcon", birds[0].BirdID)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/birds/filter/conservation", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
