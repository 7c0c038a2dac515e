package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/quantlab/sandbox-backend-go/internal/database"
	"github.com/quantlab/sandbox-backend-go/internal/heatmap"
	"github.com/quantlab/sandbox-backend-go/internal/middleware"
	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/repository"
	"github.com/quantlab/sandbox-backend-go/internal/service"
)

const testSecret = "test-secret"

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)
	require.NoError(t, database.NewMigrationManager(db).RunMigrations())

	sweepRepo := repository.NewSweepRepository(db)
	resultRepo := repository.NewResultRepository(db)
	sweepHandler := NewSweepHandler(service.NewSweepService(sweepRepo, resultRepo, 1))
	heatmapHandler := NewHeatMapHandler(service.NewHeatMapService(sweepRepo, resultRepo, heatmap.New()))
	authHandler := NewAuthHandler(testSecret)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Auth(testSecret))
	authed.POST("/sweeps", sweepHandler.CreateSweep)
	authed.GET("/sweeps", sweepHandler.ListSweeps)
	authed.GET("/sweeps/:id", sweepHandler.GetSweep)
	authed.DELETE("/sweeps/:id", sweepHandler.DeleteSweep)
	authed.GET("/sweeps/:id/results", sweepHandler.GetSweepResults)
	authed.POST("/sweeps/:id/heatmap", heatmapHandler.BuildHeatMap)
	return r
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "trader",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func createSweep(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/sweeps", token, models.CreateSweepRequest{
		Name: "macd sweep",
		Params: []models.ParamSpec{
			{Key: "fast", Min: 2, Max: 10, Step: 2},
			{Key: "slow", Min: 10, Max: 30, Step: 5},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Sweep `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestLoginRequiresCredentials(t *testing.T) {
	r := testRouter(t)
	w := do(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := testRouter(t)

	w := do(r, http.MethodGet, "/api/v1/sweeps", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/sweeps", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSweepLifecycle(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)
	id := createSweep(t, r, token)

	w := do(r, http.MethodGet, "/api/v1/sweeps", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/sweeps/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/sweeps/"+id+"/results", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/sweeps/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/sweeps/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSweepValidation(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)

	w := do(r, http.MethodPost, "/api/v1/sweeps", token, gin.H{"name": "empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildHeatMapEndpoint(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)
	id := createSweep(t, r, token)

	w := do(r, http.MethodPost, "/api/v1/sweeps/"+id+"/heatmap", token, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"slow"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Matrix *models.HeatMapMatrix `json:"matrix"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Matrix)
	// fast: 5 values, slow: 5 values
	assert.Equal(t, 25, resp.Data.Matrix.N)
	assert.Equal(t, resp.Data.Matrix.W, resp.Data.Matrix.H)
}

func TestBuildHeatMapInvalidConfig(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)
	id := createSweep(t, r, token)

	w := do(r, http.MethodPost, "/api/v1/sweeps/"+id+"/heatmap", token, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"fast"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildHeatMapUnknownSweep(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)

	w := do(r, http.MethodPost, "/api/v1/sweeps/nope/heatmap", token, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"a"}, YAxis: []string{"b"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildHeatMapNoDataAfterZoom(t *testing.T) {
	r := testRouter(t)
	token := login(t, r)
	id := createSweep(t, r, token)

	w := do(r, http.MethodPost, "/api/v1/sweeps/"+id+"/heatmap", token, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"slow"}},
		ZoomStack: []models.ZoomStackEntry{
			{Label: "off the grid", Ranges: models.ZoomRange{"fast": {Min: 900, Max: 901}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Matrix *models.HeatMapMatrix `json:"matrix"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Matrix)
}
