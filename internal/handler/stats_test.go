package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"social-media-bot/internal/database"
	"social-media-bot/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	database.InitTestDB()
	t.Cleanup(database.CleanTestDB)
	resetTables(t)

	app.Get("/api/v1/stats/total", HandleTotalStats)
	app.Get("/api/v1/stats/today", HandleTodayStats)
	app.Get("/api/v1/stats/top-users", HandleTopUsers)
	app.Get("/api/v1/stats/features", HandleFeatureUsage)
	app.Get("/api/v1/stats/platforms", HandlePlatformDownloads)
	app.Get("/api/v1/stats/monthly-estimate", HandleMonthlyEstimate)
	app.Post("/api/v1/admin/cleanup", HandleCleanup)
	app.Post("/api/v1/admin/rollup", HandleRollup)

	return app
}

// 共享内存库在同包测试间保留数据，每个测试前清空
func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"api_usage", "user_activity", "downloads", "daily_stats"} {
		require.NoError(t, database.DB.Exec("DELETE FROM "+table).Error)
	}
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doGet(t *testing.T, app *fiber.App, path string) *apiResponse {
	t.Helper()

	req, _ := http.NewRequest("GET", path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return &body
}

func TestHandleTotalStats(t *testing.T) {
	app := newStatsApp(t)

	require.NoError(t, database.DB.Create(&model.APIUsage{
		Timestamp: time.Now(), UserID: 1, Username: "alice",
		APIType: "gemini", Feature: "caption", TokensUsed: 150, Cost: 0.002, Success: true,
	}).Error)
	require.NoError(t, database.DB.Create(&model.UserActivity{
		Timestamp: time.Now(), UserID: 1, Username: "alice", FirstName: "Alice", Action: "start",
	}).Error)

	body := doGet(t, app, "/api/v1/stats/total")
	assert.Equal(t, 200, body.Code)

	var stats model.TotalStats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalAPICalls)
	assert.Equal(t, 0.002, stats.TotalCost)
}

func TestHandlePlatformDownloads(t *testing.T) {
	app := newStatsApp(t)

	require.NoError(t, database.DB.Create(&model.Download{
		Timestamp: time.Now(), UserID: 1, Username: "alice",
		Platform: "YouTube", ContentType: "video", Success: true, FileSize: 12345678,
	}).Error)

	body := doGet(t, app, "/api/v1/stats/platforms")

	var downloads []model.PlatformDownloads
	require.NoError(t, json.Unmarshal(body.Data, &downloads))
	require.Len(t, downloads, 1)
	assert.Equal(t, "YouTube", downloads[0].Platform)
	assert.Equal(t, int64(1), downloads[0].Successful)
	assert.Equal(t, int64(0), downloads[0].Failed)
}

func TestHandleCleanup(t *testing.T) {
	app := newStatsApp(t)

	require.NoError(t, database.DB.Create(&model.UserActivity{
		Timestamp: time.Now(), UserID: 1, Username: "alice", Action: "start",
	}).Error)

	req, _ := http.NewRequest("POST", "/api/v1/admin/cleanup?days=0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	var data struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, int64(1), data.Deleted)
}

func TestHandleCleanupRejectsBadDays(t *testing.T) {
	app := newStatsApp(t)

	req, _ := http.NewRequest("POST", "/api/v1/admin/cleanup?days=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRollup(t *testing.T) {
	app := newStatsApp(t)

	require.NoError(t, database.DB.Create(&model.UserActivity{
		Timestamp: time.Now(), UserID: 1, Username: "alice", Action: "start",
	}).Error)

	req, _ := http.NewRequest("POST", "/api/v1/admin/rollup", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	var stat model.DailyStat
	require.NoError(t, json.Unmarshal(body.Data, &stat))
	assert.Equal(t, time.Now().Format("2006-01-02"), stat.Date)
	assert.Equal(t, int64(1), stat.TotalUsers)
}
