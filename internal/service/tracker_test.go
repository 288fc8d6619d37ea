package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTracker(t *testing.T) (*Tracker, *analytics.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tracker.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.APIUsage{}, &model.UserActivity{}, &model.Download{}))

	store := analytics.New(db)
	return NewTracker(store), store
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		feature string
		tokens  int
		want    float64
	}{
		{"caption", 150, 150.0 / 1000 * geminiOutputPer1K},
		{"hashtags", 0, 150.0 / 1000 * geminiOutputPer1K},
		{"image_analysis", 0, 500.0 / 1000 * (geminiInputPer1K + geminiOutputPer1K)},
		{"unknown", 100, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.feature, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateCost(tt.feature, tt.tokens), 1e-12)
		})
	}
}

func TestTrackAPICallSuccess(t *testing.T) {
	tracker, store := newTestTracker(t)

	result, err := tracker.TrackAPICall(context.Background(), 1, "alice", "gemini", "caption",
		func(ctx context.Context) (string, error) {
			return "a caption", nil
		})
	assert.NoError(t, err)
	assert.Equal(t, "a caption", result)

	stats, err := store.TotalStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAPICalls)
	assert.Equal(t, int64(avgTokensCaption), stats.TotalTokens)
	assert.Greater(t, stats.TotalCost, 0.0)
}

func TestTrackAPICallFailure(t *testing.T) {
	tracker, store := newTestTracker(t)

	_, err := tracker.TrackAPICall(context.Background(), 1, "alice", "gemini", "caption",
		func(ctx context.Context) (string, error) {
			return "", errors.New("quota exceeded")
		})
	assert.Error(t, err)

	errs, err := store.ErrorStats(20)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "quota exceeded", errs[0].ErrorMessage)

	// 失败的调用不产生成本
	stats, err := store.TotalStats()
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.TotalCost)
	assert.Equal(t, int64(0), stats.TotalTokens)
}

func TestTrackActionAndDownload(t *testing.T) {
	tracker, store := newTestTracker(t)

	tracker.TrackAction(1, "alice", "Alice", "start", "")
	tracker.TrackDownload(1, "alice", "YouTube", "video", true, 1000)

	stats, err := store.TotalStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalDownloads)
}
