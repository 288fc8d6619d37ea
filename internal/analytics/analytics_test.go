package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"social-media-bot/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "analytics.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.APIUsage{},
		&model.UserActivity{},
		&model.Download{},
		&model.DailyStat{},
	)
	require.NoError(t, err)

	return New(db)
}

// 直接插入带指定时间戳的记录，用于模拟历史数据
func insertAPIUsageAt(t *testing.T, s *Store, ts time.Time, feature string, cost float64) {
	t.Helper()
	err := s.db.Create(&model.APIUsage{
		Timestamp: ts,
		UserID:    1,
		Username:  "tester",
		APIType:   "gemini",
		Feature:   feature,
		Cost:      cost,
		Success:   true,
	}).Error
	require.NoError(t, err)
}

func TestTotalStatsCostSum(t *testing.T) {
	store := newTestStore(t)

	costs := []float64{0.0015, 0.0025, 0.00012}
	for _, c := range costs {
		err := store.RecordAPIUsage(1, "alice", "gemini", "caption", 150, c, true, "")
		assert.NoError(t, err)
	}

	stats, err := store.TotalStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAPICalls)
	assert.Equal(t, 0.0041, stats.TotalCost) // 0.00412 四舍五入到4位
	assert.Equal(t, int64(450), stats.TotalTokens)
}

func TestTotalStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.TotalStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalUsers)
	assert.Equal(t, int64(0), stats.TotalAPICalls)
	assert.Equal(t, 0.0, stats.TotalCost)
	assert.Equal(t, int64(0), stats.TotalDownloads)
	assert.Equal(t, int64(0), stats.TotalTokens)
}

func TestTotalStatsDistinctUsers(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "start", ""))
	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "caption", ""))
	assert.NoError(t, store.RecordUserActivity(2, "bob", "Bob", "start", ""))

	stats, err := store.TotalStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
}

func TestTodayStatsExcludesYesterday(t *testing.T) {
	store := newTestStore(t)

	// 昨天的记录不应计入
	yesterday := time.Now().AddDate(0, 0, -1)
	insertAPIUsageAt(t, store, yesterday, "caption", 1.0)
	require.NoError(t, store.db.Create(&model.UserActivity{
		Timestamp: yesterday, UserID: 9, Username: "old", Action: "start",
	}).Error)

	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 100, 0.5, true, ""))
	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "start", ""))

	stats, err := store.TodayStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.TodayUsers)
	assert.Equal(t, int64(1), stats.TodayAPICalls)
	assert.Equal(t, 0.5, stats.TodayCost)
}

func TestFeatureUsageOrdering(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "feature_a", 10, 0.001, true, ""))
	}
	for i := 0; i < 3; i++ {
		assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "feature_b", 10, 0.001, true, ""))
	}

	usage, err := store.FeatureUsage()
	assert.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "feature_a", usage[0].Feature)
	assert.Equal(t, int64(10), usage[0].UsageCount)
	assert.Equal(t, "feature_b", usage[1].Feature)
	assert.Equal(t, int64(3), usage[1].UsageCount)
}

func TestPlatformDownloadsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordDownload(1, "alice", "YouTube", "video", true, 12345678)
	assert.NoError(t, err)

	downloads, err := store.PlatformDownloads()
	assert.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "YouTube", downloads[0].Platform)
	assert.Equal(t, int64(1), downloads[0].DownloadCount)
	assert.Equal(t, int64(1), downloads[0].Successful)
	assert.Equal(t, int64(0), downloads[0].Failed)
}

func TestPlatformDownloadsCountsFailures(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordDownload(1, "alice", "TikTok", "video", true, 1000))
	assert.NoError(t, store.RecordDownload(1, "alice", "TikTok", "video", false, 0))
	assert.NoError(t, store.RecordDownload(2, "bob", "Instagram", "image", true, 500))

	downloads, err := store.PlatformDownloads()
	assert.NoError(t, err)
	require.Len(t, downloads, 2)
	// TikTok 总次数多，排在前面
	assert.Equal(t, "TikTok", downloads[0].Platform)
	assert.Equal(t, int64(2), downloads[0].DownloadCount)
	assert.Equal(t, int64(1), downloads[0].Successful)
	assert.Equal(t, int64(1), downloads[0].Failed)
	assert.Equal(t, 0.5, downloads[0].GetSuccessRate())
}

func TestEstimateMonthlyCost(t *testing.T) {
	store := newTestStore(t)

	// 最近7天共 $14.00 -> (14/7)*30 = $60.00
	now := time.Now()
	for i := 0; i < 7; i++ {
		insertAPIUsageAt(t, store, now.Add(-time.Duration(i)*24*time.Hour+time.Hour*-1), "caption", 2.0)
	}

	estimate, err := store.EstimateMonthlyCost()
	assert.NoError(t, err)
	assert.Equal(t, 60.0, estimate)
}

func TestEstimateMonthlyCostNoData(t *testing.T) {
	store := newTestStore(t)

	estimate, err := store.EstimateMonthlyCost()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, estimate)
}

func TestCleanupOldDataDeletesEverything(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 100, 0.5, true, ""))
	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "start", ""))
	assert.NoError(t, store.RecordDownload(1, "alice", "YouTube", "video", true, 100))

	deleted, err := store.CleanupOldData(0)
	assert.NoError(t, err)
	// 三张表的删除行数求和
	assert.Equal(t, int64(3), deleted)

	stats, err := store.TotalStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalUsers)
	assert.Equal(t, int64(0), stats.TotalAPICalls)
	assert.Equal(t, 0.0, stats.TotalCost)
	assert.Equal(t, int64(0), stats.TotalDownloads)
}

func TestCleanupOldDataKeepsRecent(t *testing.T) {
	store := newTestStore(t)

	insertAPIUsageAt(t, store, time.Now().AddDate(0, 0, -100), "caption", 0.1)
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 100, 0.5, true, ""))

	deleted, err := store.CleanupOldData(90)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stats, err := store.TotalStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAPICalls)
}

func TestErrorStatsSkipsEmptyMessages(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 0, 0, false, "quota exceeded"))
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 0, 0, false, "quota exceeded"))
	// 失败但没有错误信息的不应出现
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "hashtags", 0, 0, false, ""))

	errs, err := store.ErrorStats(20)
	assert.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "caption", errs[0].Feature)
	assert.Equal(t, int64(2), errs[0].ErrorCount)
	assert.Equal(t, "quota exceeded", errs[0].ErrorMessage)
}

func TestTopUsers(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "caption", ""))
	}
	assert.NoError(t, store.RecordUserActivity(2, "bob", "Bob", "start", ""))

	users, err := store.TopUsers(10)
	assert.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].UserID)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, int64(5), users[0].ActivityCount)
	assert.NotEmpty(t, users[0].LastActive)
}

func TestCostBreakdownSkipsZeroCost(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 150, 0.002, true, ""))
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 150, 0.004, true, ""))
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "hashtags", 0, 0, true, ""))

	breakdown, err := store.CostBreakdown()
	assert.NoError(t, err)
	require.Contains(t, breakdown, "gemini")
	require.Len(t, breakdown["gemini"], 1)

	item := breakdown["gemini"][0]
	assert.Equal(t, "caption", item.Feature)
	assert.Equal(t, int64(2), item.Calls)
	assert.Equal(t, 0.006, item.TotalCost)
	assert.Equal(t, 0.003, item.AvgCost)
}

func TestRecentActivityNewestFirst(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.db.Create(&model.UserActivity{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			UserID:    int64(i),
			Username:  "u",
			Action:    "start",
		}).Error)
	}

	activity, err := store.RecentActivity(2)
	assert.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, int64(2), activity[0].UserID)
	assert.Equal(t, int64(1), activity[1].UserID)
}

func TestHourlyActivityOmitsIdleHours(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "start", ""))

	activity, err := store.HourlyActivity(7)
	assert.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, int64(1), activity[0].ActivityCount)
}

func TestRollupDaily(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.RecordUserActivity(1, "alice", "Alice", "start", ""))
	assert.NoError(t, store.RecordUserActivity(2, "bob", "Bob", "caption", ""))
	assert.NoError(t, store.RecordAPIUsage(1, "alice", "gemini", "caption", 150, 0.002, true, ""))
	assert.NoError(t, store.RecordDownload(1, "alice", "YouTube", "video", true, 100))

	stat, err := store.RollupDaily(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stat.TotalUsers)
	assert.Equal(t, int64(2), stat.TotalRequests)
	assert.Equal(t, int64(1), stat.TotalDownloads)
	assert.Equal(t, int64(1), stat.TotalCaptions)
	assert.Equal(t, 0.002, stat.TotalCost)

	// 同一天重复汇总按日期覆盖，不产生重复行
	assert.NoError(t, store.RecordUserActivity(3, "carol", "Carol", "start", ""))
	_, err = store.RollupDaily(time.Now())
	assert.NoError(t, err)

	stats, err := store.DailyStats(30)
	assert.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(3), stats[0].TotalUsers)
}
