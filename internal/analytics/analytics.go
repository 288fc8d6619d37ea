package analytics

import (
	"math"
	"time"

	"social-media-bot/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 使用统计存储，记录事件并提供聚合查询
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 返回底层连接，供只读调用方使用
func (s *Store) DB() *gorm.DB {
	return s.db
}

// RecordAPIUsage 记录一次AI接口调用
func (s *Store) RecordAPIUsage(userID int64, username, apiType, feature string, tokens int, cost float64, success bool, errMsg string) error {
	usage := &model.APIUsage{
		Timestamp:    time.Now(),
		UserID:       userID,
		Username:     username,
		APIType:      apiType,
		Feature:      feature,
		TokensUsed:   tokens,
		Cost:         cost,
		Success:      success,
		ErrorMessage: errMsg,
	}
	return s.db.Create(usage).Error
}

// RecordUserActivity 记录一次用户操作
func (s *Store) RecordUserActivity(userID int64, username, firstName, action, details string) error {
	activity := &model.UserActivity{
		Timestamp: time.Now(),
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		Action:    action,
		Details:   details,
	}
	return s.db.Create(activity).Error
}

// RecordDownload 记录一次下载尝试
func (s *Store) RecordDownload(userID int64, username, platform, contentType string, success bool, fileSize int64) error {
	download := &model.Download{
		Timestamp:   time.Now(),
		UserID:      userID,
		Username:    username,
		Platform:    platform,
		ContentType: contentType,
		Success:     success,
		FileSize:    fileSize,
	}
	return s.db.Create(download).Error
}

// TotalStats 获取累计统计
func (s *Store) TotalStats() (*model.TotalStats, error) {
	stats := &model.TotalStats{}

	// 累计用户数
	if err := s.db.Model(&model.UserActivity{}).Distinct("user_id").Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	// 累计API调用次数
	if err := s.db.Model(&model.APIUsage{}).Count(&stats.TotalAPICalls).Error; err != nil {
		return nil, err
	}

	// 累计成本
	var totalCost float64
	if err := s.db.Model(&model.APIUsage{}).Select("COALESCE(SUM(cost), 0)").Scan(&totalCost).Error; err != nil {
		return nil, err
	}
	stats.TotalCost = round(totalCost, 4)

	// 累计成功下载次数
	if err := s.db.Model(&model.Download{}).Where("success = ?", true).Count(&stats.TotalDownloads).Error; err != nil {
		return nil, err
	}

	// 累计token消耗
	if err := s.db.Model(&model.APIUsage{}).Select("COALESCE(SUM(tokens_used), 0)").Scan(&stats.TotalTokens).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// TodayStats 获取当日统计
func (s *Store) TodayStats() (*model.TodayStats, error) {
	stats := &model.TodayStats{}
	start, end := dayRange(time.Now())

	if err := s.db.Model(&model.UserActivity{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Distinct("user_id").Count(&stats.TodayUsers).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.APIUsage{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Count(&stats.TodayAPICalls).Error; err != nil {
		return nil, err
	}

	var todayCost float64
	if err := s.db.Model(&model.APIUsage{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Select("COALESCE(SUM(cost), 0)").Scan(&todayCost).Error; err != nil {
		return nil, err
	}
	stats.TodayCost = round(todayCost, 4)

	if err := s.db.Model(&model.Download{}).
		Where("timestamp >= ? AND timestamp < ? AND success = ?", start, end, true).
		Count(&stats.TodayDownloads).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// TopUsers 获取最活跃用户排行
func (s *Store) TopUsers(limit int) ([]model.TopUser, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []model.TopUser
	err := s.db.Model(&model.UserActivity{}).
		Select("user_id, username, COUNT(*) as activity_count, MAX(timestamp) as last_active").
		Group("user_id").
		Order("activity_count DESC").
		Limit(limit).
		Scan(&users).Error
	return users, err
}

// FeatureUsage 按功能统计使用量，按调用次数降序
func (s *Store) FeatureUsage() ([]model.FeatureUsage, error) {
	var usage []model.FeatureUsage
	err := s.db.Model(&model.APIUsage{}).
		Select("feature, COUNT(*) as usage_count, COALESCE(SUM(cost), 0) as total_cost, COALESCE(SUM(tokens_used), 0) as total_tokens").
		Group("feature").
		Order("usage_count DESC").
		Scan(&usage).Error
	return usage, err
}

// PlatformDownloads 按平台统计下载量，按总次数降序
func (s *Store) PlatformDownloads() ([]model.PlatformDownloads, error) {
	var downloads []model.PlatformDownloads
	err := s.db.Model(&model.Download{}).
		Select("platform, COUNT(*) as download_count, SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as successful, SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failed").
		Group("platform").
		Order("download_count DESC").
		Scan(&downloads).Error
	return downloads, err
}

// HourlyActivity 统计最近N天按小时分布的活跃量，无活动的小时不返回
func (s *Store) HourlyActivity(days int) ([]model.HourlyActivity, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var activity []model.HourlyActivity
	err := s.db.Model(&model.UserActivity{}).
		Select("strftime('%H', timestamp) as hour, COUNT(*) as activity_count").
		Where("timestamp >= ?", cutoff).
		Group("hour").
		Order("hour ASC").
		Scan(&activity).Error
	return activity, err
}

// CostBreakdown 按 api_type 分组的成本明细，仅统计产生成本的调用
func (s *Store) CostBreakdown() (map[string][]model.CostItem, error) {
	var rows []struct {
		APIType   string
		Feature   string
		Calls     int64
		TotalCost float64
		AvgCost   float64
	}

	err := s.db.Model(&model.APIUsage{}).
		Select("api_type, feature, COUNT(*) as calls, SUM(cost) as total_cost, AVG(cost) as avg_cost").
		Where("cost > 0").
		Group("api_type, feature").
		Order("total_cost DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string][]model.CostItem)
	for _, row := range rows {
		breakdown[row.APIType] = append(breakdown[row.APIType], model.CostItem{
			Feature:   row.Feature,
			Calls:     row.Calls,
			TotalCost: round(row.TotalCost, 4),
			AvgCost:   round(row.AvgCost, 6),
		})
	}
	return breakdown, nil
}

// ErrorStats 统计失败调用，按（功能，错误信息）分组，错误信息为空的不计入
func (s *Store) ErrorStats(limit int) ([]model.ErrorStat, error) {
	if limit <= 0 {
		limit = 20
	}

	var errs []model.ErrorStat
	err := s.db.Model(&model.APIUsage{}).
		Select("feature, COUNT(*) as error_count, error_message").
		Where("success = ? AND error_message IS NOT NULL AND error_message != ''", false).
		Group("feature, error_message").
		Order("error_count DESC").
		Limit(limit).
		Scan(&errs).Error
	return errs, err
}

// RecentActivity 获取最近的用户操作，新的在前
func (s *Store) RecentActivity(limit int) ([]model.UserActivity, error) {
	if limit <= 0 {
		limit = 50
	}

	var activity []model.UserActivity
	err := s.db.Order("timestamp DESC").Limit(limit).Find(&activity).Error
	return activity, err
}

// EstimateMonthlyCost 按最近7天成本线性外推30天，无数据返回0
func (s *Store) EstimateMonthlyCost() (float64, error) {
	cutoff := time.Now().AddDate(0, 0, -7)

	var weekCost float64
	err := s.db.Model(&model.APIUsage{}).
		Where("timestamp >= ?", cutoff).
		Select("COALESCE(SUM(cost), 0)").Scan(&weekCost).Error
	if err != nil {
		return 0, err
	}

	return round(weekCost/7*30, 2), nil
}

// CleanupOldData 删除三张事件表中早于N天前的数据，返回删除的总行数
func (s *Store) CleanupOldData(days int) (int64, error) {
	if days < 0 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var deleted int64

	result := s.db.Where("timestamp < ?", cutoff).Delete(&model.APIUsage{})
	if result.Error != nil {
		return deleted, result.Error
	}
	deleted += result.RowsAffected

	result = s.db.Where("timestamp < ?", cutoff).Delete(&model.UserActivity{})
	if result.Error != nil {
		return deleted, result.Error
	}
	deleted += result.RowsAffected

	result = s.db.Where("timestamp < ?", cutoff).Delete(&model.Download{})
	if result.Error != nil {
		return deleted, result.Error
	}
	deleted += result.RowsAffected

	return deleted, nil
}

// RollupDaily 汇总指定日期的事件到 daily_stats，按日期覆盖写入
func (s *Store) RollupDaily(day time.Time) (*model.DailyStat, error) {
	start, end := dayRange(day)
	stat := &model.DailyStat{Date: start.Format("2006-01-02")}

	if err := s.db.Model(&model.UserActivity{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Distinct("user_id").Count(&stat.TotalUsers).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.UserActivity{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Count(&stat.TotalRequests).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Download{}).
		Where("timestamp >= ? AND timestamp < ? AND success = ?", start, end, true).
		Count(&stat.TotalDownloads).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.APIUsage{}).
		Where("timestamp >= ? AND timestamp < ? AND feature IN ?", start, end, []string{"caption", "image_analysis"}).
		Count(&stat.TotalCaptions).Error; err != nil {
		return nil, err
	}

	var cost float64
	if err := s.db.Model(&model.APIUsage{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Select("COALESCE(SUM(cost), 0)").Scan(&cost).Error; err != nil {
		return nil, err
	}
	stat.TotalCost = round(cost, 4)

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(stat).Error
	return stat, err
}

// DailyStats 按日期降序返回最近N天的汇总行
func (s *Store) DailyStats(limit int) ([]model.DailyStat, error) {
	if limit <= 0 {
		limit = 30
	}

	var stats []model.DailyStat
	err := s.db.Order("date DESC").Limit(limit).Find(&stats).Error
	return stats, err
}

func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
