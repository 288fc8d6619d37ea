package model

// TotalStats 累计统计信息
type TotalStats struct {
	TotalUsers     int64   `json:"total_users"`
	TotalAPICalls  int64   `json:"total_api_calls"`
	TotalCost      float64 `json:"total_cost"`
	TotalDownloads int64   `json:"total_downloads"`
	TotalTokens    int64   `json:"total_tokens"`
}

// TodayStats 当日统计信息
type TodayStats struct {
	TodayUsers     int64   `json:"today_users"`
	TodayAPICalls  int64   `json:"today_api_calls"`
	TodayCost      float64 `json:"today_cost"`
	TodayDownloads int64   `json:"today_downloads"`
}

// TopUser 活跃用户排行项
type TopUser struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	ActivityCount int64  `json:"activity_count"`
	LastActive    string `json:"last_active"`
}

// FeatureUsage 按功能聚合的使用统计
type FeatureUsage struct {
	Feature     string  `json:"feature"`
	UsageCount  int64   `json:"usage_count"`
	TotalCost   float64 `json:"total_cost"`
	TotalTokens int64   `json:"total_tokens"`
}

// PlatformDownloads 按平台聚合的下载统计
type PlatformDownloads struct {
	Platform      string `json:"platform"`
	DownloadCount int64  `json:"download_count"`
	Successful    int64  `json:"successful"`
	Failed        int64  `json:"failed"`
}

// GetSuccessRate 计算下载成功率
func (pd *PlatformDownloads) GetSuccessRate() float64 {
	if pd.DownloadCount == 0 {
		return 0
	}
	return float64(pd.Successful) / float64(pd.DownloadCount)
}

// HourlyActivity 按小时聚合的活跃统计，无活动的小时不出现
type HourlyActivity struct {
	Hour          string `json:"hour"`
	ActivityCount int64  `json:"activity_count"`
}

// CostItem 某个 api_type 下单个功能的成本明细
type CostItem struct {
	Feature   string  `json:"feature"`
	Calls     int64   `json:"calls"`
	TotalCost float64 `json:"total_cost"`
	AvgCost   float64 `json:"avg_cost"`
}

// ErrorStat 按（功能，错误信息）聚合的失败统计
type ErrorStat struct {
	Feature      string `json:"feature"`
	ErrorCount   int64  `json:"error_count"`
	ErrorMessage string `json:"error_message"`
}
