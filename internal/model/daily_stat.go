package model

// DailyStat 每日汇总，由定时任务按天聚合生成
type DailyStat struct {
	Date           string  `json:"date" gorm:"primaryKey;type:date"`
	TotalUsers     int64   `json:"total_users" gorm:"default:0"`
	TotalRequests  int64   `json:"total_requests" gorm:"default:0"`
	TotalDownloads int64   `json:"total_downloads" gorm:"default:0"`
	TotalCaptions  int64   `json:"total_captions" gorm:"default:0"`
	TotalCost      float64 `json:"total_cost" gorm:"default:0"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}
