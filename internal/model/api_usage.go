package model

import "time"

// APIUsage AI接口调用记录，每次生成尝试写入一条
type APIUsage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
	UserID       int64     `json:"user_id" gorm:"index"`
	Username     string    `json:"username"`
	APIType      string    `json:"api_type"`
	Feature      string    `json:"feature" gorm:"index"`
	TokensUsed   int       `json:"tokens_used" gorm:"default:0"`
	Cost         float64   `json:"cost" gorm:"default:0"`
	Success      bool      `json:"success" gorm:"default:true"`
	ErrorMessage string    `json:"error_message"`
}

func (APIUsage) TableName() string {
	return "api_usage"
}
