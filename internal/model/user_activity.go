package model

import "time"

// UserActivity 用户操作记录，每次命令或交互写入一条
type UserActivity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	UserID    int64     `json:"user_id" gorm:"index"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

func (UserActivity) TableName() string {
	return "user_activity"
}
