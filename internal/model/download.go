package model

import "time"

// Download 下载记录，成功或失败都写入一条
type Download struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	UserID      int64     `json:"user_id" gorm:"index"`
	Username    string    `json:"username"`
	Platform    string    `json:"platform" gorm:"index"`
	ContentType string    `json:"content_type"`
	Success     bool      `json:"success" gorm:"default:true"`
	FileSize    int64     `json:"file_size" gorm:"default:0"`
}

func (Download) TableName() string {
	return "downloads"
}
