package database

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"social-media-bot/internal/model"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var DB *gorm.DB

// DefaultDBPath 默认的分析数据库文件路径
const DefaultDBPath = "data/analytics.db"

// Open 打开（不存在则创建）分析数据库并迁移表结构，可重复调用
func Open(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	// 创建数据目录
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// 自动迁移模型
	err = db.AutoMigrate(
		&model.User{},
		&model.APIUsage{},
		&model.UserActivity{},
		&model.Download{},
		&model.DailyStat{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InitDB 初始化全局数据库连接，供仪表盘服务端使用
func InitDB(dbPath string) {
	var err error
	DB, err = Open(dbPath)
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// 检查是否已存在管理员账户
	var adminCount int64
	DB.Model(&model.User{}).Where("username = ?", "admin").Count(&adminCount)

	if adminCount == 0 {
		password := os.Getenv("DASHBOARD_ADMIN_PASSWORD")
		if password == "" {
			password = "admin"
		}

		// 生成密码哈希
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("生成密码哈希失败:", err)
		}

		// 创建管理员账户
		admin := &model.User{
			Username:  "admin",
			Password:  string(hashedPassword),
			Role:      "admin",
			Status:    "active",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := DB.Create(admin).Error; err != nil {
			log.Fatal("创建管理员账户失败:", err)
		}

		log.Println("已创建默认管理员账户")
	}
}
