package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config 进程级配置，全部来自 .env / 环境变量
type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	DBPath      string
	DownloadDir string
	YTDLPPath   string

	ServerAddr    string
	JWTSecret     string
	AdminPassword string

	// Google Sheets 导出，可选
	SheetsEnabled        bool
	SheetsCredentialPath string
	SpreadsheetID        string
	SheetName            string
}

// Load 加载 .env（不存在则忽略）并读取环境变量
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用环境变量")
	}

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),

		DBPath:      getEnv("ANALYTICS_DB_PATH", "data/analytics.db"),
		DownloadDir: getEnv("DOWNLOAD_DIR", "downloads"),
		YTDLPPath:   getEnv("YTDLP_PATH", "yt-dlp"),

		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		AdminPassword: getEnv("DASHBOARD_ADMIN_PASSWORD", "admin"),

		SheetsEnabled:        os.Getenv("SHEETS_SYNC_ENABLED") == "true",
		SheetsCredentialPath: os.Getenv("SHEETS_CREDENTIAL_PATH"),
		SpreadsheetID:        os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetName:            getEnv("SHEETS_SHEET_NAME", "daily_stats"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
