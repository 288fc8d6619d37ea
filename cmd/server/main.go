package main

import (
	"log"
	"time"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/config"
	"social-media-bot/internal/database"
	"social-media-bot/internal/handler"
	"social-media-bot/internal/middleware"
	"social-media-bot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	database.InitDB(cfg.DBPath)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// 中间件
	app.Use(logger.New())
	app.Use(cors.New())

	// 路由组
	api := app.Group("/api/v1")

	// 认证路由
	auth := api.Group("/auth")
	auth.Post("/login", handler.HandleLogin)
	auth.Post("/validate-token", handler.HandleValidateToken)

	// 统计路由，全部需要认证
	stats := api.Group("/stats")
	stats.Use(middleware.Auth())
	stats.Get("/total", handler.HandleTotalStats)
	stats.Get("/today", handler.HandleTodayStats)
	stats.Get("/top-users", handler.HandleTopUsers)
	stats.Get("/features", handler.HandleFeatureUsage)
	stats.Get("/platforms", handler.HandlePlatformDownloads)
	stats.Get("/hourly", handler.HandleHourlyActivity)
	stats.Get("/costs", handler.HandleCostBreakdown)
	stats.Get("/errors", handler.HandleErrorStats)
	stats.Get("/recent", handler.HandleRecentActivity)
	stats.Get("/monthly-estimate", handler.HandleMonthlyEstimate)
	stats.Get("/daily", handler.HandleDailyStats)
	stats.Get("/system", handler.HandleSystemStats)

	// 管理员专用路由
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(), middleware.AdminOnly())
	admin.Post("/cleanup", handler.HandleCleanup)
	admin.Post("/rollup", handler.HandleRollup)

	// 每日汇总 + 可选 Google Sheets 导出
	go runDailyRollup(cfg)

	log.Fatal(app.Listen(cfg.ServerAddr))
}

// runDailyRollup 每小时汇总昨天和今天的数据到 daily_stats，
// 配置了 Sheets 时同步导出
func runDailyRollup(cfg *config.Config) {
	sheets, err := service.NewSheetSyncService(
		cfg.SheetsEnabled, cfg.SheetsCredentialPath, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Printf("Sheets 同步初始化失败: %v", err)
	}

	store := analytics.New(database.DB)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		for _, day := range []time.Time{time.Now().AddDate(0, 0, -1), time.Now()} {
			stat, err := store.RollupDaily(day)
			if err != nil {
				log.Printf("每日汇总失败: %v", err)
				continue
			}
			if sheets != nil {
				if err := sheets.SyncDailyStat(stat); err != nil {
					log.Printf("Sheets 同步失败: %v", err)
				}
			}
		}
		<-ticker.C
	}
}
