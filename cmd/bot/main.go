package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/bot"
	"social-media-bot/internal/caption"
	"social-media-bot/internal/config"
	"social-media-bot/internal/database"
	"social-media-bot/internal/downloader"
	"social-media-bot/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	tracker := service.NewTracker(analytics.New(db))

	gen, err := caption.New(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Gemini 初始化失败: %v", err)
	}

	dl, err := downloader.New(cfg.DownloadDir, cfg.YTDLPPath)
	if err != nil {
		log.Fatalf("下载目录初始化失败: %v", err)
	}

	b, err := bot.New(cfg, tracker, gen, dl)
	if err != nil {
		log.Fatalf("机器人初始化失败: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("收到退出信号，正在停止")
		b.Stop()
	}()

	log.Println("🤖 Bot is running...")
	b.Start()
}
