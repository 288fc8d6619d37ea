package main

import (
	"log"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/config"
	"social-media-bot/internal/database"
	"social-media-bot/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	p := tea.NewProgram(tui.New(analytics.New(db)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("仪表盘运行失败: %v", err)
	}
}
