package bot

import (
	"fmt"
	"log"
	"sync"
	"time"

	"social-media-bot/internal/caption"
	"social-media-bot/internal/config"
	"social-media-bot/internal/downloader"
	"social-media-bot/internal/service"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// Bot 负责消息分发，业务逻辑委托给下载器和文案生成器
type Bot struct {
	tb      *tele.Bot
	tracker *service.Tracker
	caption *caption.Generator
	dl      *downloader.Downloader

	downloadDir string

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

func New(cfg *config.Config, tracker *service.Tracker, gen *caption.Generator, dl *downloader.Downloader) (*Bot, error) {
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("未配置 TELEGRAM_BOT_TOKEN")
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Printf("处理更新出错: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("创建bot失败: %w", err)
	}

	b := &Bot{
		tb:          tb,
		tracker:     tracker,
		caption:     gen,
		dl:          dl,
		downloadDir: cfg.DownloadDir,
		limiters:    make(map[int64]*rate.Limiter),
	}
	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/help", b.onHelp)
	b.tb.Handle("/caption", b.onCaption)
	b.tb.Handle("/hashtags", b.onHashtags)
	b.tb.Handle(tele.OnText, b.onText)
	b.tb.Handle(tele.OnPhoto, b.onPhoto)
	b.tb.Handle(&tele.Btn{Unique: "gen_caption"}, b.onCaptionButton)
	b.tb.Handle(&tele.Btn{Unique: "gen_hashtags"}, b.onHashtagsButton)
}

// Start 开始长轮询，阻塞直到 Stop
func (b *Bot) Start() {
	log.Println("🤖 Bot is starting...")
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

// allow 每用户限流：3秒补充一次，突发上限3
func (b *Bot) allow(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	limiter, ok := b.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(3*time.Second), 3)
		b.limiters[userID] = limiter
	}
	return limiter.Allow()
}
