package service

import (
	"context"
	"log"

	"social-media-bot/internal/analytics"
)

// Gemini 计费参数（2025年价格）
const (
	geminiInputPer1K  = 0.00001875 // $0.01875 / 1M tokens
	geminiOutputPer1K = 0.000075   // $0.075 / 1M tokens

	avgTokensCaption = 150 // 文案生成的估算token数
	avgTokensImage   = 500 // 图片分析的估算token数
)

// AvgTokens 返回某个功能的估算token数
func AvgTokens(feature string) int {
	if feature == "image_analysis" {
		return avgTokensImage
	}
	return avgTokensCaption
}

// EstimateCost 按功能和token数估算单次调用成本
func EstimateCost(feature string, tokens int) float64 {
	switch feature {
	case "caption", "hashtags":
		if tokens == 0 {
			tokens = avgTokensCaption
		}
		return float64(tokens) / 1000 * geminiOutputPer1K
	case "image_analysis":
		if tokens == 0 {
			tokens = avgTokensImage
		}
		return float64(tokens) / 1000 * (geminiInputPer1K + geminiOutputPer1K)
	default:
		return 0.0
	}
}

// Tracker 在业务调用前后写入使用统计
type Tracker struct {
	store *analytics.Store
}

func NewTracker(store *analytics.Store) *Tracker {
	return &Tracker{store: store}
}

// TrackAction 记录一次用户操作，失败只记日志不中断业务
func (t *Tracker) TrackAction(userID int64, username, firstName, action, details string) {
	if err := t.store.RecordUserActivity(userID, username, firstName, action, details); err != nil {
		log.Printf("记录用户操作失败: %v", err)
	}
}

// TrackDownload 记录一次下载尝试
func (t *Tracker) TrackDownload(userID int64, username, platform, contentType string, success bool, fileSize int64) {
	if err := t.store.RecordDownload(userID, username, platform, contentType, success, fileSize); err != nil {
		log.Printf("记录下载失败: %v", err)
	}
}

// TrackAPICall 包装一次AI调用：成功按估算token计费，失败记录错误信息
func (t *Tracker) TrackAPICall(ctx context.Context, userID int64, username, apiType, feature string, fn func(context.Context) (string, error)) (string, error) {
	result, err := fn(ctx)
	if err != nil {
		if recErr := t.store.RecordAPIUsage(userID, username, apiType, feature, 0, 0.0, false, err.Error()); recErr != nil {
			log.Printf("记录API调用失败: %v", recErr)
		}
		return result, err
	}

	tokens := AvgTokens(feature)
	cost := EstimateCost(feature, tokens)
	if recErr := t.store.RecordAPIUsage(userID, username, apiType, feature, tokens, cost, true, ""); recErr != nil {
		log.Printf("记录API调用失败: %v", recErr)
	}
	return result, nil
}
