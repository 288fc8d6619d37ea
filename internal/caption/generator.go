package caption

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	modelName      = "gemini-2.5-flash"
	requestTimeout = 30 * time.Second

	// 未配置API密钥时的提示文案
	disabledNotice = "⚠️ AI features are disabled. Please add GEMINI_API_KEY to .env file."
)

// Result 图片分析的产出
type Result struct {
	Caption  string `json:"caption"`
	Hashtags string `json:"hashtags"`
	FullText string `json:"full_text"`
}

// Generator 调用Gemini生成文案和标签，未配置密钥时降级为提示文案
type Generator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	enabled bool
}

func New(ctx context.Context, apiKey string) (*Generator, error) {
	if apiKey == "" {
		log.Println("未配置 GEMINI_API_KEY，AI功能停用")
		return &Generator{enabled: false}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("创建Gemini客户端失败: %v", err)
	}

	return &Generator{
		client:  client,
		model:   client.GenerativeModel(modelName),
		enabled: true,
	}, nil
}

// Enabled 是否可用
func (g *Generator) Enabled() bool {
	return g.enabled
}

// Close 释放客户端连接
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateCaption 生成一条社媒文案
func (g *Generator) GenerateCaption(ctx context.Context, topic, style string) (string, error) {
	if !g.enabled {
		return disabledNotice, nil
	}
	if style == "" {
		style = "engaging"
	}

	prompt := fmt.Sprintf(`Create an %s social media caption for: %s

Requirements:
- Make it catchy and attention-grabbing
- Keep it under 150 characters
- Include 1-2 relevant emojis
- Perfect for Instagram/Facebook/TikTok
- Target audience: 15-35 age group
- Don't include hashtags (they'll be generated separately)

Just return the caption, nothing else.`, style, topic)

	text, err := g.generate(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("caption generation: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateHashtags 生成指定数量的标签
func (g *Generator) GenerateHashtags(ctx context.Context, topic string, count int) (string, error) {
	if !g.enabled {
		return disabledNotice, nil
	}
	if count <= 0 {
		count = 15
	}

	prompt := fmt.Sprintf(`Generate %d trending and relevant hashtags for: %s

Requirements:
- Mix of popular and niche hashtags
- Relevant to 15-35 age group
- Mix of broad and specific tags
- Include trending tags when relevant
- Perfect for Instagram/TikTok/Facebook

Format: Return ONLY the hashtags separated by spaces, like:
#hashtag1 #hashtag2 #hashtag3`, count, topic)

	text, err := g.generate(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("hashtag generation: %w", err)
	}
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " "), nil
}

// AnalyzeImage 分析图片并生成文案和标签
func (g *Generator) AnalyzeImage(ctx context.Context, imagePath, style string) (*Result, error) {
	if !g.enabled {
		return &Result{
			Caption:  disabledNotice,
			FullText: disabledNotice,
		}, nil
	}
	if style == "" {
		style = "engaging"
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("读取图片失败: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this image and create %s social media content.

Tasks:
1. Generate a catchy caption (under 150 characters, include 1-2 emojis)
2. Generate 15 relevant hashtags

Requirements:
- Caption should be attention-grabbing and %s
- Target audience: 15-35 age group
- Perfect for Instagram/Facebook/TikTok
- Hashtags: mix of popular and niche tags

Format your response EXACTLY like this:
CAPTION: [your caption here]
HASHTAGS: #tag1 #tag2 #tag3 ...`, style, style)

	text, err := g.generate(ctx, genai.Text(prompt), genai.ImageData(imageFormat(imagePath), data))
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}

	return ParseAnalysis(text), nil
}

func (g *Generator) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// ParseAnalysis 解析 CAPTION:/HASHTAGS: 格式的模型输出，解析不出则回退
func ParseAnalysis(text string) *Result {
	text = strings.TrimSpace(text)

	var captionText, hashtags string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "CAPTION:") {
			captionText = strings.TrimSpace(strings.TrimPrefix(line, "CAPTION:"))
		} else if strings.HasPrefix(line, "HASHTAGS:") {
			hashtags = strings.TrimSpace(strings.TrimPrefix(line, "HASHTAGS:"))
		}
	}

	// 解析失败时按空行拆分
	if captionText == "" && hashtags == "" {
		parts := strings.SplitN(text, "\n\n", 2)
		if len(parts) == 2 {
			captionText = strings.TrimSpace(parts[0])
			hashtags = strings.TrimSpace(parts[1])
		} else {
			captionText = text
		}
	}

	if captionText == "" {
		captionText = "✨ Image analyzed successfully!"
	}

	fullText := captionText
	if hashtags != "" {
		fullText = captionText + "\n\n" + hashtags
	}

	return &Result{
		Caption:  captionText,
		Hashtags: hashtags,
		FullText: fullText,
	}
}

// FriendlyError 将底层错误转换为发给用户的提示
func FriendlyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline exceeded"):
		return "⚠️ AI generation timed out. Please try again with a shorter topic."
	case strings.Contains(msg, "quota"), strings.Contains(msg, "limit"):
		return "⚠️ API quota exceeded. Please wait a few minutes and try again."
	case strings.Contains(msg, "429"):
		return "⚠️ Too many requests. Please wait 1 minute and try again."
	default:
		return fmt.Sprintf("⚠️ Error generating content: %v", err)
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

func imageFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}
