package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"social-media-bot/internal/downloader"

	tele "gopkg.in/telebot.v3"
)

const welcomeMessage = `👋 Welcome %s!

🤖 **Social Media Manager Bot**

I can help you with:
📥 Download content from Instagram, YouTube, TikTok
📸 Analyze images and generate captions
✍️ Generate captions with AI
🔖 Suggest trending hashtags

**How to use:**
1️⃣ Send me any Instagram/YouTube/TikTok link
2️⃣ Send me a photo for AI analysis
3️⃣ Get AI-generated captions & hashtags

**Commands:**
/start - Show this message
/help - Get detailed help
/caption - Generate caption for text
/hashtags - Get hashtag suggestions

Made with ❤️ for content creators`

const helpMessage = `📖 **How to Use This Bot:**

**📸 Analyze Your Photos:**
Simply send me any photo and I'll:
• Analyze the image content
• Generate a catchy caption
• Suggest 15 relevant hashtags

**Download Content:**
Just send me a link from:
• Instagram (posts, reels, stories)
• YouTube (videos, shorts)
• TikTok (videos)
• Facebook (videos)

**Generate Captions:**
Use: /caption <your topic>
Example: /caption sunset beach photo

**Get Hashtags:**
Use: /hashtags <your topic>
Example: /hashtags fitness motivation

**Tips:**
• Send photos directly for AI analysis
• Send links one at a time
• Video downloads may take 30-60 seconds
• Maximum video size: 50MB (Telegram limit)`

func username(u *tele.User) string {
	if u.Username == "" {
		return "Unknown"
	}
	return u.Username
}

func firstName(u *tele.User) string {
	if u.FirstName == "" {
		return "User"
	}
	return u.FirstName
}

func (b *Bot) onStart(c tele.Context) error {
	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "start", "")
	return c.Send(fmt.Sprintf(welcomeMessage, firstName(user)))
}

func (b *Bot) onHelp(c tele.Context) error {
	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "help", "")
	return c.Send(helpMessage)
}

func (b *Bot) onCaption(c tele.Context) error {
	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "caption", "")

	if !b.allow(user.ID) {
		return c.Send("⏳ Slow down a little! Try again in a few seconds.")
	}

	if len(c.Args()) == 0 {
		return c.Send("Please provide a topic!\n\nExample: /caption sunset beach photo")
	}
	topic := strings.Join(c.Args(), " ")

	msg, err := b.tb.Send(c.Chat(), "✍️ Generating caption...")
	if err != nil {
		return err
	}

	text, err := b.tracker.TrackAPICall(context.Background(), user.ID, username(user), "gemini", "caption",
		func(ctx context.Context) (string, error) {
			return b.caption.GenerateCaption(ctx, topic, "engaging")
		})
	if err != nil {
		_, editErr := b.tb.Edit(msg, "❌ "+err.Error())
		return editErr
	}

	_, err = b.tb.Edit(msg, "✨ **Generated Caption:**\n\n"+text)
	return err
}

func (b *Bot) onHashtags(c tele.Context) error {
	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "hashtags", "")

	if !b.allow(user.ID) {
		return c.Send("⏳ Slow down a little! Try again in a few seconds.")
	}

	if len(c.Args()) == 0 {
		return c.Send("Please provide a topic!\n\nExample: /hashtags fitness motivation")
	}
	topic := strings.Join(c.Args(), " ")

	msg, err := b.tb.Send(c.Chat(), "🔖 Generating hashtags...")
	if err != nil {
		return err
	}

	text, err := b.tracker.TrackAPICall(context.Background(), user.ID, username(user), "gemini", "hashtags",
		func(ctx context.Context) (string, error) {
			return b.caption.GenerateHashtags(ctx, topic, 15)
		})
	if err != nil {
		_, editErr := b.tb.Edit(msg, "❌ "+err.Error())
		return editErr
	}

	_, err = b.tb.Edit(msg, "🔖 **Suggested Hashtags:**\n\n"+text)
	return err
}

// onText 处理普通文本，仅支持各平台链接
func (b *Bot) onText(c tele.Context) error {
	url := strings.TrimSpace(c.Text())
	platform := downloader.DetectPlatform(url)
	if platform == "" {
		return c.Send("❌ I can only download from Instagram, YouTube, TikTok, and Facebook.\n\nSend /help to see examples.")
	}

	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "download", platform)

	if !b.allow(user.ID) {
		return c.Send("⏳ Slow down a little! Try again in a few seconds.")
	}

	processing, err := b.tb.Send(c.Chat(), "⏳ Processing your link...\nThis may take 30-60 seconds.")
	if err != nil {
		return err
	}

	result, err := b.dl.Download(context.Background(), url)
	if err != nil {
		b.tracker.TrackDownload(user.ID, username(user), platform, "unknown", false, 0)
		_, editErr := b.tb.Edit(processing, "❌ An error occurred: "+err.Error())
		return editErr
	}

	if !result.Success {
		b.tracker.TrackDownload(user.ID, username(user), platform, "unknown", false, 0)
		_, editErr := b.tb.Edit(processing, "❌ Error: "+result.Err)
		return editErr
	}

	fileSize := downloader.FileSize(result.FilePath)
	b.tracker.TrackDownload(user.ID, username(user), result.Platform, result.Type, true, fileSize)

	mediaCaption := fmt.Sprintf("✅ Downloaded from %s\n\n%s", result.Platform, result.Caption)
	switch result.Type {
	case "video":
		err = c.Send(&tele.Video{
			File:      tele.FromDisk(result.FilePath),
			Caption:   mediaCaption,
			Streaming: true,
		})
	default:
		err = c.Send(&tele.Photo{
			File:    tele.FromDisk(result.FilePath),
			Caption: mediaCaption,
		})
	}

	// 发送后立刻清理本地文件
	if rmErr := os.Remove(result.FilePath); rmErr != nil {
		log.Printf("清理下载文件失败: %v", rmErr)
	}

	if err != nil {
		_, editErr := b.tb.Edit(processing, "❌ Failed to send media: "+err.Error())
		return editErr
	}

	if delErr := b.tb.Delete(processing); delErr != nil {
		log.Printf("删除处理中提示失败: %v", delErr)
	}

	// 询问是否需要AI文案
	markup := &tele.ReplyMarkup{}
	btnCaption := markup.Data("✨ Generate AI Caption", "gen_caption", url)
	btnHashtags := markup.Data("🔖 Get Hashtags", "gen_hashtags", url)
	markup.Inline(markup.Row(btnCaption), markup.Row(btnHashtags))

	return c.Send("Would you like AI-generated content?", markup)
}

func (b *Bot) onPhoto(c tele.Context) error {
	user := c.Sender()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "photo_analysis", "")

	if !b.allow(user.ID) {
		return c.Send("⏳ Slow down a little! Try again in a few seconds.")
	}

	processing, err := b.tb.Send(c.Chat(), "📸 Analyzing your image...\nGenerating caption and hashtags...")
	if err != nil {
		return err
	}

	photo := c.Message().Photo
	photoPath := filepath.Join(b.downloadDir, fmt.Sprintf("photo_%d_%s.jpg", user.ID, photo.UniqueID))
	if err := b.tb.Download(&photo.File, photoPath); err != nil {
		_, editErr := b.tb.Edit(processing, "❌ Error downloading photo: "+err.Error())
		return editErr
	}
	defer func() {
		if rmErr := os.Remove(photoPath); rmErr != nil {
			log.Printf("清理照片失败: %v", rmErr)
		}
	}()

	fullText, err := b.tracker.TrackAPICall(context.Background(), user.ID, username(user), "gemini", "image_analysis",
		func(ctx context.Context) (string, error) {
			result, analyzeErr := b.caption.AnalyzeImage(ctx, photoPath, "engaging")
			if analyzeErr != nil {
				return "", analyzeErr
			}
			return result.FullText, nil
		})
	if err != nil {
		_, editErr := b.tb.Edit(processing, "❌ Error analyzing image: "+err.Error())
		return editErr
	}

	if delErr := b.tb.Delete(processing); delErr != nil {
		log.Printf("删除处理中提示失败: %v", delErr)
	}

	return c.Send("✨ **AI Analysis:**\n\n" + fullText)
}

func (b *Bot) onCaptionButton(c tele.Context) error {
	user := c.Sender()
	url := c.Data()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "caption_button", url)

	if err := c.Respond(); err != nil {
		return err
	}
	if err := c.Send("✍️ Generating AI caption..."); err != nil {
		return err
	}

	text, err := b.tracker.TrackAPICall(context.Background(), user.ID, username(user), "gemini", "caption",
		func(ctx context.Context) (string, error) {
			return b.caption.GenerateCaption(ctx, "social media post from "+url, "engaging")
		})
	if err != nil {
		return c.Send("❌ Error: " + err.Error())
	}

	return c.Send("✨ **AI Caption:**\n\n" + text)
}

func (b *Bot) onHashtagsButton(c tele.Context) error {
	user := c.Sender()
	url := c.Data()
	b.tracker.TrackAction(user.ID, username(user), firstName(user), "hashtags_button", url)

	if err := c.Respond(); err != nil {
		return err
	}
	if err := c.Send("🔖 Generating hashtags..."); err != nil {
		return err
	}

	text, err := b.tracker.TrackAPICall(context.Background(), user.ID, username(user), "gemini", "hashtags",
		func(ctx context.Context) (string, error) {
			return b.caption.GenerateHashtags(ctx, "content from "+url, 15)
		})
	if err != nil {
		return c.Send("❌ Error: " + err.Error())
	}

	return c.Send("🔖 **Hashtags:**\n\n" + text)
}
