package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 受Telegram单文件50MB限制
const formatSpec = "best[filesize<50M]/best"

const downloadTimeout = 120 * time.Second

// Result 下载结果
type Result struct {
	Success  bool   `json:"success"`
	Type     string `json:"type"` // video 或 image
	FilePath string `json:"file_path"`
	Platform string `json:"platform"`
	Caption  string `json:"caption"`
	Err      string `json:"error"`
}

// Downloader 通过 yt-dlp 下载各平台内容
type Downloader struct {
	dir   string
	ytdlp string
}

func New(dir, ytdlpPath string) (*Downloader, error) {
	if dir == "" {
		dir = "downloads"
	}
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建下载目录失败: %w", err)
	}
	return &Downloader{dir: dir, ytdlp: ytdlpPath}, nil
}

// DetectPlatform 识别链接所属平台，不支持返回空串
func DetectPlatform(url string) string {
	switch {
	case strings.Contains(url, "instagram.com"):
		return "Instagram"
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return "YouTube"
	case strings.Contains(url, "tiktok.com"):
		return "TikTok"
	case strings.Contains(url, "facebook.com"), strings.Contains(url, "fb.watch"):
		return "Facebook"
	default:
		return ""
	}
}

// Download 下载链接内容，业务性失败放在 Result.Err 中而不是 error
func (d *Downloader) Download(ctx context.Context, url string) (*Result, error) {
	platform := DetectPlatform(url)
	if platform == "" {
		return &Result{Success: false, Err: "Unsupported platform"}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	// 先取元信息，拿标题/描述作为原始文案
	meta, err := d.probe(ctx, url)
	if err != nil {
		log.Printf("%s 元信息获取失败: %v", platform, err)
		return &Result{
			Success:  false,
			Platform: platform,
			Err:      friendlyError(platform, err),
		}, nil
	}

	prefix := strings.ToLower(platform) + "_" + uuid.NewString()
	template := filepath.Join(d.dir, prefix+".%(ext)s")

	args := []string{
		"--quiet",
		"--no-warnings",
		"-f", formatSpec,
		"--socket-timeout", "30",
		"--retries", "3",
		"--fragment-retries", "3",
		"-o", template,
		url,
	}

	cmd := exec.CommandContext(ctx, d.ytdlp, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("%s 下载失败: %v: %s", platform, err, stderr.String())
		return &Result{
			Success:  false,
			Platform: platform,
			Err:      friendlyError(platform, fmt.Errorf("%v: %s", err, stderr.String())),
		}, nil
	}

	// 按前缀找落盘文件
	matches, err := filepath.Glob(filepath.Join(d.dir, prefix+".*"))
	if err != nil || len(matches) == 0 {
		return &Result{
			Success:  false,
			Platform: platform,
			Err:      fmt.Sprintf("%s error: downloaded file not found", platform),
		}, nil
	}

	filePath := matches[0]
	caption := meta.Description
	if caption == "" {
		caption = meta.Title
	}

	return &Result{
		Success:  true,
		Type:     MediaType(filePath),
		FilePath: filePath,
		Platform: platform,
		Caption:  caption,
	}, nil
}

type mediaInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// probe 用 -J 拉取元信息，不下载
func (d *Downloader) probe(ctx context.Context, url string) (*mediaInfo, error) {
	cmd := exec.CommandContext(ctx, d.ytdlp,
		"-J",
		"--no-warnings",
		"--socket-timeout", "30",
		url,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%v: %s", err, stderr.String())
	}

	var info mediaInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("解析元信息失败: %w", err)
	}
	return &info, nil
}

// MediaType 按扩展名判断媒体类型
func MediaType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp4", "webm", "mkv", "mov":
		return "video"
	default:
		return "image"
	}
}

// FileSize 返回文件大小，取不到返回0
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func friendlyError(platform string, err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "timed out"), strings.Contains(lower, "timeout"),
		strings.Contains(lower, "deadline exceeded"):
		msg = "Download timed out. The video/image might be too large or network is slow. Please try again."
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		msg = "Access denied. The post might be private or restricted."
	case strings.Contains(msg, "404"):
		msg = "Post not found. Check if the link is correct."
	}

	return fmt.Sprintf("%s error: %s", platform, msg)
}
