package handler

import (
	"strconv"
	"time"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/database"

	"github.com/gofiber/fiber/v2"
)

func store() *analytics.Store {
	return analytics.New(database.DB)
}

// HandleTotalStats 累计统计
func HandleTotalStats(c *fiber.Ctx) error {
	stats, err := store().TotalStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取累计统计失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    stats,
	})
}

// HandleTodayStats 当日统计
func HandleTodayStats(c *fiber.Ctx) error {
	stats, err := store().TodayStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取当日统计失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    stats,
	})
}

// HandleTopUsers 活跃用户排行
func HandleTopUsers(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}

	users, err := store().TopUsers(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取用户排行失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    users,
	})
}

// HandleFeatureUsage 功能使用统计
func HandleFeatureUsage(c *fiber.Ctx) error {
	usage, err := store().FeatureUsage()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取功能统计失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    usage,
	})
}

// HandlePlatformDownloads 平台下载统计
func HandlePlatformDownloads(c *fiber.Ctx) error {
	downloads, err := store().PlatformDownloads()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取平台统计失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    downloads,
	})
}

// HandleHourlyActivity 按小时分布的活跃统计
func HandleHourlyActivity(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "7"))

	activity, err := store().HourlyActivity(days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取小时分布失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    activity,
	})
}

// HandleCostBreakdown 成本明细
func HandleCostBreakdown(c *fiber.Ctx) error {
	breakdown, err := store().CostBreakdown()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取成本明细失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    breakdown,
	})
}

// HandleErrorStats 错误统计
func HandleErrorStats(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	errs, err := store().ErrorStats(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取错误统计失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    errs,
	})
}

// HandleRecentActivity 最近的用户操作
func HandleRecentActivity(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	activity, err := store().RecentActivity(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取最近活动失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    activity,
	})
}

// HandleMonthlyEstimate 预估月度成本
func HandleMonthlyEstimate(c *fiber.Ctx) error {
	estimate, err := store().EstimateMonthlyCost()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "预估月度成本失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    fiber.Map{"monthly_estimate": estimate},
	})
}

// HandleDailyStats 每日汇总列表
func HandleDailyStats(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "30"))

	stats, err := store().DailyStats(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取每日汇总失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    stats,
	})
}

// HandleCleanup 删除过期数据，仅管理员可用
func HandleCleanup(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "90"))
	if err != nil || days < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "days 参数无效",
		})
	}

	deleted, err := store().CleanupOldData(days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "清理过期数据失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    fiber.Map{"deleted": deleted},
	})
}

// HandleRollup 手动触发指定日期的汇总，默认当天
func HandleRollup(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"code":    400,
				"message": "日期格式应为 YYYY-MM-DD",
			})
		}
		day = parsed
	}

	stat, err := store().RollupDaily(day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "每日汇总失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    stat,
	})
}
