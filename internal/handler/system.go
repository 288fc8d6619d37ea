package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HandleSystemStats 主机资源占用，供仪表盘展示
func HandleSystemStats(c *fiber.Ctx) error {
	cpuPercent, err := cpu.Percent(time.Second, false)
	if err != nil || len(cpuPercent) == 0 {
		cpuPercent = []float64{0}
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取内存信息失败",
		})
	}

	du, err := disk.Usage("/")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "获取磁盘信息失败",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data": fiber.Map{
			"cpu":    cpuPercent[0],
			"memory": vm.UsedPercent,
			"disk":   du.UsedPercent,
		},
	})
}
