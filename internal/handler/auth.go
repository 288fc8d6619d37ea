package handler

import (
	"time"

	"social-media-bot/internal/database"
	"social-media-bot/internal/model"
	"social-media-bot/internal/util"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin 管理员登录，返回JWT
func HandleLogin(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "请求格式错误",
		})
	}

	var user model.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    401,
			"message": "用户名或密码错误",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    401,
			"message": "用户名或密码错误",
		})
	}

	if user.Status != "active" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"code":    403,
			"message": "账户已停用",
		})
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    500,
			"message": "生成令牌失败",
		})
	}

	// 更新最后登录时间
	database.DB.Model(&user).Update("last_login", time.Now())

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data": fiber.Map{
			"token":    token,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// HandleValidateToken 校验令牌有效性
func HandleValidateToken(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "请求格式错误",
		})
	}

	userID, err := util.ValidateToken(input.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    401,
			"message": "无效的认证令牌",
		})
	}

	return c.JSON(fiber.Map{
		"code":    200,
		"message": "success",
		"data":    fiber.Map{"user_id": userID},
	})
}
