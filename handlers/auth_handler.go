// Package handlers 实现所有HTTP请求处理函数
// 处理函数只做参数解析和结果封装，派生字段与汇总的计算一律交给services包，
// 保证聚合字段只有引擎一个写入方
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/utils"
)

// LoginRequest 登录请求参数
type LoginRequest struct {
	Username string `json:"username"` // 用户名
	Password string `json:"password"` // 密码
}

// Login 操作员登录
// 验证用户名密码，签发JWT令牌
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "用户名和密码不能为空",
		})
	}

	// 查询操作员
	// 统一返回"用户名或密码错误"，不区分用户不存在和密码错误
	var operator models.Operator
	if err := database.GetDB().Where("username = ? AND status = ?", req.Username, "active").First(&operator).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "用户名或密码错误",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询操作员失败",
		})
	}

	// 验证密码
	if !operator.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "用户名或密码错误",
		})
	}

	// 签发令牌
	token, err := utils.GenerateToken(operator.ID, operator.Username)
	if err != nil {
		log.Errorf("签发令牌失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "签发令牌失败",
		})
	}

	// 更新最后登录时间
	now := time.Now()
	if err := database.GetDB().Model(&operator).Update("last_login_at", &now).Error; err != nil {
		log.Warnf("更新最后登录时间失败: %v", err)
		// 不影响登录结果，继续处理
	}

	return c.JSON(fiber.Map{
		"token": token,
		"operator": fiber.Map{
			"id":       operator.ID,
			"username": operator.Username,
			"name":     operator.Name,
		},
	})
}
