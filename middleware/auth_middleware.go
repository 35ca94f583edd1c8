// Package middleware 提供HTTP中间件
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/utils"
)

// OperatorAuthMiddleware 验证操作员身份的中间件
// 该中间件负责处理所有需要操作员身份验证的路由请求，
// 通过Authorization头的Bearer令牌认证
//
// 认证成功后，会将操作员信息存储在请求上下文中，供后续处理函数使用
// 认证失败则会返回相应的错误信息和状态码
func OperatorAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 从请求头获取Authorization
		// 检查是否提供了Bearer令牌
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "未提供有效的认证令牌",
			})
		}

		tokenString := authHeader[7:]

		// 解析令牌
		// 使用JWT工具验证令牌签名并提取声明信息
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			log.Warnf("认证中间件 - 令牌解析失败: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "无效的认证令牌",
			})
		}

		// 查询操作员信息
		// 验证操作员是否存在且状态为活跃
		var operator models.Operator
		if err := database.GetDB().Where("id = ? AND status = ?", claims.OperatorID, "active").First(&operator).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "操作员不存在或已被禁用",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "验证操作员身份失败",
			})
		}

		// 将操作员信息存储在上下文中，供后续处理函数使用
		c.Locals("operator_id", operator.ID)
		c.Locals("operator_name", operator.Name)

		return c.Next()
	}
}
