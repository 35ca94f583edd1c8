package routes

import (
	"freight_quotation/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterAuthRoutes 设置操作员认证相关路由
func RegisterAuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	// 登录不需要认证
	auth.Post("/login", handlers.Login) // 操作员登录
}
