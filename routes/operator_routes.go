package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterOperatorRoutes 设置操作员管理相关路由
// 初始操作员由数据库迁移播种，之后的操作员由已登录的操作员创建
func RegisterOperatorRoutes(api fiber.Router) {
	operators := api.Group("/operators", middleware.OperatorAuthMiddleware())

	operators.Post("/", handlers.CreateOperator) // 创建操作员
	operators.Get("/", handlers.GetOperators)    // 获取全部操作员
}
