package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterForexRoutes 设置汇率相关路由
func RegisterForexRoutes(api fiber.Router) {
	// 汇率相关路由 - 全部需要操作员认证
	forex := api.Group("/forex", middleware.OperatorAuthMiddleware())

	forex.Get("/", handlers.GetForexRates)      // 获取全部汇率
	forex.Post("/", handlers.CreateForexRate)   // 新增汇率
	forex.Put("/:id", handlers.UpdateForexRate) // 更新汇率
	forex.Delete("/:id", handlers.DeleteForexRate) // 删除汇率
}
