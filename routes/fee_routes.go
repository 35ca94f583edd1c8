package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterFeeRoutes 设置费用明细与整单费用相关路由
func RegisterFeeRoutes(api fiber.Router) {
	// 费用相关路由 - 全部需要操作员认证
	fees := api.Group("/fees", middleware.OperatorAuthMiddleware())

	// 费用明细行（按量计费）
	items := fees.Group("/items")
	items.Post("/", handlers.CreateFeeItem)      // 新增费用明细行
	items.Put("/:id", handlers.UpdateFeeItem)    // 更新费用明细行
	items.Delete("/:id", handlers.DeleteFeeItem) // 删除费用明细行

	// 整单费用行
	totals := fees.Group("/totals")
	totals.Post("/", handlers.CreateFeeTotal)      // 新增整单费用行
	totals.Put("/:id", handlers.UpdateFeeTotal)    // 更新整单费用行
	totals.Delete("/:id", handlers.DeleteFeeTotal) // 删除整单费用行
}
