package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterGoodsRoutes 设置货物明细与货物汇总行相关路由
func RegisterGoodsRoutes(api fiber.Router) {
	// 货物相关路由 - 全部需要操作员认证
	goods := api.Group("/goods", middleware.OperatorAuthMiddleware())

	// 货物明细行（按件计）
	details := goods.Group("/details")
	details.Post("/", handlers.CreateGoodsDetail)      // 新增货物明细行
	details.Put("/:id", handlers.UpdateGoodsDetail)    // 更新货物明细行
	details.Delete("/:id", handlers.DeleteGoodsDetail) // 删除货物明细行

	// 货物汇总行（整票数据）
	totals := goods.Group("/totals")
	totals.Post("/", handlers.CreateGoodsTotal)      // 新增货物汇总行
	totals.Put("/:id", handlers.UpdateGoodsTotal)    // 更新货物汇总行
	totals.Delete("/:id", handlers.DeleteGoodsTotal) // 删除货物汇总行
}
