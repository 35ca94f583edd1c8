package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRouteAgentRoutes 设置代理段相关路由
func RegisterRouteAgentRoutes(api fiber.Router) {
	// 代理段相关路由 - 全部需要操作员认证
	agents := api.Group("/agents", middleware.OperatorAuthMiddleware())

	agents.Post("/", handlers.CreateRouteAgent)                  // 创建代理段
	agents.Get("/:id", handlers.GetRouteAgentByID)               // 获取单个代理段（含费用与汇总）
	agents.Put("/:id", handlers.UpdateRouteAgent)                // 更新代理段
	agents.Delete("/:id", handlers.DeleteRouteAgent)             // 删除代理段
	agents.Post("/:id/recompute", handlers.RecomputeAgentSummary) // 重算代理段汇总
	agents.Get("/:id/summary", handlers.GetAgentSummary)         // 获取代理段汇总
	agents.Put("/:id/summary/rates", handlers.SetAgentSummaryRates) // 设置税率、汇损率、不含项目
	agents.Post("/:id/fees/import", handlers.ImportAgentFees)    // 导入费用报价单
}
