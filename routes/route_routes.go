package routes

import (
	"freight_quotation/handlers"
	"freight_quotation/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRouteRoutes 设置线路相关路由
func RegisterRouteRoutes(api fiber.Router) {
	// 线路相关路由 - 全部需要操作员认证
	rts := api.Group("/routes", middleware.OperatorAuthMiddleware())

	rts.Post("/", handlers.CreateRoute)                // 创建线路
	rts.Get("/", handlers.GetRoutes)                   // 分页查询线路
	rts.Get("/:id", handlers.GetRouteByID)             // 获取单条线路（含关联数据）
	rts.Put("/:id", handlers.UpdateRoute)              // 更新线路
	rts.Delete("/:id", handlers.DeleteRoute)           // 删除线路
	rts.Post("/:id/recompute", handlers.RecomputeRoute) // 全量重算线路及各代理段汇总
	rts.Get("/:id/export", handlers.ExportRouteWorkbook) // 导出线路报价工作簿
	rts.Post("/:id/import", handlers.ImportRouteGoods)  // 导入货物报价单
}
