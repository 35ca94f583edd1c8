package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/services"
	"freight_quotation/utils"
)

// RouteRequest 线路的可编辑字段
// 实重、货值、体积、货物名称由聚合引擎维护，不在请求参数中；
// 计费重是唯一允许调用方覆盖的汇总口径字段
type RouteRequest struct {
	RouteNo        string           `json:"route_no"`        // 线路编号，空则自动生成
	Origin         string           `json:"origin"`          // 起点
	Via            string           `json:"via"`             // 途径地
	Destination    string           `json:"destination"`     // 终点
	StartDate      string           `json:"start_date"`      // 交易开始日期，格式2006-01-02
	EndDate        string           `json:"end_date"`        // 交易结束日期，格式2006-01-02
	BillableWeight *decimal.Decimal `json:"billable_weight"` // 计费重覆盖值，不传则保持现状
	Remark         string           `json:"remark"`          // 备注
}

// parseDate 解析日期参数，空串返回nil
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// applyRouteRequest 把请求参数应用到线路实体上
func applyRouteRequest(route *models.Route, req *RouteRequest) error {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}

	if req.RouteNo != "" {
		route.RouteNo = req.RouteNo
	}
	route.Origin = req.Origin
	route.Via = req.Via
	route.Destination = req.Destination
	route.StartDate = startDate
	route.EndDate = endDate
	route.Remark = req.Remark
	if req.BillableWeight != nil {
		route.BillableWeight = req.BillableWeight
	}
	return nil
}

// CreateRoute 新增线路
func CreateRoute(c *fiber.Ctx) error {
	var req RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	route := &models.Route{}
	if err := applyRouteRequest(route, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "日期格式错误，应为2006-01-02",
		})
	}
	if route.RouteNo == "" {
		route.RouteNo = utils.GenerateRouteNo()
	}

	if err := services.CreateRoute(database.GetDB(), route); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建线路失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(route)
}

// GetRoutes 查询线路列表
// 支持按起点、终点、年份、月份过滤和分页
func GetRoutes(c *fiber.Ctx) error {
	db := database.GetDB().Model(&models.Route{})

	// 组合过滤条件
	if origin := c.Query("origin"); origin != "" {
		db = db.Where("origin LIKE ?", "%"+origin+"%")
	}
	if destination := c.Query("destination"); destination != "" {
		db = db.Where("destination LIKE ?", "%"+destination+"%")
	}
	if year := c.QueryInt("year"); year > 0 {
		db = db.Where("year = ?", year)
	}
	if month := c.QueryInt("month"); month > 0 {
		db = db.Where("month = ?", month)
	}

	// 统计总数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路总数失败",
		})
	}

	// 分页参数
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var routes []models.Route
	err := db.Order("id desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&routes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路列表失败",
		})
	}

	return c.JSON(fiber.Map{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      routes,
	})
}

// GetRouteByID 查询单条线路，带出代理段（含汇总）和货物行
func GetRouteByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	var route models.Route
	err = database.GetDB().
		Preload("Agents", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.FeeItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.FeeTotals", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.Summary").
		Preload("GoodsDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("GoodsTotals", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&route, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "线路不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路失败",
		})
	}
	return c.JSON(route)
}

// UpdateRoute 更新线路
func UpdateRoute(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	var route models.Route
	if err := database.GetDB().First(&route, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "线路不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路失败",
		})
	}

	var req RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}
	if err := applyRouteRequest(&route, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "日期格式错误，应为2006-01-02",
		})
	}

	if err := services.UpdateRoute(database.GetDB(), &route); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新线路失败: " + err.Error(),
		})
	}
	return c.JSON(route)
}

// DeleteRoute 删除线路
// 外键级联会同时删掉代理段、货物行、费用行和汇总记录
func DeleteRoute(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	if err := services.DeleteRoute(database.GetDB(), uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除线路失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "线路已删除",
	})
}

// RecomputeRoute 对线路重跑完整级联（回填/修复入口）
// 用于修复绕过引擎的改库造成的汇总漂移
func RecomputeRoute(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	if err := services.ReconcileRoute(database.GetDB(), uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "重算线路失败: " + err.Error(),
		})
	}

	var route models.Route
	if err := database.GetDB().First(&route, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "线路不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路失败",
		})
	}
	return c.JSON(route)
}
