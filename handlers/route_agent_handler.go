package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/services"
)

// RouteAgentRequest 代理段的可编辑字段
type RouteAgentRequest struct {
	RouteID          uint   `json:"route_id"`          // 所属线路ID，更新时忽略
	AgentName        string `json:"agent_name"`        // 代理商名称
	TransportMode    string `json:"transport_mode"`    // 运输方式
	TradeType        string `json:"trade_type"`        // 贸易类型
	Leadtime         string `json:"leadtime"`          // 时效
	HasCompensation  bool   `json:"has_compensation"`  // 是否赔付
	CompensationNote string `json:"compensation_note"` // 赔付内容
	Remark           string `json:"remark"`            // 备注
}

// CreateRouteAgent 新增代理段
// 汇总记录不在这里建：首次重算（新增费用行或显式重算）时惰性创建
func CreateRouteAgent(c *fiber.Ctx) error {
	var req RouteAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	// 校验所属线路存在
	var route models.Route
	if err := database.GetDB().First(&route, req.RouteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属线路不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路失败",
		})
	}

	agent := models.RouteAgent{
		RouteID:          req.RouteID,
		AgentName:        req.AgentName,
		TransportMode:    req.TransportMode,
		TradeType:        req.TradeType,
		Leadtime:         req.Leadtime,
		HasCompensation:  req.HasCompensation,
		CompensationNote: req.CompensationNote,
		Remark:           req.Remark,
	}
	if err := database.GetDB().Create(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建代理段失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(agent)
}

// GetRouteAgentByID 查询单个代理段，带出费用行和汇总
func GetRouteAgentByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	var agent models.RouteAgent
	err = database.GetDB().
		Preload("FeeItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("FeeTotals", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Summary").
		First(&agent, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询代理段失败",
		})
	}
	return c.JSON(agent)
}

// UpdateRouteAgent 更新代理段
// 代理段自身的字段不参与任何汇总，更新不触发重算
func UpdateRouteAgent(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	var agent models.RouteAgent
	if err := database.GetDB().First(&agent, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询代理段失败",
		})
	}

	var req RouteAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	agent.AgentName = req.AgentName
	agent.TransportMode = req.TransportMode
	agent.TradeType = req.TradeType
	agent.Leadtime = req.Leadtime
	agent.HasCompensation = req.HasCompensation
	agent.CompensationNote = req.CompensationNote
	agent.Remark = req.Remark

	if err := database.GetDB().Save(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新代理段失败: " + err.Error(),
		})
	}
	return c.JSON(agent)
}

// DeleteRouteAgent 删除代理段
// 外键级联会同时删掉费用行和汇总记录；费用不影响线路汇总，无需重算
func DeleteRouteAgent(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	if err := database.GetDB().Delete(&models.RouteAgent{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除代理段失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "代理段已删除",
	})
}

// RecomputeAgentSummary 重算一个代理段的汇总（回填/修复入口）
func RecomputeAgentSummary(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	if err := services.RecomputeAgentSummary(database.GetDB(), uint(id)); err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "重算汇总失败: " + err.Error(),
		})
	}

	var summary models.Summary
	if err := database.GetDB().Where("route_agent_id = ?", id).First(&summary).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询汇总失败",
		})
	}
	return c.JSON(summary)
}

// GetAgentSummary 查询代理段的汇总记录
func GetAgentSummary(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	var summary models.Summary
	if err := database.GetDB().Where("route_agent_id = ?", id).First(&summary).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "汇总记录不存在，请先执行重算",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询汇总失败",
		})
	}
	return c.JSON(summary)
}

// SummaryRatesRequest 汇总参数设置请求
type SummaryRatesRequest struct {
	TaxRate    decimal.Decimal `json:"tax_rate"`   // 税率（百分比）
	LossRate   decimal.Decimal `json:"loss_rate"`  // 汇损率（百分比）
	Exclusions string          `json:"exclusions"` // 不含项目说明
}

// SetAgentSummaryRates 设置代理段汇总的税率、汇损率和不含项目说明
// 设置后立即以新参数重算税金、汇损和总计
func SetAgentSummaryRates(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	var req SummaryRatesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	err = services.SetSummaryRates(database.GetDB(), uint(id), req.TaxRate, req.LossRate, req.Exclusions)
	if err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "设置汇总参数失败: " + err.Error(),
		})
	}

	var summary models.Summary
	if err := database.GetDB().Where("route_agent_id = ?", id).First(&summary).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询汇总失败",
		})
	}
	return c.JSON(summary)
}
