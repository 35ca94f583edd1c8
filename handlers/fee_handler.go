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
	"freight_quotation/utils"
)

// FeeItemRequest 费用明细行的可编辑字段
// 原币金额与人民币金额为派生字段，不接受调用方提交
type FeeItemRequest struct {
	RouteAgentID uint            `json:"route_agent_id"` // 所属代理段ID，更新时忽略
	FeeType      string          `json:"fee_type"`       // 费用类型，如海运费、报关费
	UnitPrice    decimal.Decimal `json:"unit_price"`     // 单价（原币）
	Quantity     decimal.Decimal `json:"quantity"`       // 数量
	Unit         string          `json:"unit"`           // 单位：kg,cbm,票,柜等
	Currency     string          `json:"currency"`       // 币种
	Remark       string          `json:"remark"`         // 备注
}

// CreateFeeItem 新增费用明细行
// 落库前按汇率换算金额，落库后重算所属代理段汇总
func CreateFeeItem(c *fiber.Ctx) error {
	var req FeeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	// 校验所属代理段存在
	var agent models.RouteAgent
	if err := database.GetDB().First(&agent, req.RouteAgentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询代理段失败",
		})
	}

	item := models.FeeItem{
		RouteAgentID: req.RouteAgentID,
		FeeType:      req.FeeType,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Currency:     utils.NormalizeCurrency(req.Currency),
		Remark:       req.Remark,
	}
	if err := services.CreateFeeItem(database.GetDB(), &item); err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建费用明细失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateFeeItem 更新费用明细行
func UpdateFeeItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的费用明细ID",
		})
	}

	var item models.FeeItem
	if err := database.GetDB().First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "费用明细不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询费用明细失败",
		})
	}

	var req FeeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	item.FeeType = req.FeeType
	item.UnitPrice = req.UnitPrice
	item.Quantity = req.Quantity
	item.Unit = req.Unit
	item.Currency = utils.NormalizeCurrency(req.Currency)
	item.Remark = req.Remark

	if err := services.UpdateFeeItem(database.GetDB(), &item); err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新费用明细失败: " + err.Error(),
		})
	}
	return c.JSON(item)
}

// DeleteFeeItem 删除费用明细行
func DeleteFeeItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的费用明细ID",
		})
	}

	if err := services.DeleteFeeItem(database.GetDB(), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "费用明细不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除费用明细失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "费用明细已删除",
	})
}

// FeeTotalRequest 整单费用行的可编辑字段
type FeeTotalRequest struct {
	RouteAgentID   uint            `json:"route_agent_id"`  // 所属代理段ID，更新时忽略
	FeeType        string          `json:"fee_type"`        // 费用类型
	OriginalAmount decimal.Decimal `json:"original_amount"` // 原币金额
	Currency       string          `json:"currency"`        // 币种
	Remark         string          `json:"remark"`          // 备注
}

// CreateFeeTotal 新增整单费用行
func CreateFeeTotal(c *fiber.Ctx) error {
	var req FeeTotalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	// 校验所属代理段存在
	var agent models.RouteAgent
	if err := database.GetDB().First(&agent, req.RouteAgentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询代理段失败",
		})
	}

	total := models.FeeTotal{
		RouteAgentID:   req.RouteAgentID,
		FeeType:        req.FeeType,
		OriginalAmount: req.OriginalAmount,
		Currency:       utils.NormalizeCurrency(req.Currency),
		Remark:         req.Remark,
	}
	if err := services.CreateFeeTotal(database.GetDB(), &total); err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建整单费用失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(total)
}

// UpdateFeeTotal 更新整单费用行
func UpdateFeeTotal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的整单费用ID",
		})
	}

	var total models.FeeTotal
	if err := database.GetDB().First(&total, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "整单费用不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询整单费用失败",
		})
	}

	var req FeeTotalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	total.FeeType = req.FeeType
	total.OriginalAmount = req.OriginalAmount
	total.Currency = utils.NormalizeCurrency(req.Currency)
	total.Remark = req.Remark

	if err := services.UpdateFeeTotal(database.GetDB(), &total); err != nil {
		if errors.Is(err, services.ErrRouteAgentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "所属代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新整单费用失败: " + err.Error(),
		})
	}
	return c.JSON(total)
}

// DeleteFeeTotal 删除整单费用行
func DeleteFeeTotal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的整单费用ID",
		})
	}

	if err := services.DeleteFeeTotal(database.GetDB(), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "整单费用不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除整单费用失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "整单费用已删除",
	})
}
