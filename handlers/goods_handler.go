package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/services"
	"freight_quotation/utils"
)

// GoodsDetailRequest 货物明细行的可编辑字段
// 总重量、总货值为派生字段，不接受调用方提交
type GoodsDetailRequest struct {
	RouteID    uint            `json:"route_id"`    // 所属线路ID，更新时忽略
	GoodsName  string          `json:"goods_name"`  // 货物名称
	IsNew      string          `json:"is_new"`      // 新旧：新/旧
	Quantity   decimal.Decimal `json:"quantity"`    // 数量
	Unit       string          `json:"unit"`        // 单位
	UnitWeight decimal.Decimal `json:"unit_weight"` // 单重(kg)
	UnitPrice  decimal.Decimal `json:"unit_price"`  // 单价（原币）
	Currency   string          `json:"currency"`    // 币种
	Remark     string          `json:"remark"`      // 备注
}

// CreateGoodsDetail 新增货物明细行
// 落库前计算派生字段，落库后重算线路汇总并级联代理段汇总
func CreateGoodsDetail(c *fiber.Ctx) error {
	var req GoodsDetailRequest
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

	detail := models.GoodsDetail{
		RouteID:    req.RouteID,
		GoodsName:  req.GoodsName,
		IsNew:      req.IsNew,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		UnitWeight: req.UnitWeight,
		UnitPrice:  req.UnitPrice,
		Currency:   utils.NormalizeCurrency(req.Currency),
		Remark:     req.Remark,
	}
	if err := services.CreateGoodsDetail(database.GetDB(), &detail); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建货物明细失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// UpdateGoodsDetail 更新货物明细行
func UpdateGoodsDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的货物明细ID",
		})
	}

	var detail models.GoodsDetail
	if err := database.GetDB().First(&detail, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "货物明细不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询货物明细失败",
		})
	}

	var req GoodsDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	detail.GoodsName = req.GoodsName
	detail.IsNew = req.IsNew
	detail.Quantity = req.Quantity
	detail.Unit = req.Unit
	detail.UnitWeight = req.UnitWeight
	detail.UnitPrice = req.UnitPrice
	detail.Currency = utils.NormalizeCurrency(req.Currency)
	detail.Remark = req.Remark

	if err := services.UpdateGoodsDetail(database.GetDB(), &detail); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新货物明细失败: " + err.Error(),
		})
	}
	return c.JSON(detail)
}

// DeleteGoodsDetail 删除货物明细行
func DeleteGoodsDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的货物明细ID",
		})
	}

	if err := services.DeleteGoodsDetail(database.GetDB(), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "货物明细不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除货物明细失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "货物明细已删除",
	})
}

// GoodsTotalRequest 货物汇总行的可编辑字段
// 实重、货值、体积留空表示未填写，落库时归零
type GoodsTotalRequest struct {
	RouteID      uint             `json:"route_id"`      // 所属线路ID，更新时忽略
	GoodsName    string           `json:"goods_name"`    // 货物名称
	ActualWeight *decimal.Decimal `json:"actual_weight"` // 实重(kg)
	Value        *decimal.Decimal `json:"value"`         // 货值(人民币)
	Volume       *decimal.Decimal `json:"volume"`        // 体积(cbm)
	Remark       string           `json:"remark"`        // 备注
}

// CreateGoodsTotal 新增货物汇总行
func CreateGoodsTotal(c *fiber.Ctx) error {
	var req GoodsTotalRequest
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

	total := models.GoodsTotal{
		RouteID:      req.RouteID,
		GoodsName:    req.GoodsName,
		ActualWeight: req.ActualWeight,
		Value:        req.Value,
		Volume:       req.Volume,
		Remark:       req.Remark,
	}
	if err := services.CreateGoodsTotal(database.GetDB(), &total); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建货物汇总行失败: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(total)
}

// UpdateGoodsTotal 更新货物汇总行
func UpdateGoodsTotal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的货物汇总行ID",
		})
	}

	var total models.GoodsTotal
	if err := database.GetDB().First(&total, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "货物汇总行不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询货物汇总行失败",
		})
	}

	var req GoodsTotalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	total.GoodsName = req.GoodsName
	total.ActualWeight = req.ActualWeight
	total.Value = req.Value
	total.Volume = req.Volume
	total.Remark = req.Remark

	if err := services.UpdateGoodsTotal(database.GetDB(), &total); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新货物汇总行失败: " + err.Error(),
		})
	}
	return c.JSON(total)
}

// DeleteGoodsTotal 删除货物汇总行
func DeleteGoodsTotal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的货物汇总行ID",
		})
	}

	if err := services.DeleteGoodsTotal(database.GetDB(), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "货物汇总行不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除货物汇总行失败: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "货物汇总行已删除",
	})
}
