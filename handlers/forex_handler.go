package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/utils"
)

// ForexRateRequest 汇率行的可编辑字段
type ForexRateRequest struct {
	Currency string          `json:"currency"` // 币种代码
	Rate     decimal.Decimal `json:"rate"`     // 兑人民币汇率
	Remark   string          `json:"remark"`   // 备注
}

// GetForexRates 获取全部汇率
func GetForexRates(c *fiber.Ctx) error {
	var rates []models.ForexRate
	if err := database.GetDB().Order("currency asc").Find(&rates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询汇率失败",
		})
	}
	return c.JSON(rates)
}

// CreateForexRate 新增汇率
// 人民币是基准币种，不允许建行
func CreateForexRate(c *fiber.Ctx) error {
	var req ForexRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	currency := utils.NormalizeCurrency(req.Currency)
	if currency == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "币种代码不能为空",
		})
	}
	upper := strings.ToUpper(currency)
	if upper == "CNY" || upper == "RMB" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "人民币为基准币种，不需要设置汇率",
		})
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "汇率必须大于0",
		})
	}

	rate := models.ForexRate{
		Currency: currency,
		Rate:     req.Rate,
		Remark:   req.Remark,
	}
	if err := database.GetDB().Create(&rate).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建汇率失败，币种可能已存在",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(rate)
}

// UpdateForexRate 更新汇率
// 仅更新汇率值与备注，币种代码不可修改
func UpdateForexRate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的汇率ID",
		})
	}

	var rate models.ForexRate
	if err := database.GetDB().First(&rate, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "汇率不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询汇率失败",
		})
	}

	var req ForexRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "汇率必须大于0",
		})
	}

	rate.Rate = req.Rate
	rate.Remark = req.Remark
	if err := database.GetDB().Save(&rate).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新汇率失败",
		})
	}
	return c.JSON(rate)
}

// DeleteForexRate 删除汇率
// 删除后引用该币种的明细在下次重算时按汇率1处理
func DeleteForexRate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的汇率ID",
		})
	}

	result := database.GetDB().Delete(&models.ForexRate{}, id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除汇率失败",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "汇率不存在",
		})
	}
	return c.JSON(fiber.Map{
		"message": "汇率已删除",
	})
}
