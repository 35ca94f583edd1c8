package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
	"freight_quotation/services"
	"freight_quotation/utils"
)

// 报价单导入的工作表名，与导出模板保持一致
const (
	SheetGoodsDetail = "货物明细"
	SheetGoodsTotal  = "货物汇总"
	SheetFeeItem     = "费用明细"
	SheetFeeTotal    = "整单费用"
)

// openUploadedWorkbook 从multipart表单的file字段中读取Excel工作簿
func openUploadedWorkbook(c *fiber.Ctx) (*excelize.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("未找到上传文件，请使用file字段上传")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("读取上传文件失败")
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.New("文件不是有效的Excel工作簿")
	}
	return f, nil
}

// ImportRouteGoods 导入线路报价单中的货物数据
// 货物明细表列: A货物名称 B新旧 C数量 D单位 E单重 F单价 G币种 H备注
// 货物汇总表列: A货物名称 B实重 C货值 D体积 E备注
// 逐行入库后统一重算线路与各代理段汇总
func ImportRouteGoods(c *fiber.Ctx) error {
	routeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	var route models.Route
	if err := database.GetDB().First(&route, routeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "线路不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询线路失败",
		})
	}

	f, err := openUploadedWorkbook(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer f.Close()

	detailCount := 0
	totalCount := 0
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		// 货物明细表
		if idx, _ := f.GetSheetIndex(SheetGoodsDetail); idx != -1 {
			for row := 2; ; row++ {
				name, err := utils.GetCellStringValue(f, SheetGoodsDetail, "A", row)
				if err != nil || name == "" {
					break
				}
				isNew, _ := utils.GetCellStringValue(f, SheetGoodsDetail, "B", row)
				quantity, err := utils.GetCellDecimalValue(f, SheetGoodsDetail, "C", row)
				if err != nil {
					return errors.New("货物明细第" + strconv.Itoa(row) + "行数量格式错误")
				}
				unit, _ := utils.GetCellStringValue(f, SheetGoodsDetail, "D", row)
				unitWeight, err := utils.GetCellDecimalValue(f, SheetGoodsDetail, "E", row)
				if err != nil {
					return errors.New("货物明细第" + strconv.Itoa(row) + "行单重格式错误")
				}
				unitPrice, err := utils.GetCellDecimalValue(f, SheetGoodsDetail, "F", row)
				if err != nil {
					return errors.New("货物明细第" + strconv.Itoa(row) + "行单价格式错误")
				}
				currency, _ := utils.GetCellStringValue(f, SheetGoodsDetail, "G", row)
				remark, _ := utils.GetCellStringValue(f, SheetGoodsDetail, "H", row)

				detail := models.GoodsDetail{
					RouteID:    uint(routeID),
					GoodsName:  name,
					IsNew:      isNew,
					Quantity:   quantity,
					Unit:       unit,
					UnitWeight: unitWeight,
					UnitPrice:  unitPrice,
					Currency:   utils.NormalizeCurrency(currency),
					Remark:     remark,
				}
				services.NormalizeGoodsDetail(tx, &detail)
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}
				detailCount++
			}
		}

		// 货物汇总表
		if idx, _ := f.GetSheetIndex(SheetGoodsTotal); idx != -1 {
			for row := 2; ; row++ {
				name, err := utils.GetCellStringValue(f, SheetGoodsTotal, "A", row)
				if err != nil || name == "" {
					break
				}
				actualWeight, err := utils.GetCellDecimalPtr(f, SheetGoodsTotal, "B", row)
				if err != nil {
					return errors.New("货物汇总第" + strconv.Itoa(row) + "行实重格式错误")
				}
				value, err := utils.GetCellDecimalPtr(f, SheetGoodsTotal, "C", row)
				if err != nil {
					return errors.New("货物汇总第" + strconv.Itoa(row) + "行货值格式错误")
				}
				volume, err := utils.GetCellDecimalPtr(f, SheetGoodsTotal, "D", row)
				if err != nil {
					return errors.New("货物汇总第" + strconv.Itoa(row) + "行体积格式错误")
				}
				remark, _ := utils.GetCellStringValue(f, SheetGoodsTotal, "E", row)

				total := models.GoodsTotal{
					RouteID:      uint(routeID),
					GoodsName:    name,
					ActualWeight: actualWeight,
					Value:        value,
					Volume:       volume,
					Remark:       remark,
				}
				services.NormalizeGoodsTotal(&total)
				if err := tx.Create(&total).Error; err != nil {
					return err
				}
				totalCount++
			}
		}

		if detailCount == 0 && totalCount == 0 {
			return errors.New("工作簿中没有可导入的货物数据")
		}

		// 全部行落库后统一重算并同事务提交：重算失败则导入整体回滚，
		// 不允许留下已导入但汇总没跟上的状态
		if _, err := services.RecomputeRoute(tx, uint(routeID)); err != nil {
			return err
		}
		return services.RecomputeSummariesForRoute(tx, uint(routeID))
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "导入失败: " + err.Error(),
		})
	}

	log.Infof("线路 %d 导入货物明细 %d 行，货物汇总 %d 行", routeID, detailCount, totalCount)
	return c.JSON(fiber.Map{
		"message":     "导入成功",
		"detail_rows": detailCount,
		"total_rows":  totalCount,
	})
}

// ImportAgentFees 导入代理段报价单中的费用数据
// 费用明细表列: A费用类型 B单价 C数量 D单位 E币种 F备注
// 整单费用表列: A费用类型 B金额 C币种 D备注
func ImportAgentFees(c *fiber.Ctx) error {
	agentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的代理段ID",
		})
	}

	var agent models.RouteAgent
	if err := database.GetDB().First(&agent, agentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "代理段不存在",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询代理段失败",
		})
	}

	f, err := openUploadedWorkbook(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer f.Close()

	itemCount := 0
	totalCount := 0
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		// 费用明细表
		if idx, _ := f.GetSheetIndex(SheetFeeItem); idx != -1 {
			for row := 2; ; row++ {
				name, err := utils.GetCellStringValue(f, SheetFeeItem, "A", row)
				if err != nil || name == "" {
					break
				}
				unitPrice, err := utils.GetCellDecimalValue(f, SheetFeeItem, "B", row)
				if err != nil {
					return errors.New("费用明细第" + strconv.Itoa(row) + "行单价格式错误")
				}
				quantity, err := utils.GetCellDecimalValue(f, SheetFeeItem, "C", row)
				if err != nil {
					return errors.New("费用明细第" + strconv.Itoa(row) + "行数量格式错误")
				}
				unit, _ := utils.GetCellStringValue(f, SheetFeeItem, "D", row)
				currency, _ := utils.GetCellStringValue(f, SheetFeeItem, "E", row)
				remark, _ := utils.GetCellStringValue(f, SheetFeeItem, "F", row)

				item := models.FeeItem{
					RouteAgentID: uint(agentID),
					FeeType:      name,
					UnitPrice:    unitPrice,
					Quantity:     quantity,
					Unit:         unit,
					Currency:     utils.NormalizeCurrency(currency),
					Remark:       remark,
				}
				services.NormalizeFeeItem(tx, &item)
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				itemCount++
			}
		}

		// 整单费用表
		if idx, _ := f.GetSheetIndex(SheetFeeTotal); idx != -1 {
			for row := 2; ; row++ {
				name, err := utils.GetCellStringValue(f, SheetFeeTotal, "A", row)
				if err != nil || name == "" {
					break
				}
				amount, err := utils.GetCellDecimalValue(f, SheetFeeTotal, "B", row)
				if err != nil {
					return errors.New("整单费用第" + strconv.Itoa(row) + "行金额格式错误")
				}
				currency, _ := utils.GetCellStringValue(f, SheetFeeTotal, "C", row)
				remark, _ := utils.GetCellStringValue(f, SheetFeeTotal, "D", row)

				total := models.FeeTotal{
					RouteAgentID:   uint(agentID),
					FeeType:        name,
					OriginalAmount: amount,
					Currency:       utils.NormalizeCurrency(currency),
					Remark:         remark,
				}
				services.NormalizeFeeTotal(tx, &total)
				if err := tx.Create(&total).Error; err != nil {
					return err
				}
				totalCount++
			}
		}

		if itemCount == 0 && totalCount == 0 {
			return errors.New("工作簿中没有可导入的费用数据")
		}

		// 重算该代理段汇总，与导入行同事务提交
		return services.RecomputeSummary(tx, uint(agentID))
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "导入失败: " + err.Error(),
		})
	}

	log.Infof("代理段 %d 导入费用明细 %d 行，整单费用 %d 行", agentID, itemCount, totalCount)
	return c.JSON(fiber.Map{
		"message":    "导入成功",
		"item_rows":  itemCount,
		"total_rows": totalCount,
	})
}
