package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
)

// SheetRouteInfo 导出工作簿的线路信息表名
const SheetRouteInfo = "线路信息"

// SheetSummary 导出工作簿的汇总表名
const SheetSummary = "汇总"

// decStr 把decimal格式化为单元格值
func decStr(d decimal.Decimal) string {
	return d.String()
}

// decPtrStr nil指针输出空串，区分未填写和0
func decPtrStr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// writeHeaderRow 写一行表头
func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

// ExportRouteWorkbook 导出线路报价工作簿
// 包含线路信息、货物明细、货物汇总、费用明细、整单费用、汇总六张表
func ExportRouteWorkbook(c *fiber.Ctx) error {
	routeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的线路ID",
		})
	}

	var route models.Route
	err = database.GetDB().
		Preload("GoodsDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("GoodsTotals", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.FeeItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.FeeTotals", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Agents.Summary").
		First(&route, routeID).Error
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

	f := excelize.NewFile()
	defer f.Close()

	// 线路信息表，字段按键值对竖排
	f.SetSheetName("Sheet1", SheetRouteInfo)
	startDate := ""
	if route.StartDate != nil {
		startDate = route.StartDate.Format("2006-01-02")
	}
	endDate := ""
	if route.EndDate != nil {
		endDate = route.EndDate.Format("2006-01-02")
	}
	info := [][]string{
		{"线路编号", route.RouteNo},
		{"起点", route.Origin},
		{"途径地", route.Via},
		{"终点", route.Destination},
		{"交易开始日期", startDate},
		{"交易结束日期", endDate},
		{"实重(kg)", decStr(route.ActualWeight)},
		{"计费重(kg)", decPtrStr(route.BillableWeight)},
		{"体积(cbm)", decStr(route.Volume)},
		{"货值(人民币)", decStr(route.Value)},
		{"货物名称", route.GoodsNames},
		{"备注", route.Remark},
	}
	for i, pair := range info {
		rowNo := strconv.Itoa(i + 1)
		if err := f.SetCellValue(SheetRouteInfo, "A"+rowNo, pair[0]); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "生成工作簿失败",
			})
		}
		if err := f.SetCellValue(SheetRouteInfo, "B"+rowNo, pair[1]); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "生成工作簿失败",
			})
		}
	}

	// 货物明细表
	if _, err := f.NewSheet(SheetGoodsDetail); err == nil {
		_ = writeHeaderRow(f, SheetGoodsDetail, []string{
			"货物名称", "新旧", "数量", "单位", "单重(kg)", "单价", "币种", "总重量(kg)", "总货值(人民币)", "备注",
		})
		for i, d := range route.GoodsDetails {
			row := strconv.Itoa(i + 2)
			_ = f.SetSheetRow(SheetGoodsDetail, "A"+row, &[]interface{}{
				d.GoodsName, d.IsNew, decStr(d.Quantity), d.Unit,
				decStr(d.UnitWeight), decStr(d.UnitPrice), d.Currency,
				decStr(d.TotalWeight), decStr(d.TotalValue), d.Remark,
			})
		}
	}

	// 货物汇总表
	if _, err := f.NewSheet(SheetGoodsTotal); err == nil {
		_ = writeHeaderRow(f, SheetGoodsTotal, []string{
			"货物名称", "实重(kg)", "货值(人民币)", "体积(cbm)", "备注",
		})
		for i, t := range route.GoodsTotals {
			row := strconv.Itoa(i + 2)
			_ = f.SetSheetRow(SheetGoodsTotal, "A"+row, &[]interface{}{
				t.GoodsName, decPtrStr(t.ActualWeight), decPtrStr(t.Value),
				decPtrStr(t.Volume), t.Remark,
			})
		}
	}

	// 费用明细表，所有代理段的费用行带代理列平铺
	if _, err := f.NewSheet(SheetFeeItem); err == nil {
		_ = writeHeaderRow(f, SheetFeeItem, []string{
			"代理商", "费用类型", "单价", "数量", "单位", "币种", "原币金额", "人民币金额", "备注",
		})
		rowNo := 2
		for _, agent := range route.Agents {
			for _, item := range agent.FeeItems {
				_ = f.SetSheetRow(SheetFeeItem, "A"+strconv.Itoa(rowNo), &[]interface{}{
					agent.AgentName, item.FeeType, decStr(item.UnitPrice),
					decStr(item.Quantity), item.Unit, item.Currency,
					decStr(item.OriginalAmount), decStr(item.Amount), item.Remark,
				})
				rowNo++
			}
		}
	}

	// 整单费用表
	if _, err := f.NewSheet(SheetFeeTotal); err == nil {
		_ = writeHeaderRow(f, SheetFeeTotal, []string{
			"代理商", "费用类型", "币种", "原币金额", "人民币金额", "备注",
		})
		rowNo := 2
		for _, agent := range route.Agents {
			for _, total := range agent.FeeTotals {
				_ = f.SetSheetRow(SheetFeeTotal, "A"+strconv.Itoa(rowNo), &[]interface{}{
					agent.AgentName, total.FeeType, total.Currency,
					decStr(total.OriginalAmount), decStr(total.Amount), total.Remark,
				})
				rowNo++
			}
		}
	}

	// 汇总表，每个代理段一行
	if _, err := f.NewSheet(SheetSummary); err == nil {
		_ = writeHeaderRow(f, SheetSummary, []string{
			"代理商", "运输方式", "贸易类型", "时效", "小计", "货值", "税率(%)", "税金", "汇损率(%)", "汇损", "总计", "不含",
		})
		rowNo := 2
		for _, agent := range route.Agents {
			if agent.Summary == nil {
				continue
			}
			s := agent.Summary
			_ = f.SetSheetRow(SheetSummary, "A"+strconv.Itoa(rowNo), &[]interface{}{
				agent.AgentName, agent.TransportMode, agent.TradeType, agent.Leadtime,
				decStr(s.Subtotal), decStr(route.Value), decStr(s.TaxRate), decStr(s.TaxAmount),
				decStr(s.LossRate), decStr(s.LossAmount), decStr(s.Total), s.Exclusions,
			})
			rowNo++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "生成工作簿失败",
		})
	}

	filename := route.RouteNo + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
