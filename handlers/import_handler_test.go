package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"freight_quotation/models"
	"freight_quotation/services"
)

// postWorkbook 把工作簿作为multipart文件上传
func postWorkbook(t *testing.T, app *fiber.App, path string, f *excelize.File) *http.Response {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "quote.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(part))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func importTestRoute(t *testing.T, db *gorm.DB) (*models.Route, *models.RouteAgent) {
	route := &models.Route{RouteNo: "FR-IMP-" + t.Name(), Origin: "深圳", Destination: "吉隆坡"}
	require.NoError(t, services.CreateRoute(db, route))
	agent := &models.RouteAgent{RouteID: route.ID, AgentName: "测试货运公司", TransportMode: "海运"}
	require.NoError(t, db.Create(agent).Error)
	require.NoError(t, db.Create(&models.ForexRate{Currency: "USD", Rate: decimal.RequireFromString("7")}).Error)
	return route, agent
}

// 导入货物后线路汇总和代理段汇总都要跟上
func TestImportRouteGoods(t *testing.T) {
	db := testDb(t)
	route, agent := importTestRoute(t, db)

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetGoodsDetail)
	require.NoError(t, f.SetSheetRow(SheetGoodsDetail, "A1", &[]interface{}{
		"货物名称", "新旧", "数量", "单位", "单重", "单价", "币种", "备注",
	}))
	require.NoError(t, f.SetSheetRow(SheetGoodsDetail, "A2", &[]interface{}{
		"服务器", "新", 2, "台", 10, 100, "USD", "",
	}))
	_, err := f.NewSheet(SheetGoodsTotal)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(SheetGoodsTotal, "A1", &[]interface{}{
		"货物名称", "实重", "货值", "体积", "备注",
	}))
	require.NoError(t, f.SetSheetRow(SheetGoodsTotal, "A2", &[]interface{}{
		"配件", 5, 300, 1.2, "",
	}))

	app := fiber.New()
	app.Post("/api/routes/:id/import", ImportRouteGoods)
	resp := postWorkbook(t, app, fmt.Sprintf("/api/routes/%d/import", route.ID), f)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// 线路汇总：实重 2×10+5，货值 2×100×7+300，体积 1.2
	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.True(t, saved.ActualWeight.Equal(decimal.RequireFromString("25")), "实重应为25，实际%s", saved.ActualWeight)
	assert.True(t, saved.Value.Equal(decimal.RequireFromString("1700")))
	assert.True(t, saved.Volume.Equal(decimal.RequireFromString("1.2")))
	assert.Equal(t, "服务器,配件", saved.GoodsNames)

	// 代理段汇总同事务内级联：总计 = 小计0 + 货值1700
	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("1700")))
}

// 任何一行解析失败，整次导入回滚，已入库的行和汇总都不能留下
func TestImportRouteGoodsRollbackOnBadRow(t *testing.T) {
	db := testDb(t)
	route, _ := importTestRoute(t, db)

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetGoodsDetail)
	require.NoError(t, f.SetSheetRow(SheetGoodsDetail, "A1", &[]interface{}{
		"货物名称", "新旧", "数量", "单位", "单重", "单价", "币种", "备注",
	}))
	require.NoError(t, f.SetSheetRow(SheetGoodsDetail, "A2", &[]interface{}{
		"主机", "新", 1, "台", 10, 50, "", "",
	}))
	// 数量非数字
	require.NoError(t, f.SetSheetRow(SheetGoodsDetail, "A3", &[]interface{}{
		"显卡", "新", "三", "件", 1, 20, "", "",
	}))

	app := fiber.New()
	app.Post("/api/routes/:id/import", ImportRouteGoods)
	resp := postWorkbook(t, app, fmt.Sprintf("/api/routes/%d/import", route.ID), f)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.GoodsDetail{}).Where("route_id = ?", route.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "第一行也要随之回滚")

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.True(t, saved.ActualWeight.IsZero(), "汇总不得部分更新")
	assert.True(t, saved.Value.IsZero())
}

// 导入费用后代理段汇总与导入行同事务更新
func TestImportAgentFees(t *testing.T) {
	db := testDb(t)
	_, agent := importTestRoute(t, db)

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetFeeItem)
	require.NoError(t, f.SetSheetRow(SheetFeeItem, "A1", &[]interface{}{
		"费用类型", "单价", "数量", "单位", "币种", "备注",
	}))
	require.NoError(t, f.SetSheetRow(SheetFeeItem, "A2", &[]interface{}{
		"海运费", 100, 2, "kg", "USD", "",
	}))

	app := fiber.New()
	app.Post("/api/agents/:id/fees/import", ImportAgentFees)
	resp := postWorkbook(t, app, fmt.Sprintf("/api/agents/%d/fees/import", agent.ID), f)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// 小计 = 100×2×7
	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("1400")), "小计应为1400，实际%s", summary.Subtotal)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("1400")))
}
