package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freight_quotation/models"
)

// 链接测试DB（内存SQLite）
func testDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Route{},
		&models.RouteAgent{},
		&models.GoodsDetail{},
		&models.GoodsTotal{},
		&models.FeeItem{},
		&models.FeeTotal{},
		&models.ForexRate{},
		&models.Summary{},
	)
	require.NoError(t, err)
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// 建一条线路和挂在下面的一个代理段
func makeRouteWithAgent(t *testing.T, db *gorm.DB) (*models.Route, *models.RouteAgent) {
	route := &models.Route{RouteNo: "FR-TEST-" + t.Name(), Origin: "深圳", Destination: "吉隆坡"}
	require.NoError(t, CreateRoute(db, route))
	agent := &models.RouteAgent{RouteID: route.ID, AgentName: "测试货运公司", TransportMode: "海运", TradeType: "DDP"}
	require.NoError(t, db.Create(agent).Error)
	return route, agent
}

func setRate(t *testing.T, db *gorm.DB, currency, rate string) {
	require.NoError(t, db.Create(&models.ForexRate{Currency: currency, Rate: dec(rate)}).Error)
}

// ---------- 汇率解析 ----------

func TestRateBaseCurrency(t *testing.T) {
	db := testDb(t)
	assert.True(t, Rate(db, "").Equal(dec("1")))
	assert.True(t, Rate(db, "CNY").Equal(dec("1")))
	assert.True(t, Rate(db, "cny").Equal(dec("1")))
	assert.True(t, Rate(db, "rmb").Equal(dec("1")))
	assert.True(t, Rate(db, " RMB ").Equal(dec("1")))
}

func TestRateLookup(t *testing.T) {
	db := testDb(t)
	setRate(t, db, "USD", "7.2")
	assert.True(t, Rate(db, "USD").Equal(dec("7.2")))
}

func TestRateUnknownCurrencyFallsBackToOne(t *testing.T) {
	db := testDb(t)
	// 未维护汇率的币种按1处理，不报错
	assert.True(t, Rate(db, "XYZ").Equal(dec("1")))
}

// ---------- 费用行派生字段 ----------

func TestCreateFeeItemDerivesAmounts(t *testing.T) {
	db := testDb(t)
	setRate(t, db, "USD", "7.2")
	_, agent := makeRouteWithAgent(t, db)

	item := &models.FeeItem{
		RouteAgentID: agent.ID,
		FeeType:      "海运费",
		UnitPrice:    dec("100.00"),
		Quantity:     dec("2"),
		Currency:     "USD",
	}
	require.NoError(t, CreateFeeItem(db, item))

	var saved models.FeeItem
	require.NoError(t, db.First(&saved, item.ID).Error)
	assert.True(t, saved.OriginalAmount.Equal(dec("200.00")), "原币金额应为200，实际%s", saved.OriginalAmount)
	assert.True(t, saved.Amount.Equal(dec("1440.00")), "人民币金额应为1440，实际%s", saved.Amount)

	// 插入后代理段汇总应已建立且小计等于该行金额
	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Subtotal.Equal(dec("1440.00")))
}

func TestFeeItemNilAmountsCountAsZero(t *testing.T) {
	db := testDb(t)
	_, agent := makeRouteWithAgent(t, db)

	// 单价、数量都没给，按0计
	item := &models.FeeItem{RouteAgentID: agent.ID, FeeType: "杂费", Currency: "CNY"}
	require.NoError(t, CreateFeeItem(db, item))

	var saved models.FeeItem
	require.NoError(t, db.First(&saved, item.ID).Error)
	assert.True(t, saved.OriginalAmount.IsZero())
	assert.True(t, saved.Amount.IsZero())
}

func TestFeeTotalDerivesAmount(t *testing.T) {
	db := testDb(t)
	setRate(t, db, "EUR", "7.8")
	_, agent := makeRouteWithAgent(t, db)

	total := &models.FeeTotal{RouteAgentID: agent.ID, FeeType: "操作费", Currency: "EUR", OriginalAmount: dec("50")}
	require.NoError(t, CreateFeeTotal(db, total))

	var saved models.FeeTotal
	require.NoError(t, db.First(&saved, total.ID).Error)
	assert.True(t, saved.Amount.Equal(dec("390")))

	// 小计同时涵盖费用明细和整单费用
	item := &models.FeeItem{RouteAgentID: agent.ID, FeeType: "报关费", UnitPrice: dec("10"), Quantity: dec("1"), Currency: "CNY"}
	require.NoError(t, CreateFeeItem(db, item))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Subtotal.Equal(dec("400")))
}

func TestUnknownCurrencyFeePricedAtOriginalAmount(t *testing.T) {
	db := testDb(t)
	_, agent := makeRouteWithAgent(t, db)

	item := &models.FeeItem{RouteAgentID: agent.ID, FeeType: "派送费", UnitPrice: dec("80"), Quantity: dec("3"), Currency: "XXX"}
	require.NoError(t, CreateFeeItem(db, item))

	var saved models.FeeItem
	require.NoError(t, db.First(&saved, item.ID).Error)
	assert.True(t, saved.Amount.Equal(dec("240")))
}

// ---------- 线路汇总 ----------

func TestRouteAggregation(t *testing.T) {
	db := testDb(t)
	route, _ := makeRouteWithAgent(t, db)

	detail := &models.GoodsDetail{
		RouteID:    route.ID,
		GoodsName:  "服务器",
		Quantity:   dec("3"),
		UnitWeight: dec("10.000"),
		UnitPrice:  dec("100"),
		Currency:   "CNY",
	}
	require.NoError(t, CreateGoodsDetail(db, detail))

	weight := dec("5.00")
	value := dec("200")
	volume := dec("1.5")
	total := &models.GoodsTotal{RouteID: route.ID, GoodsName: "配件", ActualWeight: &weight, Value: &value, Volume: &volume}
	require.NoError(t, CreateGoodsTotal(db, total))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.True(t, saved.ActualWeight.Equal(dec("35")), "实重应为35，实际%s", saved.ActualWeight)
	require.NotNil(t, saved.BillableWeight)
	assert.True(t, saved.BillableWeight.Equal(dec("35")), "计费重未设置时默认取实重")
	assert.True(t, saved.Value.Equal(dec("500")))
	assert.True(t, saved.Volume.Equal(dec("1.5")))
	assert.Equal(t, "服务器,配件", saved.GoodsNames)
}

func TestGoodsNamesDeduplicated(t *testing.T) {
	db := testDb(t)
	route, _ := makeRouteWithAgent(t, db)

	for i := 0; i < 2; i++ {
		detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "电视", Quantity: dec("1"), UnitWeight: dec("1")}
		require.NoError(t, CreateGoodsDetail(db, detail))
	}
	weight := dec("1")
	require.NoError(t, CreateGoodsTotal(db, &models.GoodsTotal{RouteID: route.ID, GoodsName: "电视", ActualWeight: &weight}))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.Equal(t, "电视", saved.GoodsNames)
}

func TestBillableWeightOverridePreserved(t *testing.T) {
	db := testDb(t)
	route, _ := makeRouteWithAgent(t, db)

	// 调用方显式设置计费重
	override := dec("100")
	route.BillableWeight = &override
	require.NoError(t, UpdateRoute(db, route))

	// 之后的货物变动不得覆盖显式设置的计费重
	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "样品", Quantity: dec("2"), UnitWeight: dec("3")}
	require.NoError(t, CreateGoodsDetail(db, detail))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.True(t, saved.ActualWeight.Equal(dec("6")))
	require.NotNil(t, saved.BillableWeight)
	assert.True(t, saved.BillableWeight.Equal(dec("100")), "显式计费重应原样保留")
}

func TestGoodsTotalNullFieldsNormalizedToZero(t *testing.T) {
	db := testDb(t)
	route, _ := makeRouteWithAgent(t, db)

	total := &models.GoodsTotal{RouteID: route.ID, GoodsName: "宣传册"}
	require.NoError(t, CreateGoodsTotal(db, total))

	var saved models.GoodsTotal
	require.NoError(t, db.First(&saved, total.ID).Error)
	require.NotNil(t, saved.ActualWeight)
	require.NotNil(t, saved.Value)
	require.NotNil(t, saved.Volume)
	assert.True(t, saved.ActualWeight.IsZero())
	assert.True(t, saved.Value.IsZero())
	assert.True(t, saved.Volume.IsZero())
}

func TestDeleteGoodsDetailRecomputesRoute(t *testing.T) {
	db := testDb(t)
	route, agent := makeRouteWithAgent(t, db)

	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "设备", Quantity: dec("2"), UnitWeight: dec("10"), UnitPrice: dec("500"), Currency: "CNY"}
	require.NoError(t, CreateGoodsDetail(db, detail))
	require.NoError(t, DeleteGoodsDetail(db, detail.ID))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.True(t, saved.ActualWeight.IsZero())
	assert.True(t, saved.Value.IsZero())
	assert.Equal(t, "", saved.GoodsNames)

	// 货值归零也要传导到代理段汇总
	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Total.IsZero())
}

// ---------- 代理段汇总 ----------

func TestSummaryMath(t *testing.T) {
	db := testDb(t)
	route, agent := makeRouteWithAgent(t, db)

	// 线路货值5000
	value := dec("5000.00")
	require.NoError(t, CreateGoodsTotal(db, &models.GoodsTotal{RouteID: route.ID, GoodsName: "货物", Value: &value}))

	// 小计1000
	require.NoError(t, CreateFeeTotal(db, &models.FeeTotal{RouteAgentID: agent.ID, FeeType: "总费用", Currency: "CNY", OriginalAmount: dec("1000.00")}))

	// 税率6%、汇损率1%
	require.NoError(t, SetSummaryRates(db, agent.ID, dec("6"), dec("1"), "不含保险"))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Subtotal.Equal(dec("1000")))
	assert.True(t, summary.TaxAmount.Equal(dec("360")), "税金应为360，实际%s", summary.TaxAmount)
	assert.True(t, summary.LossAmount.Equal(dec("60")), "汇损应为60，实际%s", summary.LossAmount)
	assert.True(t, summary.Total.Equal(dec("6420")), "总计应为6420，实际%s", summary.Total)
	assert.Equal(t, "不含保险", summary.Exclusions)
}

func TestSummaryRatesSurviveRecompute(t *testing.T) {
	db := testDb(t)
	_, agent := makeRouteWithAgent(t, db)

	require.NoError(t, SetSummaryRates(db, agent.ID, dec("13"), dec("2.5"), ""))

	// 结构性重算（新增费用行）不得还原调用方设置的税率
	item := &models.FeeItem{RouteAgentID: agent.ID, FeeType: "清关费", UnitPrice: dec("200"), Quantity: dec("1"), Currency: "CNY"}
	require.NoError(t, CreateFeeItem(db, item))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.TaxRate.Equal(dec("13")))
	assert.True(t, summary.LossRate.Equal(dec("2.5")))
	assert.True(t, summary.TaxAmount.Equal(dec("26")))
	assert.True(t, summary.Total.Equal(dec("231")))
}

func TestRecomputeSummaryNotFound(t *testing.T) {
	db := testDb(t)

	err := RecomputeAgentSummary(db, 9999)
	assert.ErrorIs(t, err, ErrRouteAgentNotFound)

	// 失败的重算不得留下汇总记录
	var count int64
	require.NoError(t, db.Model(&models.Summary{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteFeeItemRecomputesSummary(t *testing.T) {
	db := testDb(t)
	_, agent := makeRouteWithAgent(t, db)

	item := &models.FeeItem{RouteAgentID: agent.ID, FeeType: "仓储费", UnitPrice: dec("30"), Quantity: dec("4"), Currency: "CNY"}
	require.NoError(t, CreateFeeItem(db, item))
	require.NoError(t, DeleteFeeItem(db, item.ID))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Subtotal.IsZero())
	assert.True(t, summary.Total.IsZero())
}

// ---------- 级联与修复 ----------

func TestCascadeReachesEveryAgent(t *testing.T) {
	db := testDb(t)
	route, agentA := makeRouteWithAgent(t, db)
	agentB := &models.RouteAgent{RouteID: route.ID, AgentName: "备选物流公司", TransportMode: "空运"}
	require.NoError(t, db.Create(agentB).Error)

	// 插入一行货物明细，线路货值变化要传导到每个代理段的汇总
	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "手机", Quantity: dec("10"), UnitWeight: dec("0.5"), UnitPrice: dec("300"), Currency: "CNY"}
	require.NoError(t, CreateGoodsDetail(db, detail))

	for _, agentID := range []uint{agentA.ID, agentB.ID} {
		var summary models.Summary
		require.NoError(t, db.Where("route_agent_id = ?", agentID).First(&summary).Error)
		assert.True(t, summary.Total.Equal(dec("3000")), "代理段[%d]总计应包含线路货值", agentID)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	db := testDb(t)
	route, agent := makeRouteWithAgent(t, db)
	setRate(t, db, "USD", "7.2")

	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "空调", Quantity: dec("7"), UnitWeight: dec("35.5"), UnitPrice: dec("129.99"), Currency: "USD"}
	require.NoError(t, CreateGoodsDetail(db, detail))
	require.NoError(t, CreateFeeItem(db, &models.FeeItem{RouteAgentID: agent.ID, FeeType: "海运费", UnitPrice: dec("3.75"), Quantity: dec("248.5"), Currency: "USD"}))
	require.NoError(t, SetSummaryRates(db, agent.ID, dec("13"), dec("1.5"), ""))

	snapshot := func() (string, string) {
		var r models.Route
		require.NoError(t, db.First(&r, route.ID).Error)
		var s models.Summary
		require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&s).Error)
		routeState := r.ActualWeight.String() + "|" + r.BillableWeight.String() + "|" + r.Value.String() + "|" + r.Volume.String() + "|" + r.GoodsNames
		summaryState := s.Subtotal.String() + "|" + s.TaxAmount.String() + "|" + s.LossAmount.String() + "|" + s.Total.String()
		return routeState, summaryState
	}

	require.NoError(t, ReconcileRoute(db, route.ID))
	route1, summary1 := snapshot()
	require.NoError(t, ReconcileRoute(db, route.ID))
	route2, summary2 := snapshot()

	assert.Equal(t, route1, route2, "无中间写入时重复重算线路结果必须逐字节一致")
	assert.Equal(t, summary1, summary2, "无中间写入时重复重算汇总结果必须逐字节一致")
}

func TestReconcileRouteRepairsDrift(t *testing.T) {
	db := testDb(t)
	route, agent := makeRouteWithAgent(t, db)

	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "家具", Quantity: dec("4"), UnitWeight: dec("25"), UnitPrice: dec("100"), Currency: "CNY"}
	require.NoError(t, CreateGoodsDetail(db, detail))

	// 绕过引擎直接改库，制造汇总漂移
	require.NoError(t, db.Model(&models.Route{}).Where("id = ?", route.ID).UpdateColumn("value", dec("0")).Error)
	require.NoError(t, db.Model(&models.Summary{}).Where("route_agent_id = ?", agent.ID).UpdateColumn("total", dec("0")).Error)

	require.NoError(t, ReconcileRoute(db, route.ID))

	var savedRoute models.Route
	require.NoError(t, db.First(&savedRoute, route.ID).Error)
	assert.True(t, savedRoute.Value.Equal(dec("400")))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.Total.Equal(dec("400")))
}

// ---------- 线路写前规则 ----------

func TestRouteYearMonthDerived(t *testing.T) {
	db := testDb(t)
	start := mustDate(t, "2025-11-03")
	route := &models.Route{RouteNo: "FR-YM-1", Origin: "上海", Destination: "汉堡", StartDate: &start}
	require.NoError(t, CreateRoute(db, route))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.Equal(t, 2025, saved.Year)
	assert.Equal(t, 11, saved.Month)
}

func TestRouteValueChangeCascades(t *testing.T) {
	db := testDb(t)
	route, agent := makeRouteWithAgent(t, db)
	require.NoError(t, SetSummaryRates(db, agent.ID, dec("10"), dec("0"), ""))

	// 修复性改库场景：直接通过线路更新改货值，引擎要检测到变化并级联
	var loaded models.Route
	require.NoError(t, db.First(&loaded, route.ID).Error)
	loaded.Value = dec("2000")
	require.NoError(t, UpdateRoute(db, &loaded))

	var summary models.Summary
	require.NoError(t, db.Where("route_agent_id = ?", agent.ID).First(&summary).Error)
	assert.True(t, summary.TaxAmount.Equal(dec("200")))
	assert.True(t, summary.Total.Equal(dec("2400")))
}

// 新建线路计费重留空：创建时实重恒为0，此时补0会把计费重钉死，
// 首次货物汇总出实重后就无法再默认取值；留空的计费重在重算时补上
func TestNewRouteBillableWeightUnsetUntilRecompute(t *testing.T) {
	db := testDb(t)
	route := &models.Route{RouteNo: "FR-ZERO-1", Origin: "广州", Destination: "曼谷"}
	require.NoError(t, CreateRoute(db, route))

	var saved models.Route
	require.NoError(t, db.First(&saved, route.ID).Error)
	assert.Nil(t, saved.BillableWeight, "创建时不应把计费重补成0")

	detail := &models.GoodsDetail{RouteID: route.ID, GoodsName: "主机", Quantity: dec("2"), UnitWeight: dec("8")}
	require.NoError(t, CreateGoodsDetail(db, detail))

	require.NoError(t, db.First(&saved, route.ID).Error)
	require.NotNil(t, saved.BillableWeight)
	assert.True(t, saved.BillableWeight.Equal(dec("16")), "首次汇总时计费重默认取实重")
}

// ---------- 写路径回滚 ----------

// 给不存在的代理段写费用行必须中止并整体回滚，费用行不得落库
func TestFeeWriteRollbackOnMissingAgent(t *testing.T) {
	db := testDb(t)

	item := &models.FeeItem{RouteAgentID: 9999, FeeType: "海运费", UnitPrice: dec("100"), Quantity: dec("1")}
	err := CreateFeeItem(db, item)
	require.ErrorIs(t, err, ErrRouteAgentNotFound)

	var count int64
	require.NoError(t, db.Model(&models.FeeItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	total := &models.FeeTotal{RouteAgentID: 9999, FeeType: "操作费", OriginalAmount: dec("50")}
	err = CreateFeeTotal(db, total)
	require.ErrorIs(t, err, ErrRouteAgentNotFound)
	require.NoError(t, db.Model(&models.FeeTotal{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
