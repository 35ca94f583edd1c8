package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/models"
)

// ErrRouteAgentNotFound 代理段不存在
// 这是引擎唯一的硬性失败：给不存在的代理段重算汇总必须中止并回滚触发它的事务，
// 不允许静默跳过
var ErrRouteAgentNotFound = errors.New("代理段不存在")

// hundred 百分比换算除数
var hundred = decimal.NewFromInt(100)

// RecomputeSummary 重算一个代理段的费用汇总
// 小计 = 该代理段全部费用明细行与整单费用行的人民币金额之和；
// 税金 = (小计+线路货值) × 税率/100；汇损 = (小计+线路货值) × 汇损率/100；
// 总计 = 小计 + 货值 + 税金 + 汇损
//
// 税率和汇损率是调用方维护的输入：已有汇总记录时从现有记录读取并原样保留，
// 尚无汇总记录时按0计并新建记录。按"记录是否存在"而不是按默认值判断，
// 调用方设置一次的税率才能在后续结构性重算中存活
func RecomputeSummary(tx *gorm.DB, routeAgentID uint) error {
	var agent models.RouteAgent
	if err := lockRow(tx).Where("id = ?", routeAgentID).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRouteAgentNotFound
		}
		return err
	}

	// 线路货值：代理段总计包含整条线路的货值
	routeValue := decimal.Zero
	var route models.Route
	if err := tx.Where("id = ?", agent.RouteID).First(&route).Error; err == nil {
		routeValue = route.Value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// 小计：两类费用行的人民币金额求和
	subtotal := decimal.Zero
	var items []models.FeeItem
	if err := tx.Where("route_agent_id = ?", routeAgentID).Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	var feeTotals []models.FeeTotal
	if err := tx.Where("route_agent_id = ?", routeAgentID).Find(&feeTotals).Error; err != nil {
		return err
	}
	for _, total := range feeTotals {
		subtotal = subtotal.Add(total.Amount)
	}

	// 读取现有汇总记录，区分"更新"和"新建"
	var summary models.Summary
	err := tx.Where("route_agent_id = ?", routeAgentID).First(&summary).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	base := subtotal.Add(routeValue)
	taxAmount := base.Mul(summary.TaxRate).Div(hundred)
	lossAmount := base.Mul(summary.LossRate).Div(hundred)
	total := base.Add(taxAmount).Add(lossAmount)

	if exists {
		return tx.Model(&models.Summary{}).Where("id = ?", summary.ID).Updates(map[string]interface{}{
			"subtotal":    subtotal,
			"tax_amount":  taxAmount,
			"loss_amount": lossAmount,
			"total":       total,
		}).Error
	}

	summary = models.Summary{
		RouteAgentID: routeAgentID,
		Subtotal:     subtotal,
		TaxRate:      decimal.Zero,
		TaxAmount:    taxAmount,
		LossRate:     decimal.Zero,
		LossAmount:   lossAmount,
		Total:        total,
	}
	return tx.Create(&summary).Error
}

// RecomputeSummariesForRoute 线路级变化的级联分发
// 枚举线路下的全部代理段，逐个重算汇总；各代理段的汇总互不依赖，
// 按ID顺序处理只为结果可预期
// 线路货值变动时必须调用：每个代理段的总计都嵌入了线路货值
func RecomputeSummariesForRoute(tx *gorm.DB, routeID uint) error {
	var agentIDs []uint
	err := tx.Model(&models.RouteAgent{}).Where("route_id = ?", routeID).Order("id asc").Pluck("id", &agentIDs).Error
	if err != nil {
		return err
	}
	for _, agentID := range agentIDs {
		if err := RecomputeSummary(tx, agentID); err != nil {
			return err
		}
	}
	return nil
}
