package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/models"
)

// 本文件实现明细行的写前归一化：
// 派生金额、派生重量在行落库之前算好，调用方提交的派生字段一律不作数；
// 允许为空的金额字段统一归零，保证后续聚合求和不受空值影响

// NormalizeFeeItem 计算费用明细行的派生金额
// 原币金额 = 单价 × 数量；人民币金额 = 原币金额 × 汇率
// 单价或数量为空时按0计（decimal零值即0）
func NormalizeFeeItem(tx *gorm.DB, item *models.FeeItem) {
	item.OriginalAmount = item.UnitPrice.Mul(item.Quantity)
	item.Amount = item.OriginalAmount.Mul(Rate(tx, item.Currency))
}

// NormalizeFeeTotal 计算整单费用行的派生金额
// 整单费用没有数量概念，人民币金额 = 原币金额 × 汇率
func NormalizeFeeTotal(tx *gorm.DB, total *models.FeeTotal) {
	total.Amount = total.OriginalAmount.Mul(Rate(tx, total.Currency))
}

// NormalizeGoodsDetail 计算货物明细行的派生字段
// 总重量 = 数量 × 单重；总货值 = 数量 × 单价 × 汇率
func NormalizeGoodsDetail(tx *gorm.DB, detail *models.GoodsDetail) {
	detail.TotalWeight = detail.Quantity.Mul(detail.UnitWeight)
	detail.TotalValue = detail.Quantity.Mul(detail.UnitPrice).Mul(Rate(tx, detail.Currency))
}

// NormalizeGoodsTotal 货物汇总行没有派生金额，只做空值归零
// 实重、货值、体积为空时写入0，注意这里是"空归零"而不是"零归空"，
// 调用方显式写0和留空落库后不可区分，这是约定行为
func NormalizeGoodsTotal(total *models.GoodsTotal) {
	if total.ActualWeight == nil {
		zero := decimal.Zero
		total.ActualWeight = &zero
	}
	if total.Value == nil {
		zero := decimal.Zero
		total.Value = &zero
	}
	if total.Volume == nil {
		zero := decimal.Zero
		total.Volume = &zero
	}
}

// NormalizeRoute 线路写前规则
// 1. 计费重未设置且实重非零时默认取实重（只补空，不覆盖已设置的值）。
//    实重为0时刻意留空：新建线路实重恒为0，这里补0会把计费重钉死，
//    后续货物汇总出实重后就无法再默认取值（重算路径只补空）
// 2. 年份、月份由交易开始日期派生
func NormalizeRoute(route *models.Route) {
	if route.BillableWeight == nil && !route.ActualWeight.IsZero() {
		weight := route.ActualWeight
		route.BillableWeight = &weight
	}
	if route.StartDate != nil {
		route.Year = route.StartDate.Year()
		route.Month = int(route.StartDate.Month())
	}
}
