package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freight_quotation/models"
)

// lockRow MySQL下对聚合目标行加排他锁，防止并发重算互相覆盖造成丢失更新
// SQLite（测试环境）不支持FOR UPDATE语法，由其自身的写串行化保证
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// RecomputeRoute 重算一条线路的汇总字段
// 读取该线路的全部货物明细行和货物汇总行：
//   - 实重 = Σ明细行总重量 + Σ汇总行实重
//   - 货值 = Σ明细行总货值 + Σ汇总行货值
//   - 体积 = Σ汇总行体积（明细行不带体积）
//   - 货物名称 = 两类行中非空名称去重后逗号拼接（按行ID顺序，保证重算结果稳定）
//
// 计费重只在当前未设置时初始化为新算出的实重，已设置的值（无论来自
// 调用方覆盖还是上次计算）原样保留
// 返回货值是否发生变化，由调用方决定是否级联重算代理段汇总
// 线路不存在时静默跳过，不算错误
func RecomputeRoute(tx *gorm.DB, routeID uint) (bool, error) {
	var route models.Route
	if err := lockRow(tx).Where("id = ?", routeID).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	var details []models.GoodsDetail
	if err := tx.Where("route_id = ?", routeID).Order("id asc").Find(&details).Error; err != nil {
		return false, err
	}
	var totals []models.GoodsTotal
	if err := tx.Where("route_id = ?", routeID).Order("id asc").Find(&totals).Error; err != nil {
		return false, err
	}

	actualWeight := decimal.Zero
	value := decimal.Zero
	volume := decimal.Zero
	seen := make(map[string]struct{})
	names := make([]string, 0, len(details)+len(totals))

	for _, d := range details {
		actualWeight = actualWeight.Add(d.TotalWeight)
		value = value.Add(d.TotalValue)
		if name := strings.TrimSpace(d.GoodsName); name != "" {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	for _, t := range totals {
		if t.ActualWeight != nil {
			actualWeight = actualWeight.Add(*t.ActualWeight)
		}
		if t.Value != nil {
			value = value.Add(*t.Value)
		}
		if t.Volume != nil {
			volume = volume.Add(*t.Volume)
		}
		if name := strings.TrimSpace(t.GoodsName); name != "" {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	// 计费重只补空，不覆盖
	billableWeight := route.BillableWeight
	if billableWeight == nil {
		billableWeight = &actualWeight
	}

	valueChanged := !route.Value.Equal(value)

	err := tx.Model(&models.Route{}).Where("id = ?", routeID).Updates(map[string]interface{}{
		"actual_weight":   actualWeight,
		"billable_weight": billableWeight,
		"value":           value,
		"volume":          volume,
		"goods_names":     strings.Join(names, ","),
	}).Error
	if err != nil {
		return false, err
	}
	return valueChanged, nil
}
