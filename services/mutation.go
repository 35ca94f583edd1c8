package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"freight_quotation/models"
)

// 本文件是引擎的写入口：所有明细行和线路的增删改都必须走这里，
// 每个写操作在单个事务内完成"写前归一化 → 落库 → 向上重算"，
// 重算失败时整个事务回滚，不允许留下算到一半的汇总数据
//
// 触发规则：
//   - 费用明细/整单费用 增改删 → 重算所属代理段汇总（费用不影响线路汇总）
//   - 货物明细/货物汇总行 增改删 → 重算线路汇总，再级联重算该线路全部代理段汇总
//   - 线路 新增/更新 → 写前应用计费重默认规则；更新后货值有变化才级联

// ---------- 线路 ----------

// CreateRoute 新增线路
func CreateRoute(db *gorm.DB, route *models.Route) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeRoute(route)
		return tx.Create(route).Error
	})
}

// UpdateRoute 更新线路
// 货值由聚合引擎维护，正常的调用方更新不会动它；这里仍按旧值对比，
// 货值确有变化（比如修复性改库）时级联重算代理段汇总
func UpdateRoute(db *gorm.DB, route *models.Route) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var old models.Route
		if err := lockRow(tx).Where("id = ?", route.ID).First(&old).Error; err != nil {
			return err
		}
		NormalizeRoute(route)
		if err := tx.Save(route).Error; err != nil {
			return err
		}
		if !old.Value.Equal(route.Value) {
			return RecomputeSummariesForRoute(tx, route.ID)
		}
		return nil
	})
}

// DeleteRoute 删除线路
// 外键级联会同时删掉代理段、货物行、费用行和汇总记录
func DeleteRoute(db *gorm.DB, routeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Route{}, routeID).Error
	})
}

// ---------- 货物明细 ----------

// goodsCascade 货物行变动后的固定动作：重算线路汇总，再级联代理段汇总
// 线路货值喂进了每个代理段的总计，所以货物变动必须全链路重算
func goodsCascade(tx *gorm.DB, routeID uint) error {
	if _, err := RecomputeRoute(tx, routeID); err != nil {
		return err
	}
	return RecomputeSummariesForRoute(tx, routeID)
}

// CreateGoodsDetail 新增货物明细行
func CreateGoodsDetail(db *gorm.DB, detail *models.GoodsDetail) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeGoodsDetail(tx, detail)
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		return goodsCascade(tx, detail.RouteID)
	})
}

// UpdateGoodsDetail 更新货物明细行
func UpdateGoodsDetail(db *gorm.DB, detail *models.GoodsDetail) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeGoodsDetail(tx, detail)
		if err := tx.Save(detail).Error; err != nil {
			return err
		}
		return goodsCascade(tx, detail.RouteID)
	})
}

// DeleteGoodsDetail 删除货物明细行
func DeleteGoodsDetail(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var detail models.GoodsDetail
		if err := tx.Where("id = ?", id).First(&detail).Error; err != nil {
			return err
		}
		if err := tx.Delete(&detail).Error; err != nil {
			return err
		}
		return goodsCascade(tx, detail.RouteID)
	})
}

// ---------- 货物汇总行 ----------

// CreateGoodsTotal 新增货物汇总行
func CreateGoodsTotal(db *gorm.DB, total *models.GoodsTotal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeGoodsTotal(total)
		if err := tx.Create(total).Error; err != nil {
			return err
		}
		return goodsCascade(tx, total.RouteID)
	})
}

// UpdateGoodsTotal 更新货物汇总行
func UpdateGoodsTotal(db *gorm.DB, total *models.GoodsTotal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeGoodsTotal(total)
		if err := tx.Save(total).Error; err != nil {
			return err
		}
		return goodsCascade(tx, total.RouteID)
	})
}

// DeleteGoodsTotal 删除货物汇总行
func DeleteGoodsTotal(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var total models.GoodsTotal
		if err := tx.Where("id = ?", id).First(&total).Error; err != nil {
			return err
		}
		if err := tx.Delete(&total).Error; err != nil {
			return err
		}
		return goodsCascade(tx, total.RouteID)
	})
}

// ---------- 费用明细 ----------

// CreateFeeItem 新增费用明细行
func CreateFeeItem(db *gorm.DB, item *models.FeeItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeFeeItem(tx, item)
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, item.RouteAgentID)
	})
}

// UpdateFeeItem 更新费用明细行
func UpdateFeeItem(db *gorm.DB, item *models.FeeItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeFeeItem(tx, item)
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, item.RouteAgentID)
	})
}

// DeleteFeeItem 删除费用明细行
func DeleteFeeItem(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var item models.FeeItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, item.RouteAgentID)
	})
}

// ---------- 整单费用 ----------

// CreateFeeTotal 新增整单费用行
func CreateFeeTotal(db *gorm.DB, total *models.FeeTotal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeFeeTotal(tx, total)
		if err := tx.Create(total).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, total.RouteAgentID)
	})
}

// UpdateFeeTotal 更新整单费用行
func UpdateFeeTotal(db *gorm.DB, total *models.FeeTotal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		NormalizeFeeTotal(tx, total)
		if err := tx.Save(total).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, total.RouteAgentID)
	})
}

// DeleteFeeTotal 删除整单费用行
func DeleteFeeTotal(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var total models.FeeTotal
		if err := tx.Where("id = ?", id).First(&total).Error; err != nil {
			return err
		}
		if err := tx.Delete(&total).Error; err != nil {
			return err
		}
		return RecomputeSummary(tx, total.RouteAgentID)
	})
}

// ---------- 汇总参数与修复 ----------

// SetSummaryRates 设置代理段汇总的税率、汇损率和不含项目说明
// 这三项是调用方的输入，设置后立即以新参数重算汇总；
// 汇总记录不存在时先建一条再设置，保证参数不丢
func SetSummaryRates(db *gorm.DB, routeAgentID uint, taxRate, lossRate decimal.Decimal, exclusions string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 先保证汇总记录存在（顺带校验代理段存在）
		if err := RecomputeSummary(tx, routeAgentID); err != nil {
			return err
		}
		err := tx.Model(&models.Summary{}).Where("route_agent_id = ?", routeAgentID).Updates(map[string]interface{}{
			"tax_rate":   taxRate,
			"loss_rate":  lossRate,
			"exclusions": exclusions,
		}).Error
		if err != nil {
			return err
		}
		// 按新参数重算税金、汇损和总计
		return RecomputeSummary(tx, routeAgentID)
	})
}

// ReconcileRoute 对一条线路重跑完整级联，修复绕过引擎的改库造成的汇总漂移
// 也是对外暴露的回填/修复入口
func ReconcileRoute(db *gorm.DB, routeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return goodsCascade(tx, routeID)
	})
}

// RecomputeAgentSummary 单独重算一个代理段的汇总（回填/修复入口）
func RecomputeAgentSummary(db *gorm.DB, routeAgentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return RecomputeSummary(tx, routeAgentID)
	})
}
