// Package services 实现派生值传播引擎
// 明细行写入时计算派生字段，货物变动向上重算线路汇总，
// 线路货值变动再级联重算每个代理段的费用汇总，全部在同一事务内同步完成
package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_quotation/models"
)

// BaseCurrency 记账本位币，所有金额最终折算为人民币
const BaseCurrency = "CNY"

// one 汇率1，本位币和未知币种都按1处理
var one = decimal.NewFromInt(1)

// Rate 解析币种对应的兑人民币汇率
// 空币种或本位币（CNY/RMB，不区分大小写）直接返回1，不查表；
// 其他币种按代码精确查询汇率表，查不到时按1处理：
// 未维护汇率的币种视同已折算，不报错，只记录告警日志
func Rate(tx *gorm.DB, currency string) decimal.Decimal {
	code := strings.TrimSpace(currency)
	if code == "" {
		return one
	}
	upper := strings.ToUpper(code)
	if upper == BaseCurrency || upper == "RMB" {
		return one
	}

	var rate models.ForexRate
	err := tx.Where("currency = ?", code).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("币种[%s]未维护汇率，按1处理", code)
		} else {
			log.Errorf("查询币种[%s]汇率失败: %v，按1处理", code, err)
		}
		return one
	}
	return rate.Rate
}
