package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForexRate 表示外币兑人民币的汇率
// 该结构体对应数据库中的forex_rates表
// 对聚合引擎而言汇率表是只读输入；人民币(CNY/RMB)隐含汇率1，不需要建行
type ForexRate struct {
	ID        uint            `json:"id" gorm:"primaryKey"`              // 主键ID
	Currency  string          `json:"currency" gorm:"uniqueIndex;size:8"` // 币种代码，唯一索引
	Rate      decimal.Decimal `json:"rate" gorm:"type:decimal(18,6)"`    // 兑人民币汇率
	Remark    string          `json:"remark" gorm:"size:255"`            // 备注
	CreatedAt time.Time       `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time       `json:"updated_at"`                        // 更新时间
}

// TableName 指定模型对应的数据库表名
func (ForexRate) TableName() string {
	return "forex_rates"
}
