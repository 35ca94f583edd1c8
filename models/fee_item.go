package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeItem 表示代理段下的按量计费的费用明细行
// 该结构体对应数据库中的fee_items表
// 原币金额、人民币金额为派生字段，写入时由引擎计算
type FeeItem struct {
	ID             uint            `json:"id" gorm:"primaryKey"`                       // 主键ID
	RouteAgentID   uint            `json:"route_agent_id" gorm:"index;not null"`       // 所属代理段ID
	FeeType        string          `json:"fee_type" gorm:"size:32"`                    // 费用类型：海运费,报关费,THC等
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4)"`       // 单价（原币）
	Quantity       decimal.Decimal `json:"quantity" gorm:"type:decimal(18,3)"`         // 数量
	Unit           string          `json:"unit" gorm:"size:16"`                        // 单位：kg,cbm,票,柜等
	Currency       string          `json:"currency" gorm:"size:8"`                     // 币种
	OriginalAmount decimal.Decimal `json:"original_amount" gorm:"type:decimal(18,4)"`  // 原币金额 = 单价 × 数量
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(18,4)"`           // 人民币金额 = 原币金额 × 汇率
	Remark         string          `json:"remark" gorm:"size:255"`                     // 备注
	CreatedAt      time.Time       `json:"created_at"`                                 // 创建时间
	UpdatedAt      time.Time       `json:"updated_at"`                                 // 更新时间
}

// TableName 指定模型对应的数据库表名
func (FeeItem) TableName() string {
	return "fee_items"
}
