package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeTotal 表示代理段下的整单费用行（已汇总、不按量计费）
// 该结构体对应数据库中的fee_totals表
// 人民币金额为派生字段 = 原币金额 × 汇率
type FeeTotal struct {
	ID             uint            `json:"id" gorm:"primaryKey"`                      // 主键ID
	RouteAgentID   uint            `json:"route_agent_id" gorm:"index;not null"`      // 所属代理段ID
	FeeType        string          `json:"fee_type" gorm:"size:32"`                   // 费用类型：操作费,杂费,总费用等
	Currency       string          `json:"currency" gorm:"size:8"`                    // 币种
	OriginalAmount decimal.Decimal `json:"original_amount" gorm:"type:decimal(18,4)"` // 原币金额
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(18,4)"`          // 人民币金额
	Remark         string          `json:"remark" gorm:"size:255"`                    // 备注
	CreatedAt      time.Time       `json:"created_at"`                                // 创建时间
	UpdatedAt      time.Time       `json:"updated_at"`                                // 更新时间
}

// TableName 指定模型对应的数据库表名
func (FeeTotal) TableName() string {
	return "fee_totals"
}
