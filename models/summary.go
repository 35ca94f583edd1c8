package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary 表示代理段的费用汇总记录，每个代理段有且仅有一条
// 该结构体对应数据库中的summaries表
// 税率、汇损率、不含项目由调用方维护；小计、税金、汇损、总计由聚合引擎计算，
// 引擎重算时保留调用方设置的税率和汇损率
type Summary struct {
	ID           uint            `json:"id" gorm:"primaryKey"`                   // 主键ID
	RouteAgentID uint            `json:"route_agent_id" gorm:"uniqueIndex;not null"` // 所属代理段ID，唯一索引
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:decimal(18,4)"`     // 小计：全部费用行人民币金额之和
	TaxRate      decimal.Decimal `json:"tax_rate" gorm:"type:decimal(10,4)"`     // 税率（百分比）
	TaxAmount    decimal.Decimal `json:"tax_amount" gorm:"type:decimal(18,4)"`   // 税金 = (小计+货值) × 税率/100
	LossRate     decimal.Decimal `json:"loss_rate" gorm:"type:decimal(10,4)"`    // 汇损率（百分比）
	LossAmount   decimal.Decimal `json:"loss_amount" gorm:"type:decimal(18,4)"`  // 汇损 = (小计+货值) × 汇损率/100
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(18,4)"`        // 总计 = 小计 + 货值 + 税金 + 汇损
	Exclusions   string          `json:"exclusions" gorm:"size:255"`             // 不含项目说明，如"不含保险"
	Remark       string          `json:"remark" gorm:"type:text"`                // 备注
	CreatedAt    time.Time       `json:"created_at"`                             // 创建时间
	UpdatedAt    time.Time       `json:"updated_at"`                             // 更新时间
}

// TableName 指定模型对应的数据库表名
func (Summary) TableName() string {
	return "summaries"
}
