package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsDetail 表示线路下的单件货物明细行
// 该结构体对应数据库中的goods_details表
// 总重量、总货值为派生字段，写入时由引擎计算，调用方提交的值不作数
type GoodsDetail struct {
	ID          uint            `json:"id" gorm:"primaryKey"`                    // 主键ID
	RouteID     uint            `json:"route_id" gorm:"index;not null"`          // 所属线路ID
	GoodsName   string          `json:"goods_name" gorm:"size:128"`              // 货物名称
	IsNew       string          `json:"is_new" gorm:"size:8"`                    // 新旧：新/旧
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(18,3)"`      // 数量
	Unit        string          `json:"unit" gorm:"size:16"`                     // 单位：台,件,个,pcs等
	UnitWeight  decimal.Decimal `json:"unit_weight" gorm:"type:decimal(18,3)"`   // 单重(kg)
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4)"`    // 单价（原币）
	Currency    string          `json:"currency" gorm:"size:8"`                  // 币种
	TotalWeight decimal.Decimal `json:"total_weight" gorm:"type:decimal(18,3)"`  // 总重量 = 数量 × 单重
	TotalValue  decimal.Decimal `json:"total_value" gorm:"type:decimal(18,4)"`   // 总货值(人民币) = 数量 × 单价 × 汇率
	Remark      string          `json:"remark" gorm:"size:255"`                  // 备注
	CreatedAt   time.Time       `json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`                              // 更新时间
}

// TableName 指定模型对应的数据库表名
func (GoodsDetail) TableName() string {
	return "goods_details"
}
