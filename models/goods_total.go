package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsTotal 表示线路级别的货物汇总行（非按件计的整票货物数据）
// 该结构体对应数据库中的goods_totals表
// 实重、货值、体积允许为空，写入时统一归零，避免聚合时空值参与求和
type GoodsTotal struct {
	ID           uint             `json:"id" gorm:"primaryKey"`                    // 主键ID
	RouteID      uint             `json:"route_id" gorm:"index;not null"`          // 所属线路ID
	GoodsName    string           `json:"goods_name" gorm:"size:128"`              // 货物名称
	ActualWeight *decimal.Decimal `json:"actual_weight" gorm:"type:decimal(18,3)"` // 实重(kg)
	Value        *decimal.Decimal `json:"value" gorm:"type:decimal(18,4)"`         // 货值(人民币)
	Volume       *decimal.Decimal `json:"volume" gorm:"type:decimal(18,3)"`        // 体积(cbm)
	Remark       string           `json:"remark" gorm:"size:255"`                  // 备注
	CreatedAt    time.Time        `json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time        `json:"updated_at"`                              // 更新时间
}

// TableName 指定模型对应的数据库表名
func (GoodsTotal) TableName() string {
	return "goods_totals"
}
