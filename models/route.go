// Package models 定义了应用程序的数据模型
// 包含所有与数据库表对应的结构体定义和相关方法
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Route 表示一条货运线路（报价单的主体）
// 该结构体对应数据库中的routes表
// 其中实重、货值、体积、货物名称等汇总字段由聚合引擎维护，
// 调用方不能直接写入；计费重在未显式指定时默认等于实重
type Route struct {
	ID            uint             `json:"id" gorm:"primaryKey"`                               // 主键ID
	RouteNo       string           `json:"route_no" gorm:"uniqueIndex;size:32"`                // 线路业务编号，唯一索引
	Origin        string           `json:"origin" gorm:"size:64"`                              // 起点
	Via           string           `json:"via" gorm:"size:64"`                                 // 途径地
	Destination   string           `json:"destination" gorm:"size:64"`                         // 终点
	StartDate     *time.Time       `json:"start_date"`                                         // 交易开始日期
	EndDate       *time.Time       `json:"end_date"`                                           // 交易结束日期
	Year          int              `json:"year"`                                               // 年份，由交易日期派生
	Month         int              `json:"month"`                                              // 月份，由交易日期派生
	ActualWeight  decimal.Decimal  `json:"actual_weight" gorm:"type:decimal(18,3)"`            // 实重(kg)，由货物明细汇总
	BillableWeight *decimal.Decimal `json:"billable_weight" gorm:"type:decimal(18,3)"`         // 计费重(kg)，未设置时取实重
	Volume        decimal.Decimal  `json:"volume" gorm:"type:decimal(18,3)"`                   // 体积(cbm)，由货物汇总行汇总
	Value         decimal.Decimal  `json:"value" gorm:"type:decimal(18,4)"`                    // 货值(人民币)，由货物明细汇总
	GoodsNames    string           `json:"goods_names" gorm:"size:512"`                        // 货物名称清单，逗号分隔
	Remark        string           `json:"remark" gorm:"type:text"`                            // 备注
	CreatedAt     time.Time        `json:"created_at"`                                         // 创建时间
	UpdatedAt     time.Time        `json:"updated_at"`                                         // 更新时间

	// 关联数据
	Agents       []RouteAgent  `json:"agents,omitempty" gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`        // 代理段
	GoodsDetails []GoodsDetail `json:"goods_details,omitempty" gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"` // 货物明细
	GoodsTotals  []GoodsTotal  `json:"goods_totals,omitempty" gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`  // 货物汇总行
}

// TableName 指定模型对应的数据库表名
func (Route) TableName() string {
	return "routes"
}
