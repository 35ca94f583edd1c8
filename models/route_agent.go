package models

import (
	"time"
)

// RouteAgent 表示线路下的一个代理段（分包的承运代理）
// 该结构体对应数据库中的route_agents表
// 每个代理段有且仅有一条汇总记录(Summary)，费用行都挂在代理段下
type RouteAgent struct {
	ID               uint      `json:"id" gorm:"primaryKey"`                 // 主键ID
	RouteID          uint      `json:"route_id" gorm:"index;not null"`       // 所属线路ID
	AgentName        string    `json:"agent_name" gorm:"size:128"`           // 代理商名称
	TransportMode    string    `json:"transport_mode" gorm:"size:32"`        // 运输方式：海运,空运,陆运,铁路,快递
	TradeType        string    `json:"trade_type" gorm:"size:32"`            // 贸易类型：DDP,DAP,FOB,专线,双清等
	Leadtime         string    `json:"leadtime" gorm:"size:32"`              // 时效，如"5-7天"
	HasCompensation  bool      `json:"has_compensation" gorm:"default:false"` // 是否赔付
	CompensationNote string    `json:"compensation_note" gorm:"size:255"`    // 赔付内容
	Remark           string    `json:"remark" gorm:"type:text"`              // 代理备注
	CreatedAt        time.Time `json:"created_at"`                           // 创建时间
	UpdatedAt        time.Time `json:"updated_at"`                           // 更新时间

	// 关联数据
	FeeItems  []FeeItem  `json:"fee_items,omitempty" gorm:"foreignKey:RouteAgentID;constraint:OnDelete:CASCADE"`  // 费用明细
	FeeTotals []FeeTotal `json:"fee_totals,omitempty" gorm:"foreignKey:RouteAgentID;constraint:OnDelete:CASCADE"` // 整单费用
	Summary   *Summary   `json:"summary,omitempty" gorm:"foreignKey:RouteAgentID;constraint:OnDelete:CASCADE"`    // 汇总记录
}

// TableName 指定模型对应的数据库表名
func (RouteAgent) TableName() string {
	return "route_agents"
}
