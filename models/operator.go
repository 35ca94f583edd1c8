package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Operator 操作员模型
// 用于存储系统操作员的账号信息，线路、货物、费用的维护需要操作员登录
type Operator struct {
	ID          uint       `json:"id" gorm:"primaryKey"`                 // 主键ID
	Username    string     `json:"username" gorm:"size:50;uniqueIndex"`  // 用户名，登录用，唯一
	Password    string     `json:"-" gorm:"size:100"`                    // 密码，不返回给前端
	Name        string     `json:"name" gorm:"size:50"`                  // 姓名
	Status      string     `json:"status" gorm:"size:20;default:active"` // 状态：active在职, inactive离职
	LastLoginAt *time.Time `json:"last_login_at"`                        // 最后登录时间
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`     // 创建时间
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`     // 更新时间
}

// TableName 返回表名
func (Operator) TableName() string {
	return "operators"
}

// SetPassword 设置加密密码
func (o *Operator) SetPassword(plainPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (o *Operator) CheckPassword(plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(plainPassword))
	return err == nil
}
