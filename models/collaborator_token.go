package models

import (
	"time"
)

// CollaboratorToken 协作者登录令牌模型
// 该模型用于存储协作者的JWT认证令牌及相关会话信息
// 支持多设备登录，每个设备会创建独立的令牌记录
// 即使JWT本身未过期，数据库中的记录被删除后令牌也会立即失效
type CollaboratorToken struct {
	ID             uint      `json:"id" gorm:"primaryKey"`             // 主键ID
	CollaboratorID uint      `json:"collaborator_id" gorm:"index"`     // 关联的协作者ID
	Token          string    `json:"token" gorm:"size:500;index"`      // JWT令牌字符串
	UserAgent      string    `json:"user_agent" gorm:"size:255"`       // 用户代理信息，用于识别登录设备
	IP             string    `json:"ip" gorm:"size:50"`                // 登录IP地址，用于安全审计
	ExpiredAt      time.Time `json:"expired_at" gorm:"index"`          // 令牌过期时间
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"` // 记录创建时间
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"` // 记录更新时间
}

// TableName 返回表名
func (CollaboratorToken) TableName() string {
	return "collaborator_tokens"
}
