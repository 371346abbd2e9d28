package models

import (
	"time"
)

// Service 服务模型（理发、修须等）
// 服务销售的佣金按协作者的佣金比例计算，价格只是计算基数
type Service struct {
	ID        uint      `json:"id" gorm:"primaryKey"`             // 主键ID
	Name      string    `json:"name" gorm:"size:100;not null"`    // 服务名称
	Price     float64   `json:"price" gorm:"not null"`            // 价格
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"` // 创建时间
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"` // 更新时间
}

// TableName 返回表名
func (Service) TableName() string {
	return "services"
}

// CreateServiceRequest 创建/更新服务的请求参数
type CreateServiceRequest struct {
	Name  string  `json:"name" validate:"required"`     // 服务名称，必填
	Price float64 `json:"price" validate:"required,gt=0"` // 价格，必填且大于0
}
