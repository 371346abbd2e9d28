package models

import (
	"time"
)

// CashAdvance 现金预支模型（发薪前预付给协作者的钱）
// 预支会在下一次结算中从佣金里扣除
type CashAdvance struct {
	ID              uint      `json:"id" gorm:"primaryKey"`                 // 主键ID
	CollaboratorID  uint      `json:"collaborator_id" gorm:"index;not null"` // 所属协作者ID
	Amount          float64   `json:"amount" gorm:"not null"`               // 金额
	Description     string    `json:"description" gorm:"size:200"`          // 备注
	Date            time.Time `json:"date"`                                 // 预支日期
	IsPaid          bool      `json:"is_paid" gorm:"default:false"`         // 是否已在结算中扣除
	PaymentRecordID *uint     `json:"payment_record_id" gorm:"index"`       // 扣除该预支的结算记录ID
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`     // 创建时间
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`     // 更新时间
}

// TableName 返回表名
func (CashAdvance) TableName() string {
	return "cash_advances"
}

// CreateAdvanceRequest 登记现金预支的请求参数
type CreateAdvanceRequest struct {
	CollaboratorID uint    `json:"collaborator_id" validate:"required"` // 协作者ID，必填
	Amount         float64 `json:"amount" validate:"required,gt=0"`     // 金额，必填且大于0
	Description    string  `json:"description"`                         // 备注
}
