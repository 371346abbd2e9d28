package models

import (
	"time"
)

// Supplier 供应商模型
// current_balance 是当前欠供应商的钱：进货时累计，付款时减少，最低为0
type Supplier struct {
	ID             uint              `json:"id" gorm:"primaryKey"`              // 主键ID
	Name           string            `json:"name" gorm:"size:100;not null"`     // 供应商名称
	InitialDebt    float64           `json:"initial_debt" gorm:"default:0"`     // 建档时已知的欠款
	CurrentBalance float64           `json:"current_balance" gorm:"default:0"`  // 当前欠款余额
	Payments       []SupplierPayment `json:"payments" gorm:"foreignKey:SupplierID"` // 付款历史
	CreatedAt      time.Time         `json:"created_at" gorm:"autoCreateTime"`  // 创建时间
	UpdatedAt      time.Time         `json:"updated_at" gorm:"autoUpdateTime"`  // 更新时间
}

// TableName 返回表名
func (Supplier) TableName() string {
	return "suppliers"
}

// ApplyPayment 把一笔付款计入欠款余额
// 余额下限为0：超额付款被直接吸收，不作为信用额结转
func (s *Supplier) ApplyPayment(amount float64) {
	s.CurrentBalance -= amount
	if s.CurrentBalance < 0 {
		s.CurrentBalance = 0
	}
}

// AccrueDebt 累计一笔进货欠款
func (s *Supplier) AccrueDebt(amount float64) {
	s.CurrentBalance += amount
}

// SupplierPayment 供应商付款模型
// 创建付款记录是唯一会减少供应商欠款的操作
type SupplierPayment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`              // 主键ID
	SupplierID  uint      `json:"supplier_id" gorm:"index;not null"` // 所属供应商ID
	Amount      float64   `json:"amount" gorm:"not null"`            // 付款金额
	Date        time.Time `json:"date" gorm:"autoCreateTime"`        // 付款时间
	Description string    `json:"description" gorm:"size:200"`       // 备注
}

// TableName 返回表名
func (SupplierPayment) TableName() string {
	return "supplier_payments"
}

// CreateSupplierRequest 创建供应商的请求参数
type CreateSupplierRequest struct {
	Name           string  `json:"name" validate:"required"`        // 供应商名称，必填
	InitialDebt    float64 `json:"initial_debt" validate:"gte=0"`   // 已知欠款
	CurrentBalance float64 `json:"current_balance" validate:"gte=0"` // 当前余额，缺省时取initial_debt
}

// CreateSupplierPaymentRequest 登记供应商付款的请求参数
type CreateSupplierPaymentRequest struct {
	SupplierID  uint    `json:"supplier_id" validate:"required"` // 供应商ID，必填
	Amount      float64 `json:"amount" validate:"required,gt=0"` // 付款金额，必填且大于0
	Description string  `json:"description"`                     // 备注
}
