package models

import (
	"time"
)

// 支出类别常量
const (
	ExpenseCategoryGeneral  = "Geral"      // 一般支出
	ExpenseCategorySupplier = "Fornecedor" // 进货支出（产品建档时自动登记）
)

// Expense 运营支出模型（房租、水电、进货等）
type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`              // 主键ID
	Description string    `json:"description" gorm:"size:200;not null"` // 描述
	Amount      float64   `json:"amount" gorm:"not null"`            // 金额
	Category    string    `json:"category" gorm:"size:50;default:Geral"` // 类别
	Date        time.Time `json:"date" gorm:"index"`                 // 支出日期
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`  // 创建时间
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`  // 更新时间
}

// TableName 返回表名
func (Expense) TableName() string {
	return "expenses"
}

// CreateExpenseRequest 登记支出的请求参数
type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required"` // 描述，必填
	Amount      float64 `json:"amount" validate:"required,gt=0"` // 金额，必填且大于0
	Category    string  `json:"category"`                        // 类别，默认Geral
}
