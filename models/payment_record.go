package models

import (
	"time"
)

// PaymentRecord 结算记录模型（一次工资结算的不可变凭证）
// 记录创建后永不修改，是只追加的账本条目
// 它只反向引用被结算的销售和预支，不拥有它们：
// 删除结算记录属于审计条目删除，不会回滚账本（销售/预支保持已结算状态）
type PaymentRecord struct {
	ID              uint      `json:"id" gorm:"primaryKey"`                            // 主键ID
	CollaboratorID  uint      `json:"collaborator_id" gorm:"index;not null"`           // 所属协作者ID
	ReceiptNo       string    `json:"receipt_no" gorm:"uniqueIndex:idx_receipt_no,length:191"` // 结算凭证号
	Date            time.Time `json:"date" gorm:"autoCreateTime"`                      // 结算时间
	StartDate       time.Time `json:"start_date"`                                      // 结算周期开始（纳入销售的最早日期）
	EndDate         time.Time `json:"end_date"`                                        // 结算周期结束（纳入销售的最晚日期）
	TotalCommission float64   `json:"total_commission" gorm:"default:0"`               // 结算的佣金总额
	TotalAdvances   float64   `json:"total_advances" gorm:"default:0"`                 // 扣除的预支总额
	NetAmount       float64   `json:"net_amount" gorm:"default:0"`                     // 实付净额
	AdminName       string    `json:"admin_name" gorm:"size:100;default:Administrador"` // 操作者姓名
}

// TableName 返回表名
func (PaymentRecord) TableName() string {
	return "payment_records"
}
