package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Collaborator 协作者模型（理发师/员工）
// 用于存储协作者的基本信息，包括姓名、联系方式、佣金比例等
// is_owner 标记店主：店主的销售不产生佣金，也不参与工资结算
type Collaborator struct {
	ID                uint      `json:"id" gorm:"primaryKey"`                   // 主键ID
	Name              string    `json:"name" gorm:"size:100;not null"`          // 姓名
	Phone             string    `json:"phone" gorm:"size:20"`                   // 电话（也是欢迎消息的发送目标）
	StartDate         time.Time `json:"start_date" gorm:"autoCreateTime"`       // 入职日期
	CommissionPercent float64   `json:"commission_percent" gorm:"default:50"`   // 服务销售的默认佣金比例，例如50表示50%
	Active            bool      `json:"active" gorm:"default:true"`             // 是否在职
	IsOwner           bool      `json:"is_owner" gorm:"default:false"`          // 是否为店主（VIP通道）
	Token             string    `json:"token" gorm:"size:100;uniqueIndex"`      // 魔法链接访问令牌（UUID）
	Password          string    `json:"-" gorm:"size:128"`                      // 密码哈希，不返回给前端
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`       // 创建时间
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`       // 更新时间
}

// TableName 返回表名
func (Collaborator) TableName() string {
	return "collaborators"
}

// SetPassword 设置加密密码
func (co *Collaborator) SetPassword(plainPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	co.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (co *Collaborator) CheckPassword(plainPassword string) bool {
	if co.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(co.Password), []byte(plainPassword))
	return err == nil
}

// Balance 计算协作者当前未结算余额
// 余额 = 未结算销售的佣金总和 - 未结算预支的金额总和
// 余额可以为负（协作者欠店里钱），负余额会阻止结算但允许查询
func (co *Collaborator) Balance(db *gorm.DB) (float64, error) {
	var totalCommission float64
	if err := db.Model(&Sale{}).
		Where("collaborator_id = ? AND commission_paid = ?", co.ID, false).
		Select("COALESCE(SUM(total_commission), 0)").
		Scan(&totalCommission).Error; err != nil {
		return 0, err
	}

	var totalAdvances float64
	if err := db.Model(&CashAdvance{}).
		Where("collaborator_id = ? AND is_paid = ?", co.ID, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalAdvances).Error; err != nil {
		return 0, err
	}

	return totalCommission - totalAdvances, nil
}

// CollaboratorQuery 协作者查询参数
type CollaboratorQuery struct {
	Name     string `json:"name" query:"name"`           // 姓名（模糊匹配）
	Active   *bool  `json:"active" query:"active"`       // 是否在职
	IsOwner  *bool  `json:"is_owner" query:"is_owner"`   // 是否店主
	Page     int    `json:"page" query:"page"`           // 页码
	PageSize int    `json:"page_size" query:"page_size"` // 每页数量
}

// CreateCollaboratorRequest 创建协作者的请求参数
type CreateCollaboratorRequest struct {
	Name              string  `json:"name" validate:"required"`                     // 姓名，必填
	Phone             string  `json:"phone"`                                        // 电话
	Password          string  `json:"password" validate:"required"`                 // 初始密码，必填
	CommissionPercent float64 `json:"commission_percent" validate:"gte=0,lte=100"`  // 佣金比例
	Active            *bool   `json:"active"`                                       // 是否在职，默认true
	IsOwner           bool    `json:"is_owner"`                                     // 是否店主
}
