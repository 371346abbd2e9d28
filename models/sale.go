package models

import (
	"time"
)

// 行项目类型常量
const (
	LineItemService = "service" // 服务行项目
	LineItemProduct = "product" // 产品行项目
)

// Sale 销售记录模型（一次完整的交易）
// total_commission 在销售发生时按当时的佣金参数计算并冻结
// 一旦关联到某个结算记录（payment_record_id非空），commission_paid永久为true，
// 金额不再变化
type Sale struct {
	ID              uint       `json:"id" gorm:"primaryKey"`                 // 主键ID
	CollaboratorID  uint       `json:"collaborator_id" gorm:"index;not null"` // 所属协作者ID
	Date            time.Time  `json:"date" gorm:"index"`                    // 销售时间
	TotalAmount     float64    `json:"total_amount" gorm:"default:0"`        // 总金额
	TotalCommission float64    `json:"total_commission" gorm:"default:0"`    // 总佣金
	ClientName      string     `json:"client_name" gorm:"size:100"`          // 客户姓名
	PaymentMethod   string     `json:"payment_method" gorm:"size:50;default:Dinheiro"` // 支付方式
	CommissionPaid  bool       `json:"commission_paid" gorm:"default:false"` // 佣金是否已结算
	PaymentRecordID *uint      `json:"payment_record_id" gorm:"index"`       // 结算该销售的结算记录ID
	Items           []SaleItem `json:"items" gorm:"foreignKey:SaleID"`       // 行项目
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`     // 创建时间
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`     // 更新时间
}

// TableName 返回表名
func (Sale) TableName() string {
	return "sales"
}

// SaleItem 销售行项目模型
// item_name/price/commission 是销售时刻的快照：
// 之后修改目录（改价、改佣金）不会追溯影响历史行项目
type SaleItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`        // 主键ID
	SaleID     uint    `json:"sale_id" gorm:"index;not null"` // 所属销售ID
	ServiceID  *uint   `json:"service_id" gorm:"index"`     // 服务ID（服务行时非空）
	ProductID  *uint   `json:"product_id" gorm:"index"`     // 产品ID（产品行时非空）
	ItemName   string  `json:"item_name" gorm:"size:100"`   // 名称快照
	Price      float64 `json:"price"`                       // 价格快照
	Commission float64 `json:"commission"`                  // 该行计算出的佣金快照
}

// TableName 返回表名
func (SaleItem) TableName() string {
	return "sale_items"
}

// LineItem 销售行项目请求（带类型标签的联合体）
// type 只允许 service 或 product，其他值在进入账本逻辑前被拒绝
type LineItem struct {
	Type string `json:"type" validate:"required,oneof=service product"` // 行项目类型
	ID   uint   `json:"id" validate:"required"`                         // 目录ID
}

// CreateSaleRequest 记录销售的请求参数
type CreateSaleRequest struct {
	ClientName    string     `json:"client_name"`                         // 客户姓名
	PaymentMethod string     `json:"payment_method"`                      // 支付方式，默认Dinheiro
	Items         []LineItem `json:"items" validate:"required,min=1,dive"` // 行项目列表，不能为空
}

// CreateVIPSaleRequest 店主（VIP通道）记录销售的请求参数
// 价格由前端表单提交（店主可以自由定价），佣金恒为0
type CreateVIPSaleRequest struct {
	Type          string  `json:"type" validate:"required,oneof=service product"` // 行项目类型
	ItemID        uint    `json:"item_id" validate:"required"`                    // 目录ID
	Price         float64 `json:"price" validate:"required,gt=0"`                 // 成交价格
	PaymentMethod string  `json:"payment_method"`                                 // 支付方式
	ClientName    string  `json:"client_name"`                                    // 客户姓名
}

// SaleQuery 销售记录查询参数
type SaleQuery struct {
	CollaboratorID uint `json:"collaborator_id" query:"collaborator_id"` // 按协作者筛选
	Page           int  `json:"page" query:"page"`                       // 页码
	PageSize       int  `json:"page_size" query:"page_size"`             // 每页数量
}
