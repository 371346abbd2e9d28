package models

import (
	"time"
)

// Product 产品模型（发蜡、洗发水等零售商品）
// 产品销售的佣金是固定金额（commission_fixed_value），与价格和利润无关
// 关联供应商时，创建产品会按 成本价×数量 累计供应商欠款并自动登记一笔支出
type Product struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`                  // 主键ID
	Name                 string    `json:"name" gorm:"size:100;not null"`         // 产品名称
	Price                float64   `json:"price" gorm:"not null"`                 // 销售价格
	CostPrice            float64   `json:"cost_price" gorm:"default:0"`           // 成本价（单价）
	CommissionFixedValue float64   `json:"commission_fixed_value" gorm:"default:0"` // 固定佣金金额
	Quantity             int       `json:"quantity" gorm:"default:0"`             // 库存数量
	SupplierID           *uint     `json:"supplier_id" gorm:"index"`              // 关联供应商ID（欠款累计目标），允许为空
	CollaboratorID       *uint     `json:"collaborator_id" gorm:"index"`          // 关联协作者ID（仅信息用途），允许为空
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`      // 创建时间
	UpdatedAt            time.Time `json:"updated_at" gorm:"autoUpdateTime"`      // 更新时间
}

// TableName 返回表名
func (Product) TableName() string {
	return "products"
}

// EquivalentCommissionPercent 计算固定佣金对应的等效百分比
// 旧版数据模型把这个百分比冗余存储在产品上，现在只按需推导，
// 固定金额是唯一的佣金事实来源
func (p *Product) EquivalentCommissionPercent() float64 {
	if p.Price <= 0 {
		return 0
	}
	return p.CommissionFixedValue / p.Price * 100
}

// GrossProfit 毛利 = 售价 - 成本
func (p *Product) GrossProfit() float64 {
	return p.Price - p.CostPrice
}

// NetProfit 净利 = 毛利 - 固定佣金
func (p *Product) NetProfit() float64 {
	return p.GrossProfit() - p.CommissionFixedValue
}

// CreateProductRequest 创建产品的请求参数
// quantity 为进货数量：关联供应商时按 成本价×数量 累计欠款（数量为0按1计）
type CreateProductRequest struct {
	Name                 string  `json:"name" validate:"required"`       // 产品名称，必填
	Price                float64 `json:"price" validate:"required,gt=0"` // 销售价格，必填
	CostPrice            float64 `json:"cost_price" validate:"gte=0"`    // 成本价
	CommissionFixedValue float64 `json:"commission_fixed_value" validate:"gte=0"` // 固定佣金金额
	Quantity             int     `json:"quantity" validate:"gte=0"`      // 进货数量
	SupplierID           *uint   `json:"supplier_id"`                    // 关联供应商ID
	CollaboratorID       *uint   `json:"collaborator_id"`                // 关联协作者ID
}
