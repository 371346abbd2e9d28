package models

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&Collaborator{}, &Sale{}, &CashAdvance{}); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

func TestCollaboratorBalance(t *testing.T) {
	db := newTestDB(t)

	collaborator := Collaborator{Name: "Carlos", CommissionPercent: 50, Active: true}
	if err := db.Create(&collaborator).Error; err != nil {
		t.Fatalf("创建协作者失败: %v", err)
	}

	sales := []Sale{
		{CollaboratorID: collaborator.ID, Date: time.Now(), TotalCommission: 20},
		{CollaboratorID: collaborator.ID, Date: time.Now(), TotalCommission: 30},
		// 已结算的销售不计入余额
		{CollaboratorID: collaborator.ID, Date: time.Now(), TotalCommission: 100, CommissionPaid: true},
	}
	for i := range sales {
		if err := db.Create(&sales[i]).Error; err != nil {
			t.Fatalf("创建销售记录失败: %v", err)
		}
	}

	advances := []CashAdvance{
		{CollaboratorID: collaborator.ID, Amount: 15, Date: time.Now()},
		// 已抵扣的预支不计入余额
		{CollaboratorID: collaborator.ID, Amount: 40, Date: time.Now(), IsPaid: true},
	}
	for i := range advances {
		if err := db.Create(&advances[i]).Error; err != nil {
			t.Fatalf("创建预支记录失败: %v", err)
		}
	}

	balance, err := collaborator.Balance(db)
	if err != nil {
		t.Fatalf("计算余额失败: %v", err)
	}
	if balance != 35 {
		t.Errorf("期望余额35，得到%.2f", balance)
	}
}

func TestCollaboratorBalanceCanBeNegative(t *testing.T) {
	db := newTestDB(t)

	collaborator := Collaborator{Name: "Carlos", Active: true}
	if err := db.Create(&collaborator).Error; err != nil {
		t.Fatalf("创建协作者失败: %v", err)
	}

	if err := db.Create(&CashAdvance{
		CollaboratorID: collaborator.ID,
		Amount:         50,
		Date:           time.Now(),
	}).Error; err != nil {
		t.Fatalf("创建预支记录失败: %v", err)
	}

	balance, err := collaborator.Balance(db)
	if err != nil {
		t.Fatalf("计算余额失败: %v", err)
	}
	if balance != -50 {
		t.Errorf("期望余额-50，得到%.2f", balance)
	}
}

func TestCheckPassword(t *testing.T) {
	var collaborator Collaborator

	// 空哈希直接拒绝
	if collaborator.CheckPassword("qualquer") {
		t.Error("空密码哈希不应通过验证")
	}

	if err := collaborator.SetPassword("senha123"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if !collaborator.CheckPassword("senha123") {
		t.Error("正确密码应通过验证")
	}
	if collaborator.CheckPassword("errada") {
		t.Error("错误密码不应通过验证")
	}
}

func TestProductEquivalentCommissionPercent(t *testing.T) {
	product := Product{Price: 30, CommissionFixedValue: 6}
	if got := product.EquivalentCommissionPercent(); got != 20 {
		t.Errorf("期望等效比例20，得到%.2f", got)
	}

	// 价格为0时不做除法
	zero := Product{Price: 0, CommissionFixedValue: 6}
	if got := zero.EquivalentCommissionPercent(); got != 0 {
		t.Errorf("价格为0时期望0，得到%.2f", got)
	}
}

func TestProductProfit(t *testing.T) {
	product := Product{Price: 30, CostPrice: 8, CommissionFixedValue: 5}
	if got := product.GrossProfit(); got != 22 {
		t.Errorf("期望毛利22，得到%.2f", got)
	}
	if got := product.NetProfit(); got != 17 {
		t.Errorf("期望净利17，得到%.2f", got)
	}
}

func TestSupplierApplyPayment(t *testing.T) {
	supplier := Supplier{CurrentBalance: 100}

	supplier.ApplyPayment(40)
	if supplier.CurrentBalance != 60 {
		t.Errorf("期望余额60，得到%.2f", supplier.CurrentBalance)
	}

	// 超额付款被吸收，余额下限为0
	supplier.ApplyPayment(200)
	if supplier.CurrentBalance != 0 {
		t.Errorf("期望余额0，得到%.2f", supplier.CurrentBalance)
	}

	supplier.AccrueDebt(80)
	if supplier.CurrentBalance != 80 {
		t.Errorf("期望余额80，得到%.2f", supplier.CurrentBalance)
	}
}
