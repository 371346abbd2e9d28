package handlers_test

import (
	"net/http"
	"testing"

	"barber_pos/database"
	"barber_pos/models"
)

func createSupplier(t *testing.T, name string, balance float64) *models.Supplier {
	t.Helper()

	supplier := models.Supplier{
		Name:           name,
		InitialDebt:    balance,
		CurrentBalance: balance,
	}
	if err := database.GetDB().Create(&supplier).Error; err != nil {
		t.Fatalf("创建供应商失败: %v", err)
	}
	return &supplier
}

func TestSupplierPaymentReducesDebt(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 100)

	resp := doRequest(t, app, "POST", "/api/suppliers/payments", models.CreateSupplierPaymentRequest{
		SupplierID: supplier.ID,
		Amount:     40,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 60 {
		t.Errorf("期望欠款60，得到%.2f", updated.CurrentBalance)
	}

	// 付款记录落库
	var count int64
	database.GetDB().Model(&models.SupplierPayment{}).Count(&count)
	if count != 1 {
		t.Errorf("期望1条付款记录，得到%d条", count)
	}
}

func TestSupplierPaymentFloorsAtZero(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 30)

	// 超额付款被吸收，余额不为负
	resp := doRequest(t, app, "POST", "/api/suppliers/payments", models.CreateSupplierPaymentRequest{
		SupplierID: supplier.ID,
		Amount:     100,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 0 {
		t.Errorf("欠款余额下限应为0，得到%.2f", updated.CurrentBalance)
	}
}

func TestSupplierPaymentUnknownSupplier(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)

	resp := doRequest(t, app, "POST", "/api/suppliers/payments", models.CreateSupplierPaymentRequest{
		SupplierID: 9999,
		Amount:     10,
	}, owner.ID)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("期望状态码404，得到%d", resp.StatusCode)
	}
}

func TestDeleteSupplierWithDebtRejected(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 50)

	resp := doRequest(t, app, "DELETE", "/api/suppliers/"+itoa(supplier.ID), nil, owner.ID)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("有欠款的供应商不应被删除，得到状态码%d", resp.StatusCode)
	}
}

func TestCreateProductAccruesSupplierDebt(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 0)

	// 进货10件，成本价8：欠款累计80，并自动登记一笔进货支出
	resp := doRequest(t, app, "POST", "/api/products", models.CreateProductRequest{
		Name:                 "Pomada",
		Price:                30,
		CostPrice:            8,
		CommissionFixedValue: 5,
		Quantity:             10,
		SupplierID:           &supplier.ID,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 80 {
		t.Errorf("期望欠款80，得到%.2f", updated.CurrentBalance)
	}

	var expense models.Expense
	if err := database.GetDB().First(&expense).Error; err != nil {
		t.Fatalf("查询进货支出失败: %v", err)
	}
	if expense.Amount != 80 {
		t.Errorf("期望支出金额80，得到%.2f", expense.Amount)
	}
	if expense.Category != models.ExpenseCategorySupplier {
		t.Errorf("期望支出类别%s，得到%s", models.ExpenseCategorySupplier, expense.Category)
	}
}

func TestCreateProductZeroQuantityCountsAsOne(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 0)

	// 数量为0按1计欠款
	resp := doRequest(t, app, "POST", "/api/products", models.CreateProductRequest{
		Name:      "Pomada",
		Price:     30,
		CostPrice: 8,
		Quantity:  0,
		SupplierID: &supplier.ID,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 8 {
		t.Errorf("期望欠款8，得到%.2f", updated.CurrentBalance)
	}
}

func TestCreateProductZeroCostStillLogsExpense(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 0)

	// 成本为0时依然登记进货支出，金额为0，欠款不变
	resp := doRequest(t, app, "POST", "/api/products", models.CreateProductRequest{
		Name:       "Pomada",
		Price:      30,
		CostPrice:  0,
		Quantity:   5,
		SupplierID: &supplier.ID,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 0 {
		t.Errorf("期望欠款0，得到%.2f", updated.CurrentBalance)
	}

	var expense models.Expense
	if err := database.GetDB().Where("category = ?", models.ExpenseCategorySupplier).
		First(&expense).Error; err != nil {
		t.Fatalf("查询进货支出失败: %v", err)
	}
	if expense.Amount != 0 {
		t.Errorf("期望支出金额0，得到%.2f", expense.Amount)
	}
}

func TestCreateProductWithoutSupplierNoDebt(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 0)

	// 没有关联供应商时既不累计欠款也不登记支出
	resp := doRequest(t, app, "POST", "/api/products", models.CreateProductRequest{
		Name:      "Pomada",
		Price:     30,
		CostPrice: 8,
		Quantity:  10,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var updated models.Supplier
	if err := database.GetDB().First(&updated, supplier.ID).Error; err != nil {
		t.Fatalf("查询供应商失败: %v", err)
	}
	if updated.CurrentBalance != 0 {
		t.Errorf("不应累计欠款，得到%.2f", updated.CurrentBalance)
	}

	var count int64
	database.GetDB().Model(&models.Expense{}).Count(&count)
	if count != 0 {
		t.Errorf("不应登记支出，得到%d条", count)
	}
}

func TestSupplierStatement(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	supplier := createSupplier(t, "Distribuidora", 100)

	resp := doRequest(t, app, "POST", "/api/suppliers/payments", models.CreateSupplierPaymentRequest{
		SupplierID: supplier.ID,
		Amount:     25,
	}, owner.ID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	resp = doRequest(t, app, "GET", "/api/suppliers/"+itoa(supplier.ID)+"/statement", nil, owner.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望状态码200，得到%d", resp.StatusCode)
	}

	var body struct {
		TotalPaid float64 `json:"total_paid"`
		Supplier  struct {
			CurrentBalance float64 `json:"current_balance"`
		} `json:"supplier"`
	}
	decodeBody(t, resp, &body)

	if body.TotalPaid != 25 {
		t.Errorf("期望已付总额25，得到%.2f", body.TotalPaid)
	}
	if body.Supplier.CurrentBalance != 75 {
		t.Errorf("期望欠款75，得到%.2f", body.Supplier.CurrentBalance)
	}
}

func TestSupplierRoutesForbiddenForTeam(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "GET", "/api/suppliers", nil, collaborator.ID)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("非店主访问供应商账本应被拒绝，得到状态码%d", resp.StatusCode)
	}
}
