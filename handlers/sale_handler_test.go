package handlers_test

import (
	"net/http"
	"testing"

	"barber_pos/database"
	"barber_pos/models"
)

// 创建测试用服务
func createService(t *testing.T, name string, price float64) *models.Service {
	t.Helper()

	service := models.Service{Name: name, Price: price}
	if err := database.GetDB().Create(&service).Error; err != nil {
		t.Fatalf("创建服务失败: %v", err)
	}
	return &service
}

// 创建测试用产品
func createProduct(t *testing.T, name string, price, commission float64, quantity int) *models.Product {
	t.Helper()

	product := models.Product{
		Name:                 name,
		Price:                price,
		CommissionFixedValue: commission,
		Quantity:             quantity,
	}
	if err := database.GetDB().Create(&product).Error; err != nil {
		t.Fatalf("创建产品失败: %v", err)
	}
	return &product
}

func TestCreateSaleServiceCommission(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		ClientName: "João",
		Items:      []models.LineItem{{Type: "service", ID: service.ID}},
	}, collaborator.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var sale models.Sale
	if err := database.GetDB().Preload("Items").First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}

	// 服务佣金 = 价格 × 佣金比例：40 × 50% = 20
	if sale.TotalAmount != 40 {
		t.Errorf("期望总金额40，得到%.2f", sale.TotalAmount)
	}
	if sale.TotalCommission != 20 {
		t.Errorf("期望总佣金20，得到%.2f", sale.TotalCommission)
	}
	if sale.CommissionPaid {
		t.Error("新销售不应处于已结算状态")
	}
	if len(sale.Items) != 1 || sale.Items[0].Commission != 20 {
		t.Errorf("行项目佣金快照错误: %+v", sale.Items)
	}
}

func TestCreateSaleMixedItems(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)
	product := createProduct(t, "Pomada", 30, 5, 10)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{
			{Type: "service", ID: service.ID},
			{Type: "product", ID: product.ID},
		},
	}, collaborator.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var sale models.Sale
	if err := database.GetDB().Preload("Items").First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}

	// 总金额 = 40 + 30，总佣金 = 20（服务） + 5（产品固定佣金）
	if sale.TotalAmount != 70 {
		t.Errorf("期望总金额70，得到%.2f", sale.TotalAmount)
	}
	if sale.TotalCommission != 25 {
		t.Errorf("期望总佣金25，得到%.2f", sale.TotalCommission)
	}

	// 产品库存扣减1
	var updated models.Product
	if err := database.GetDB().First(&updated, product.ID).Error; err != nil {
		t.Fatalf("查询产品失败: %v", err)
	}
	if updated.Quantity != 9 {
		t.Errorf("期望库存9，得到%d", updated.Quantity)
	}
}

func TestCreateSaleCommissionSnapshot(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{{Type: "service", ID: service.ID}},
	}, collaborator.ID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	// 销售之后修改佣金比例和服务价格
	if err := database.GetDB().Model(&models.Collaborator{}).
		Where("id = ?", collaborator.ID).
		UpdateColumn("commission_percent", 80).Error; err != nil {
		t.Fatalf("修改佣金比例失败: %v", err)
	}
	if err := database.GetDB().Model(&models.Service{}).
		Where("id = ?", service.ID).
		UpdateColumn("price", 100).Error; err != nil {
		t.Fatalf("修改服务价格失败: %v", err)
	}

	// 已有销售的快照不变
	var sale models.Sale
	if err := database.GetDB().Preload("Items").First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}
	if sale.TotalCommission != 20 {
		t.Errorf("佣金快照被追溯修改了: %.2f", sale.TotalCommission)
	}
	if sale.Items[0].Price != 40 {
		t.Errorf("价格快照被追溯修改了: %.2f", sale.Items[0].Price)
	}

	// 新销售按新参数计算：100 × 80% = 80
	resp = doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{{Type: "service", ID: service.ID}},
	}, collaborator.ID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var newSale models.Sale
	if err := database.GetDB().Order("id DESC").First(&newSale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}
	if newSale.TotalCommission != 80 {
		t.Errorf("期望新销售佣金80，得到%.2f", newSale.TotalCommission)
	}
}

func TestCreateSaleZeroStockStillSells(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	product := createProduct(t, "Pomada", 30, 5, 0)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{{Type: "product", ID: product.ID}},
	}, collaborator.ID)

	// 零库存不阻止销售
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("零库存产品应该照常卖出，得到状态码%d", resp.StatusCode)
	}

	// 库存不变为负数
	var updated models.Product
	if err := database.GetDB().First(&updated, product.ID).Error; err != nil {
		t.Fatalf("查询产品失败: %v", err)
	}
	if updated.Quantity != 0 {
		t.Errorf("期望库存保持0，得到%d", updated.Quantity)
	}

	// 佣金照常产生
	var sale models.Sale
	if err := database.GetDB().First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}
	if sale.TotalCommission != 5 {
		t.Errorf("期望佣金5，得到%.2f", sale.TotalCommission)
	}
}

func TestCreateSaleEmptyItemsRejected(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{},
	}, collaborator.ID)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("空行项目列表应被拒绝，得到状态码%d", resp.StatusCode)
	}

	// 没有留下部分写入
	var count int64
	database.GetDB().Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Errorf("期望没有销售记录，得到%d条", count)
	}
}

func TestCreateSaleUnknownItemTypeRejected(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{{Type: "voucher", ID: 1}},
	}, collaborator.ID)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("未知行项目类型应被拒绝，得到状态码%d", resp.StatusCode)
	}
}

func TestCreateSaleUnknownServiceRollsBack(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)

	// 第二行引用不存在的服务，整个销售必须回滚
	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{
			{Type: "service", ID: service.ID},
			{Type: "service", ID: 9999},
		},
	}, collaborator.ID)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("期望状态码404，得到%d", resp.StatusCode)
	}

	var saleCount, itemCount int64
	database.GetDB().Model(&models.Sale{}).Count(&saleCount)
	database.GetDB().Model(&models.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Errorf("事务未回滚: %d条销售，%d条行项目", saleCount, itemCount)
	}
}

func TestCreateVIPSaleNoCommission(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	service := createService(t, "Corte", 40)

	// 店主自由定价
	resp := doRequest(t, app, "POST", "/api/vip/sales", models.CreateVIPSaleRequest{
		Type:   "service",
		ItemID: service.ID,
		Price:  55,
	}, owner.ID)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var sale models.Sale
	if err := database.GetDB().Preload("Items").First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}

	// 佣金恒为0且立即结算
	if sale.TotalCommission != 0 {
		t.Errorf("店主销售不应产生佣金，得到%.2f", sale.TotalCommission)
	}
	if !sale.CommissionPaid {
		t.Error("店主销售应立即标记为已结算")
	}
	if sale.TotalAmount != 55 {
		t.Errorf("期望总金额55，得到%.2f", sale.TotalAmount)
	}
	if sale.CollaboratorID != owner.ID {
		t.Errorf("销售应归属店主，得到协作者%d", sale.CollaboratorID)
	}
}

func TestCreateVIPSaleForbiddenForTeam(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)

	resp := doRequest(t, app, "POST", "/api/vip/sales", models.CreateVIPSaleRequest{
		Type:   "service",
		ItemID: service.ID,
		Price:  55,
	}, collaborator.ID)

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("非店主访问VIP通道应被拒绝，得到状态码%d", resp.StatusCode)
	}
}

func TestDeleteSaleCascadesItems(t *testing.T) {
	app := newTestApp(t)

	owner := createCollaborator(t, "Dono", 50, true)
	collaborator := createCollaborator(t, "Carlos", 50, false)
	service := createService(t, "Corte", 40)

	resp := doRequest(t, app, "POST", "/api/sales", models.CreateSaleRequest{
		Items: []models.LineItem{{Type: "service", ID: service.ID}},
	}, collaborator.ID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("期望状态码201，得到%d", resp.StatusCode)
	}

	var sale models.Sale
	if err := database.GetDB().First(&sale).Error; err != nil {
		t.Fatalf("查询销售记录失败: %v", err)
	}

	resp = doRequest(t, app, "DELETE", "/api/sales/"+itoa(sale.ID), nil, owner.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望状态码200，得到%d", resp.StatusCode)
	}

	var saleCount, itemCount int64
	database.GetDB().Model(&models.Sale{}).Count(&saleCount)
	database.GetDB().Model(&models.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Errorf("级联删除不完整: %d条销售，%d条行项目", saleCount, itemCount)
	}
}
