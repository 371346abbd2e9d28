package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/routes"
)

// newTestApp 创建测试用的应用实例
// 使用内存SQLite数据库替代MySQL，每个测试用独立的数据库名避免互相污染
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Service{},
		&models.Supplier{},
		&models.Product{},
		&models.Collaborator{},
		&models.CollaboratorToken{},
		&models.Sale{},
		&models.SaleItem{},
		&models.CashAdvance{},
		&models.PaymentRecord{},
		&models.SupplierPayment{},
		&models.Expense{},
	); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	database.SetDB(db)

	app := fiber.New()
	routes.SetupRoutes(app)
	return app
}

// createCollaborator 创建测试用协作者
func createCollaborator(t *testing.T, name string, commissionPercent float64, isOwner bool) *models.Collaborator {
	t.Helper()

	collaborator := models.Collaborator{
		Name:              name,
		CommissionPercent: commissionPercent,
		Active:            true,
		IsOwner:           isOwner,
		Token:             "token-" + name,
	}
	if err := collaborator.SetPassword("senha123"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if err := database.GetDB().Create(&collaborator).Error; err != nil {
		t.Fatalf("创建协作者失败: %v", err)
	}
	return &collaborator
}

// doRequest 发送测试请求
// 通过X-Collaborator-ID头指定操作者身份，collaboratorID为0时不带身份
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, collaboratorID uint) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if collaboratorID != 0 {
		req.Header.Set("X-Collaborator-ID", strconv.Itoa(int(collaboratorID)))
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("发送测试请求失败: %v", err)
	}
	return resp
}

// itoa 把ID转成路径参数
func itoa(id uint) string {
	return strconv.Itoa(int(id))
}

// decodeBody 解析响应体
func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("解析响应体失败: %v", err)
	}
}
