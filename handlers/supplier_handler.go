package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/utils"
)

// CreateSupplier 创建供应商
// 当前欠款余额缺省时取建档欠款
func CreateSupplier(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	// 验证请求参数
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数验证失败: " + err.Error(),
		})
	}

	// 当前余额缺省时取建档欠款
	currentBalance := req.CurrentBalance
	if currentBalance == 0 {
		currentBalance = req.InitialDebt
	}

	supplier := models.Supplier{
		Name:           req.Name,
		InitialDebt:    req.InitialDebt,
		CurrentBalance: currentBalance,
	}

	if err := database.GetDB().Create(&supplier).Error; err != nil {
		logrus.Errorf("创建供应商失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建供应商失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "供应商创建成功",
		"data":    supplier,
	})
}

// GetAllSuppliers 获取供应商列表及欠款总额
func GetAllSuppliers(c *fiber.Ctx) error {
	var suppliers []models.Supplier
	if err := database.GetDB().Order("name ASC").Find(&suppliers).Error; err != nil {
		logrus.Errorf("获取供应商列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取供应商列表失败",
		})
	}

	// 汇总当前欠款总额
	var totalDebt float64
	for _, s := range suppliers {
		totalDebt += s.CurrentBalance
	}

	return c.JSON(fiber.Map{
		"total":      len(suppliers),
		"total_debt": totalDebt,
		"data":       suppliers,
	})
}

// GetSupplierStatement 获取供应商对账单
// 返回供应商信息、关联产品的进货记录和付款历史
func GetSupplierStatement(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的供应商ID",
		})
	}

	var supplier models.Supplier
	if err := database.GetDB().Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC")
	}).First(&supplier, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "供应商不存在",
			})
		}
		logrus.Errorf("查询供应商失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询供应商失败",
		})
	}

	// 关联该供应商的进货产品
	var products []models.Product
	if err := database.GetDB().Where("supplier_id = ?", supplier.ID).
		Order("created_at DESC").Find(&products).Error; err != nil {
		logrus.Errorf("查询供应商产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询供应商产品失败",
		})
	}

	// 累计已付总额
	var totalPaid float64
	for _, p := range supplier.Payments {
		totalPaid += p.Amount
	}

	return c.JSON(fiber.Map{
		"supplier":   supplier,
		"products":   products,
		"total_paid": totalPaid,
	})
}

// CreateSupplierPayment 登记一笔供应商付款
// 付款减少供应商的当前欠款，余额下限为0：
// 超额付款被吸收，不会产生负欠款或信用额
// 付款记录和余额更新在同一个事务中完成
func CreateSupplierPayment(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateSupplierPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	// 验证请求参数
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数验证失败: " + err.Error(),
		})
	}

	// 查询供应商
	var supplier models.Supplier
	if err := database.GetDB().First(&supplier, req.SupplierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "供应商不存在",
			})
		}
		logrus.Errorf("查询供应商失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询供应商失败",
		})
	}

	// 开始事务
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		logrus.Errorf("开始事务失败: %v", tx.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "开始事务失败",
		})
	}

	// 创建付款记录
	payment := models.SupplierPayment{
		SupplierID:  supplier.ID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建付款记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建付款记录失败",
		})
	}

	// 更新欠款余额，下限为0
	supplier.ApplyPayment(req.Amount)
	if err := tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).
		UpdateColumn("current_balance", supplier.CurrentBalance).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("更新供应商欠款失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新供应商欠款失败",
		})
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logrus.Errorf("提交事务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "提交事务失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "付款登记成功",
		"data": fiber.Map{
			"payment":         payment,
			"current_balance": supplier.CurrentBalance,
		},
	})
}

// DeleteSupplier 删除供应商
// 有未结清欠款的供应商不允许删除
func DeleteSupplier(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的供应商ID",
		})
	}

	var supplier models.Supplier
	if err := database.GetDB().First(&supplier, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "供应商不存在",
			})
		}
		logrus.Errorf("查询供应商失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询供应商失败",
		})
	}

	if supplier.CurrentBalance > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "该供应商还有未结清的欠款，不能删除",
		})
	}

	if err := database.GetDB().Delete(&supplier).Error; err != nil {
		logrus.Errorf("删除供应商失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除供应商失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "供应商删除成功",
	})
}
