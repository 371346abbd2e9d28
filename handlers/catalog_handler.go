package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/utils"
)

// CreateService 创建服务
func CreateService(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateServiceRequest
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

	service := models.Service{
		Name:  req.Name,
		Price: req.Price,
	}

	if err := database.GetDB().Create(&service).Error; err != nil {
		logrus.Errorf("创建服务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建服务失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "服务创建成功",
		"data":    service,
	})
}

// GetAllServices 获取服务列表
func GetAllServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := database.GetDB().Order("name ASC").Find(&services).Error; err != nil {
		logrus.Errorf("获取服务列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取服务列表失败",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(services),
		"data":  services,
	})
}

// UpdateService 更新服务
func UpdateService(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的服务ID",
		})
	}

	var service models.Service
	if err := database.GetDB().First(&service, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "服务不存在",
			})
		}
		logrus.Errorf("查询服务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询服务失败",
		})
	}

	var req models.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数验证失败: " + err.Error(),
		})
	}

	// 价格修改只影响之后的销售，已有行项目上的价格快照不变
	service.Name = req.Name
	service.Price = req.Price

	if err := database.GetDB().Save(&service).Error; err != nil {
		logrus.Errorf("更新服务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新服务失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "服务更新成功",
		"data":    service,
	})
}

// DeleteService 删除服务
// 已售出的行项目存的是快照，删除服务不影响历史账目
func DeleteService(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的服务ID",
		})
	}

	var service models.Service
	if err := database.GetDB().First(&service, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "服务不存在",
			})
		}
		logrus.Errorf("查询服务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询服务失败",
		})
	}

	if err := database.GetDB().Delete(&service).Error; err != nil {
		logrus.Errorf("删除服务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除服务失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "服务删除成功",
	})
}

// CreateProduct 创建产品（进货建档）
// 产品关联供应商时，在同一个事务里完成三笔写入：
//  1. 创建产品记录
//  2. 按 成本价×数量 累计供应商欠款（数量为0按1计，成本价为0不累计）
//  3. 自动登记一笔同金额的进货支出
func CreateProduct(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateProductRequest
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

	// 关联供应商时先确认其存在
	var supplier *models.Supplier
	if req.SupplierID != nil {
		var s models.Supplier
		if err := database.GetDB().First(&s, *req.SupplierID).Error; err != nil {
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
		supplier = &s
	}

	// 开始事务
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		logrus.Errorf("开始事务失败: %v", tx.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "开始事务失败",
		})
	}

	product := models.Product{
		Name:                 req.Name,
		Price:                req.Price,
		CostPrice:            req.CostPrice,
		CommissionFixedValue: req.CommissionFixedValue,
		Quantity:             req.Quantity,
		SupplierID:           req.SupplierID,
		CollaboratorID:       req.CollaboratorID,
	}

	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建产品失败",
		})
	}

	// 关联供应商时累计欠款并登记进货支出（成本为0也登记，金额为0）
	if supplier != nil {
		// 数量为0按1计
		quantity := product.Quantity
		if quantity < 1 {
			quantity = 1
		}
		debt := product.CostPrice * float64(quantity)

		supplier.AccrueDebt(debt)
		if err := tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).
			UpdateColumn("current_balance", supplier.CurrentBalance).Error; err != nil {
			tx.Rollback()
			logrus.Errorf("累计供应商欠款失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "累计供应商欠款失败",
			})
		}

		expense := models.Expense{
			Description: fmt.Sprintf("Compra Estoque: %s (x%d)", product.Name, quantity),
			Amount:      debt,
			Category:    models.ExpenseCategorySupplier,
			Date:        time.Now(),
		}
		if err := tx.Create(&expense).Error; err != nil {
			tx.Rollback()
			logrus.Errorf("登记进货支出失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "登记进货支出失败",
			})
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logrus.Errorf("提交事务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "提交事务失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "产品创建成功",
		"data":    product,
	})
}

// GetAllProducts 获取产品列表
// 附带每个产品的等效佣金百分比和利润数据，供店主定价参考
func GetAllProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := database.GetDB().Order("name ASC").Find(&products).Error; err != nil {
		logrus.Errorf("获取产品列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取产品列表失败",
		})
	}

	data := make([]fiber.Map, 0, len(products))
	for i := range products {
		p := &products[i]
		data = append(data, fiber.Map{
			"product":                       p,
			"equivalent_commission_percent": p.EquivalentCommissionPercent(),
			"gross_profit":                  p.GrossProfit(),
			"net_profit":                    p.NetProfit(),
		})
	}

	return c.JSON(fiber.Map{
		"total": len(products),
		"data":  data,
	})
}

// UpdateProduct 更新产品
// 只更新产品本身的字段，不触发供应商欠款累计（欠款只在建档进货时累计）
func UpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的产品ID",
		})
	}

	var product models.Product
	if err := database.GetDB().First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "产品不存在",
			})
		}
		logrus.Errorf("查询产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询产品失败",
		})
	}

	var req struct {
		Name                 *string  `json:"name"`
		Price                *float64 `json:"price"`
		CostPrice            *float64 `json:"cost_price"`
		CommissionFixedValue *float64 `json:"commission_fixed_value"`
		Quantity             *int     `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "价格必须大于0",
			})
		}
		product.Price = *req.Price
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.CommissionFixedValue != nil {
		product.CommissionFixedValue = *req.CommissionFixedValue
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}

	if err := database.GetDB().Save(&product).Error; err != nil {
		logrus.Errorf("更新产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新产品失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "产品更新成功",
		"data":    product,
	})
}

// DeleteProduct 删除产品
// 已售出的行项目存的是快照，删除产品不影响历史账目
func DeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的产品ID",
		})
	}

	var product models.Product
	if err := database.GetDB().First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "产品不存在",
			})
		}
		logrus.Errorf("查询产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询产品失败",
		})
	}

	if err := database.GetDB().Delete(&product).Error; err != nil {
		logrus.Errorf("删除产品失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除产品失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "产品删除成功",
	})
}
