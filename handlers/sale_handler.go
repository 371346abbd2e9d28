package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/utils"
)

// CreateSale 记录一笔销售
// 操作者上下文由认证中间件提供：销售归属当前登录的协作者
// 佣金规则：
//   - 服务行：佣金 = 价格 × 协作者当前佣金比例/100（比例取销售时刻的值并冻结在行项目上）
//   - 产品行：佣金 = 产品的固定佣金金额，与价格和利润无关；
//     库存大于0时扣减1，库存已为0时照常销售且不扣减（沿用既有行为，见行内说明）
//
// 整个操作在单个事务中完成：任何错误都不会留下部分写入
func CreateSale(c *fiber.Ctx) error {
	// 从上下文中获取协作者ID
	collaboratorID, ok := c.Locals("collaborator_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "未找到协作者身份信息",
		})
	}

	// 解析请求数据
	var req models.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	// 验证请求参数
	// 空行项目列表和未知的行项目类型在这里被提前拒绝
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数验证失败: " + err.Error(),
		})
	}

	// 查询协作者，取销售时刻的佣金比例
	var collaborator models.Collaborator
	if err := database.GetDB().First(&collaborator, collaboratorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "协作者不存在",
			})
		}
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	// 设置默认支付方式
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Dinheiro"
	}

	// 开始事务
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		logrus.Errorf("开始事务失败: %v", tx.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "开始事务失败",
		})
	}

	// 先创建销售记录以获得ID，总额在处理完行项目后回填
	sale := models.Sale{
		CollaboratorID: collaborator.ID,
		Date:           time.Now(),
		ClientName:     req.ClientName,
		PaymentMethod:  paymentMethod,
	}

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建销售记录失败",
		})
	}

	// 逐行处理行项目，累计总金额和总佣金
	var total, totalCommission float64
	items := make([]models.SaleItem, 0, len(req.Items))

	for _, line := range req.Items {
		switch line.Type {
		case models.LineItemService:
			// 服务行：按协作者当前比例计算佣金并冻结
			var svc models.Service
			if err := tx.First(&svc, line.ID).Error; err != nil {
				tx.Rollback()
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

			commission := svc.Price * (collaborator.CommissionPercent / 100.0)
			serviceID := svc.ID
			item := models.SaleItem{
				SaleID:     sale.ID,
				ServiceID:  &serviceID,
				ItemName:   svc.Name,
				Price:      svc.Price,
				Commission: commission,
			}

			if err := tx.Create(&item).Error; err != nil {
				tx.Rollback()
				logrus.Errorf("创建销售行项目失败: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "创建销售行项目失败",
				})
			}

			total += svc.Price
			totalCommission += commission
			items = append(items, item)

		case models.LineItemProduct:
			// 产品行：固定金额佣金
			var prod models.Product
			if err := tx.First(&prod, line.ID).Error; err != nil {
				tx.Rollback()
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

			// 库存大于0时扣减1
			// 库存已为0时不扣减也不报错，产品照常卖出并产生佣金——
			// 这是既有的业务行为（视为允许超卖），刻意保留
			if prod.Quantity > 0 {
				if err := tx.Model(&models.Product{}).Where("id = ?", prod.ID).
					UpdateColumn("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
					tx.Rollback()
					logrus.Errorf("扣减库存失败: %v", err)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"error": "扣减库存失败",
					})
				}
			}

			productID := prod.ID
			item := models.SaleItem{
				SaleID:     sale.ID,
				ProductID:  &productID,
				ItemName:   prod.Name,
				Price:      prod.Price,
				Commission: prod.CommissionFixedValue,
			}

			if err := tx.Create(&item).Error; err != nil {
				tx.Rollback()
				logrus.Errorf("创建销售行项目失败: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "创建销售行项目失败",
				})
			}

			total += prod.Price
			totalCommission += prod.CommissionFixedValue
			items = append(items, item)
		}
	}

	// 回填销售总额和总佣金
	if err := tx.Model(&models.Sale{}).Where("id = ?", sale.ID).
		UpdateColumns(map[string]interface{}{
			"total_amount":     total,
			"total_commission": totalCommission,
		}).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("更新销售总额失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新销售总额失败",
		})
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logrus.Errorf("提交事务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "提交事务失败",
		})
	}

	sale.TotalAmount = total
	sale.TotalCommission = totalCommission
	sale.Items = items

	// 返回创建成功的销售记录
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "销售记录创建成功",
		"data":    sale,
	})
}

// CreateVIPSale 店主（VIP通道）记录一笔销售
// 店主不参与工资结算：佣金恒为0，且销售立即标记为已结算
// 价格由表单提交，店主可以自由定价
func CreateVIPSale(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateVIPSaleRequest
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

	// 查找店主档案
	var owner models.Collaborator
	if err := database.GetDB().Where("is_owner = ?", true).First(&owner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "未找到店主档案，请先创建协作者并标记为店主",
			})
		}
		logrus.Errorf("查询店主失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询店主失败",
		})
	}

	// 设置默认支付方式
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Dinheiro"
	}

	// 开始事务
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		logrus.Errorf("开始事务失败: %v", tx.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "开始事务失败",
		})
	}

	// 店主销售不产生佣金，且直接视为已结算
	sale := models.Sale{
		CollaboratorID:  owner.ID,
		Date:            time.Now(),
		TotalAmount:     req.Price,
		TotalCommission: 0,
		ClientName:      req.ClientName,
		PaymentMethod:   paymentMethod,
		CommissionPaid:  true,
	}

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建VIP销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建VIP销售记录失败",
		})
	}

	// 行项目快照，佣金为0
	var item models.SaleItem
	if req.Type == models.LineItemService {
		var svc models.Service
		if err := tx.First(&svc, req.ItemID).Error; err != nil {
			tx.Rollback()
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
		serviceID := svc.ID
		item = models.SaleItem{
			SaleID:     sale.ID,
			ServiceID:  &serviceID,
			ItemName:   svc.Name,
			Price:      req.Price,
			Commission: 0,
		}
	} else {
		var prod models.Product
		if err := tx.First(&prod, req.ItemID).Error; err != nil {
			tx.Rollback()
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
		productID := prod.ID
		item = models.SaleItem{
			SaleID:     sale.ID,
			ProductID:  &productID,
			ItemName:   prod.Name,
			Price:      req.Price,
			Commission: 0,
		}
	}

	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建销售行项目失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建销售行项目失败",
		})
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logrus.Errorf("提交事务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "提交事务失败",
		})
	}

	sale.Items = []models.SaleItem{item}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "VIP销售记录创建成功",
		"data":    sale,
	})
}

// GetAllSales 获取销售记录列表
// 支持按协作者筛选和分页，按销售时间倒序返回
func GetAllSales(c *fiber.Ctx) error {
	// 解析查询参数
	var query models.SaleQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "查询参数解析失败: " + err.Error(),
		})
	}

	// 设置默认分页参数
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 10
	}

	// 构建查询
	db := database.GetDB().Model(&models.Sale{})
	if query.CollaboratorID != 0 {
		db = db.Where("collaborator_id = ?", query.CollaboratorID)
	}

	// 计算总数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		logrus.Errorf("计算销售记录总数失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "计算销售记录总数失败",
		})
	}

	// 获取分页数据
	var sales []models.Sale
	offset := (query.Page - 1) * query.PageSize
	if err := db.Preload("Items").Order("date DESC").
		Offset(offset).Limit(query.PageSize).Find(&sales).Error; err != nil {
		logrus.Errorf("获取销售记录列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取销售记录列表失败",
		})
	}

	// 返回结果
	return c.JSON(fiber.Map{
		"total": total,
		"page":  query.Page,
		"size":  query.PageSize,
		"data":  sales,
	})
}

// DeleteSale 删除销售记录
// 销售拥有其行项目：先删行项目再删销售（手动级联），整个操作在一个事务中
func DeleteSale(c *fiber.Ctx) error {
	// 获取销售ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的销售ID",
		})
	}

	// 查询销售记录
	var sale models.Sale
	if err := database.GetDB().First(&sale, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "销售记录不存在",
			})
		}
		logrus.Errorf("查询销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询销售记录失败",
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

	// 先删除行项目（手动级联）
	if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("删除销售行项目失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除销售行项目失败",
		})
	}

	// 删除销售记录
	if err := tx.Delete(&sale).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("删除销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除销售记录失败",
		})
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logrus.Errorf("提交事务失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "提交事务失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "销售记录删除成功",
	})
}
