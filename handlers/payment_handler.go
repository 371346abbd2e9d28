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

// GetPendingPayment 获取协作者的待结算预览
// 返回未结算的销售、未抵扣的预支以及应付净额，用于店主在确认结算前核对
func GetPendingPayment(c *fiber.Ctx) error {
	// 获取协作者ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

	// 查询协作者
	var collaborator models.Collaborator
	if err := database.GetDB().First(&collaborator, id).Error; err != nil {
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

	// 查询未结算的销售
	var sales []models.Sale
	if err := database.GetDB().Preload("Items").
		Where("collaborator_id = ? AND commission_paid = ?", collaborator.ID, false).
		Order("date ASC").Find(&sales).Error; err != nil {
		logrus.Errorf("查询未结算销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询未结算销售失败",
		})
	}

	// 查询未抵扣的预支
	var advances []models.CashAdvance
	if err := database.GetDB().
		Where("collaborator_id = ? AND is_paid = ?", collaborator.ID, false).
		Order("date ASC").Find(&advances).Error; err != nil {
		logrus.Errorf("查询未抵扣预支失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询未抵扣预支失败",
		})
	}

	// 累计总佣金和总预支
	var totalCommission, totalAdvances float64
	for _, s := range sales {
		totalCommission += s.TotalCommission
	}
	for _, a := range advances {
		totalAdvances += a.Amount
	}

	return c.JSON(fiber.Map{
		"collaborator":     collaborator,
		"sales":            sales,
		"advances":         advances,
		"total_commission": totalCommission,
		"total_advances":   totalAdvances,
		"net_amount":       totalCommission - totalAdvances,
	})
}

// ConfirmPayment 确认结算，关闭协作者当前的结算周期
// 把该协作者所有未结算的销售和未抵扣的预支一次性归入一条结算记录：
//   - 净额 = 总佣金 - 总预支；净额为负时拒绝结算，差额需要线下处理
//   - 周期起止取这批销售日期的最小值和最大值（只有预支没有销售时都取当前时间）
//   - 没有任何待结算项时拒绝操作
//
// 全部标记和结算记录的创建在同一个事务中完成，要么全部生效要么全部回滚
func ConfirmPayment(c *fiber.Ctx) error {
	// 获取协作者ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

	// 查询协作者
	var collaborator models.Collaborator
	if err := database.GetDB().First(&collaborator, id).Error; err != nil {
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

	// 获取操作者姓名，记录在结算凭证上
	adminName, _ := c.Locals("collaborator_name").(string)
	if adminName == "" {
		adminName = "Administrador"
	}

	// 开始事务
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		logrus.Errorf("开始事务失败: %v", tx.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "开始事务失败",
		})
	}

	// 在事务内重新查询待结算项，避免与并发写入产生竞态
	var sales []models.Sale
	if err := tx.Where("collaborator_id = ? AND commission_paid = ?", collaborator.ID, false).
		Find(&sales).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("查询未结算销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询未结算销售失败",
		})
	}

	var advances []models.CashAdvance
	if err := tx.Where("collaborator_id = ? AND is_paid = ?", collaborator.ID, false).
		Find(&advances).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("查询未抵扣预支失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询未抵扣预支失败",
		})
	}

	// 累计金额，周期起止只看销售日期
	var totalCommission, totalAdvances float64
	var startDate, endDate time.Time

	for _, s := range sales {
		totalCommission += s.TotalCommission
		if startDate.IsZero() || s.Date.Before(startDate) {
			startDate = s.Date
		}
		if endDate.IsZero() || s.Date.After(endDate) {
			endDate = s.Date
		}
	}
	for _, a := range advances {
		totalAdvances += a.Amount
	}

	// 两项合计都为0时没有可结算的金额，拒绝结算（零佣金销售不产生空结算单）
	if totalCommission == 0 && totalAdvances == 0 {
		tx.Rollback()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "该协作者没有待结算的销售或预支",
		})
	}

	// 只有预支没有销售时，周期起止都取当前时间
	if len(sales) == 0 {
		now := time.Now()
		startDate = now
		endDate = now
	}

	// 预支超过佣金时拒绝结算，不改变任何状态
	if totalCommission-totalAdvances < 0 {
		tx.Rollback()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "预支金额超过了待结算佣金，不能结算，请先线下处理差额",
		})
	}

	// 创建结算记录
	record := models.PaymentRecord{
		CollaboratorID:  collaborator.ID,
		ReceiptNo:       utils.GenerateReceiptNo(),
		StartDate:       startDate,
		EndDate:         endDate,
		TotalCommission: totalCommission,
		TotalAdvances:   totalAdvances,
		NetAmount:       totalCommission - totalAdvances,
		AdminName:       adminName,
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("创建结算记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建结算记录失败",
		})
	}

	// 把所有销售标记为已结算并关联到结算记录
	if len(sales) > 0 {
		saleIDs := make([]uint, 0, len(sales))
		for _, s := range sales {
			saleIDs = append(saleIDs, s.ID)
		}
		if err := tx.Model(&models.Sale{}).Where("id IN ?", saleIDs).
			UpdateColumns(map[string]interface{}{
				"commission_paid":   true,
				"payment_record_id": record.ID,
			}).Error; err != nil {
			tx.Rollback()
			logrus.Errorf("标记销售为已结算失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "标记销售为已结算失败",
			})
		}
	}

	// 把所有预支标记为已抵扣并关联到结算记录
	if len(advances) > 0 {
		advanceIDs := make([]uint, 0, len(advances))
		for _, a := range advances {
			advanceIDs = append(advanceIDs, a.ID)
		}
		if err := tx.Model(&models.CashAdvance{}).Where("id IN ?", advanceIDs).
			UpdateColumns(map[string]interface{}{
				"is_paid":           true,
				"payment_record_id": record.ID,
			}).Error; err != nil {
			tx.Rollback()
			logrus.Errorf("标记预支为已抵扣失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "标记预支为已抵扣失败",
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

	logrus.Infof("协作者 %s 结算完成，凭证号 %s，净额 %.2f", collaborator.Name, record.ReceiptNo, record.NetAmount)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "结算确认成功",
		"data":    record,
	})
}

// GetAllPaymentRecords 获取结算记录列表
// 支持按协作者筛选，按结算时间倒序返回
func GetAllPaymentRecords(c *fiber.Ctx) error {
	db := database.GetDB().Model(&models.PaymentRecord{})

	// 按协作者筛选
	if idStr := c.Query("collaborator_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "无效的协作者ID",
			})
		}
		db = db.Where("collaborator_id = ?", id)
	}

	var records []models.PaymentRecord
	if err := db.Order("date DESC").Find(&records).Error; err != nil {
		logrus.Errorf("获取结算记录列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取结算记录列表失败",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(records),
		"data":  records,
	})
}

// GetReceipt 获取结算凭证详情
// 返回结算记录及其关联的销售和预支明细，供店主打印或复核
func GetReceipt(c *fiber.Ctx) error {
	// 获取结算记录ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的结算记录ID",
		})
	}

	// 查询结算记录
	var record models.PaymentRecord
	if err := database.GetDB().First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "结算记录不存在",
			})
		}
		logrus.Errorf("查询结算记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询结算记录失败",
		})
	}

	// 查询协作者
	var collaborator models.Collaborator
	if err := database.GetDB().First(&collaborator, record.CollaboratorID).Error; err != nil {
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	// 查询归入该结算的销售和预支
	var sales []models.Sale
	if err := database.GetDB().Preload("Items").
		Where("payment_record_id = ?", record.ID).
		Order("date ASC").Find(&sales).Error; err != nil {
		logrus.Errorf("查询结算销售明细失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询结算销售明细失败",
		})
	}

	var advances []models.CashAdvance
	if err := database.GetDB().
		Where("payment_record_id = ?", record.ID).
		Order("date ASC").Find(&advances).Error; err != nil {
		logrus.Errorf("查询结算预支明细失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询结算预支明细失败",
		})
	}

	return c.JSON(fiber.Map{
		"record":       record,
		"collaborator": collaborator,
		"sales":        sales,
		"advances":     advances,
	})
}

// GetCollaboratorReport 获取协作者自己的结算历史报告
// 协作者只能查看自己的记录：路径中的ID必须与操作者上下文一致（店主除外）
func GetCollaboratorReport(c *fiber.Ctx) error {
	// 获取协作者ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

	// 非店主只能查看自己的报告
	operatorID, _ := c.Locals("collaborator_id").(uint)
	isOwner, _ := c.Locals("is_owner").(bool)
	if !isOwner && operatorID != uint(id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "只能查看自己的结算报告",
		})
	}

	// 查询协作者
	var collaborator models.Collaborator
	if err := database.GetDB().First(&collaborator, id).Error; err != nil {
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

	// 历史结算记录
	var records []models.PaymentRecord
	if err := database.GetDB().
		Where("collaborator_id = ?", collaborator.ID).
		Order("date DESC").Find(&records).Error; err != nil {
		logrus.Errorf("查询结算记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询结算记录失败",
		})
	}

	// 当前未结清余额
	balance, err := collaborator.Balance(database.GetDB())
	if err != nil {
		logrus.Errorf("计算协作者余额失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "计算协作者余额失败",
		})
	}

	return c.JSON(fiber.Map{
		"collaborator": collaborator,
		"balance":      balance,
		"records":      records,
	})
}

// DeletePaymentRecord 删除结算记录
// 只删除审计记录本身：已结算的销售和已抵扣的预支保持结算状态不变，
// 它们的关联引用被置空。结算是单向操作，删除记录不会把款项退回待结算状态
func DeletePaymentRecord(c *fiber.Ctx) error {
	// 获取结算记录ID
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的结算记录ID",
		})
	}

	// 查询结算记录
	var record models.PaymentRecord
	if err := database.GetDB().First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "结算记录不存在",
			})
		}
		logrus.Errorf("查询结算记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询结算记录失败",
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

	// 置空销售和预支上的关联引用，结算标记保持不变
	if err := tx.Model(&models.Sale{}).Where("payment_record_id = ?", record.ID).
		UpdateColumn("payment_record_id", nil).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("清理销售关联失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "清理销售关联失败",
		})
	}

	if err := tx.Model(&models.CashAdvance{}).Where("payment_record_id = ?", record.ID).
		UpdateColumn("payment_record_id", nil).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("清理预支关联失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "清理预支关联失败",
		})
	}

	// 删除结算记录
	if err := tx.Delete(&record).Error; err != nil {
		tx.Rollback()
		logrus.Errorf("删除结算记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除结算记录失败",
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
		"message": "结算记录删除成功",
	})
}
