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

// CreateAdvance 登记一笔现金预支
// 预支会在协作者的下一次结算中从佣金里扣除
func CreateAdvance(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateAdvanceRequest
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

	// 确认协作者存在且在职
	var collaborator models.Collaborator
	if err := database.GetDB().Where("id = ? AND active = ?", req.CollaboratorID, true).
		First(&collaborator).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "协作者不存在或已离职",
			})
		}
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	advance := models.CashAdvance{
		CollaboratorID: collaborator.ID,
		Amount:         req.Amount,
		Description:    req.Description,
		Date:           time.Now(),
	}

	if err := database.GetDB().Create(&advance).Error; err != nil {
		logrus.Errorf("登记预支失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "登记预支失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "预支登记成功",
		"data":    advance,
	})
}

// GetAllAdvances 获取预支列表
// 支持按协作者和抵扣状态筛选
func GetAllAdvances(c *fiber.Ctx) error {
	db := database.GetDB().Model(&models.CashAdvance{})

	if idStr := c.Query("collaborator_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "无效的协作者ID",
			})
		}
		db = db.Where("collaborator_id = ?", id)
	}

	if paidStr := c.Query("is_paid"); paidStr != "" {
		paid, err := strconv.ParseBool(paidStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "无效的抵扣状态",
			})
		}
		db = db.Where("is_paid = ?", paid)
	}

	var advances []models.CashAdvance
	if err := db.Order("date DESC").Find(&advances).Error; err != nil {
		logrus.Errorf("获取预支列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取预支列表失败",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(advances),
		"data":  advances,
	})
}

// DeleteAdvance 删除预支记录
// 只允许删除未抵扣的预支：已归入结算的预支是账目的一部分，不可删除
func DeleteAdvance(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的预支ID",
		})
	}

	var advance models.CashAdvance
	if err := database.GetDB().First(&advance, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "预支记录不存在",
			})
		}
		logrus.Errorf("查询预支记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询预支记录失败",
		})
	}

	if advance.IsPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "该预支已在结算中扣除，不能删除",
		})
	}

	if err := database.GetDB().Delete(&advance).Error; err != nil {
		logrus.Errorf("删除预支记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除预支记录失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "预支记录删除成功",
	})
}
