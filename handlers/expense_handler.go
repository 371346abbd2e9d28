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

// CreateExpense 登记一笔运营支出
func CreateExpense(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateExpenseRequest
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

	// 设置默认类别
	category := req.Category
	if category == "" {
		category = models.ExpenseCategoryGeneral
	}

	expense := models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    category,
		Date:        time.Now(),
	}

	if err := database.GetDB().Create(&expense).Error; err != nil {
		logrus.Errorf("登记支出失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "登记支出失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "支出登记成功",
		"data":    expense,
	})
}

// GetAllExpenses 获取支出列表
// 支持按类别和日期范围筛选
func GetAllExpenses(c *fiber.Ctx) error {
	db := database.GetDB().Model(&models.Expense{})

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}

	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "无效的起始日期，格式应为YYYY-MM-DD",
			})
		}
		db = db.Where("date >= ?", start)
	}

	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "无效的结束日期，格式应为YYYY-MM-DD",
			})
		}
		db = db.Where("date < ?", end.AddDate(0, 0, 1))
	}

	var expenses []models.Expense
	if err := db.Order("date DESC").Find(&expenses).Error; err != nil {
		logrus.Errorf("获取支出列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取支出列表失败",
		})
	}

	// 汇总总额
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}

	return c.JSON(fiber.Map{
		"total":        len(expenses),
		"total_amount": total,
		"data":         expenses,
	})
}

// DeleteExpense 删除支出记录
func DeleteExpense(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的支出ID",
		})
	}

	var expense models.Expense
	if err := database.GetDB().First(&expense, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "支出记录不存在",
			})
		}
		logrus.Errorf("查询支出记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询支出记录失败",
		})
	}

	if err := database.GetDB().Delete(&expense).Error; err != nil {
		logrus.Errorf("删除支出记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "删除支出记录失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "支出记录删除成功",
	})
}
