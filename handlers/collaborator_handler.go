package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/services"
	"barber_pos/utils"
)

// CreateCollaborator 创建新协作者
// 自动生成魔法链接令牌（UUID），密码用bcrypt加密存储
// 创建成功后尽力向协作者的手机发送带登录链接的欢迎消息，
// 消息发送失败只记录警告，不影响创建结果
func CreateCollaborator(c *fiber.Ctx) error {
	// 解析请求数据
	var req models.CreateCollaboratorRequest
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

	// 设置默认佣金比例
	commissionPercent := req.CommissionPercent
	if commissionPercent == 0 {
		commissionPercent = 50
	}

	// 设置在职状态，默认在职
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	collaborator := models.Collaborator{
		Name:              req.Name,
		Phone:             req.Phone,
		CommissionPercent: commissionPercent,
		Active:            active,
		IsOwner:           req.IsOwner,
		Token:             uuid.NewString(),
	}

	// 加密初始密码
	if err := collaborator.SetPassword(req.Password); err != nil {
		logrus.Errorf("加密密码失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "加密密码失败",
		})
	}

	// 保存到数据库
	if err := database.GetDB().Create(&collaborator).Error; err != nil {
		logrus.Errorf("创建协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建协作者失败",
		})
	}

	// 尽力发送欢迎消息，失败降级为警告
	if collaborator.Phone != "" {
		if err := services.SendWelcomeMessage(&collaborator, req.Password); err != nil {
			logrus.Warnf("发送欢迎消息失败: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "协作者创建成功",
		"data":    collaborator,
	})
}

// GetAllCollaborators 获取协作者列表
// 支持按姓名模糊查询、在职状态和店主标记筛选，以及分页
func GetAllCollaborators(c *fiber.Ctx) error {
	// 解析查询参数
	var query models.CollaboratorQuery
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
	db := database.GetDB().Model(&models.Collaborator{})
	if query.Name != "" {
		db = db.Where("name LIKE ?", "%"+query.Name+"%")
	}
	if query.Active != nil {
		db = db.Where("active = ?", *query.Active)
	}
	if query.IsOwner != nil {
		db = db.Where("is_owner = ?", *query.IsOwner)
	}

	// 计算总数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		logrus.Errorf("计算协作者总数失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "计算协作者总数失败",
		})
	}

	// 获取分页数据
	var collaborators []models.Collaborator
	offset := (query.Page - 1) * query.PageSize
	if err := db.Order("name ASC").Offset(offset).Limit(query.PageSize).
		Find(&collaborators).Error; err != nil {
		logrus.Errorf("获取协作者列表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取协作者列表失败",
		})
	}

	return c.JSON(fiber.Map{
		"total": total,
		"page":  query.Page,
		"size":  query.PageSize,
		"data":  collaborators,
	})
}

// GetCollaborator 获取单个协作者详情
func GetCollaborator(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

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

	return c.JSON(fiber.Map{
		"data": collaborator,
	})
}

// GetCollaboratorBalance 获取协作者的当前未结算余额
// 余额 = 未结算销售的佣金总和 - 未抵扣预支的金额总和，可以为负
func GetCollaboratorBalance(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

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

	balance, err := collaborator.Balance(database.GetDB())
	if err != nil {
		logrus.Errorf("计算协作者余额失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "计算协作者余额失败",
		})
	}

	return c.JSON(fiber.Map{
		"collaborator_id": collaborator.ID,
		"name":            collaborator.Name,
		"balance":         balance,
	})
}

// UpdateCollaborator 更新协作者信息
// 可更新姓名、电话、佣金比例、在职状态和店主标记
// 佣金比例的修改只影响之后的销售，已有行项目上的佣金快照不变
func UpdateCollaborator(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

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

	// 解析更新字段
	var req struct {
		Name              *string  `json:"name"`
		Phone             *string  `json:"phone"`
		CommissionPercent *float64 `json:"commission_percent"`
		Active            *bool    `json:"active"`
		IsOwner           *bool    `json:"is_owner"`
		Password          *string  `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	if req.Name != nil {
		collaborator.Name = *req.Name
	}
	if req.Phone != nil {
		collaborator.Phone = *req.Phone
	}
	if req.CommissionPercent != nil {
		if *req.CommissionPercent < 0 || *req.CommissionPercent > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "佣金比例必须在0到100之间",
			})
		}
		collaborator.CommissionPercent = *req.CommissionPercent
	}
	if req.Active != nil {
		collaborator.Active = *req.Active
	}
	if req.IsOwner != nil {
		collaborator.IsOwner = *req.IsOwner
	}
	if req.Password != nil && *req.Password != "" {
		if err := collaborator.SetPassword(*req.Password); err != nil {
			logrus.Errorf("加密密码失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "加密密码失败",
			})
		}
	}

	if err := database.GetDB().Save(&collaborator).Error; err != nil {
		logrus.Errorf("更新协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "更新协作者失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "协作者更新成功",
		"data":    collaborator,
	})
}

// DeleteCollaborator 停用协作者（软删除）
// 不做物理删除：协作者名下挂着销售和结算的历史账目，
// 只把在职状态置为false，停用后无法再登录或记录销售
func DeleteCollaborator(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的协作者ID",
		})
	}

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

	if err := database.GetDB().Model(&collaborator).
		UpdateColumn("active", false).Error; err != nil {
		logrus.Errorf("停用协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "停用协作者失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "协作者已停用",
	})
}
