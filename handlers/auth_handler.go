package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
	"barber_pos/utils"
)

// 令牌有效期
const tokenDuration = 24 * time.Hour

// MagicLinkLoginRequest 魔法链接登录的请求参数
// token是协作者建档时生成的UUID访问令牌，password是协作者的登录密码
type MagicLinkLoginRequest struct {
	Token    string `json:"token" validate:"required"`    // 魔法链接令牌
	Password string `json:"password" validate:"required"` // 登录密码
}

// PasswordLoginRequest 店主密码登录的请求参数
type PasswordLoginRequest struct {
	Name     string `json:"name" validate:"required"`     // 姓名
	Password string `json:"password" validate:"required"` // 密码
}

// issueToken 为协作者签发JWT令牌并落库
// 令牌同时存在数据库中，注销时删除对应记录即可使其失效
func issueToken(c *fiber.Ctx, collaborator *models.Collaborator) (string, error) {
	tokenString, err := utils.GenerateToken(collaborator.ID, collaborator.Name, collaborator.IsOwner, tokenDuration)
	if err != nil {
		return "", err
	}

	record := models.CollaboratorToken{
		CollaboratorID: collaborator.ID,
		Token:          tokenString,
		UserAgent:      c.Get("User-Agent"),
		IP:             c.IP(),
		ExpiredAt:      time.Now().Add(tokenDuration),
	}
	if err := database.GetDB().Create(&record).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// MagicLinkLogin 协作者通过魔法链接登录
// 令牌定位协作者，密码确认身份；失败次数过多会按令牌锁定一段时间
func MagicLinkLogin(c *fiber.Ctx) error {
	// 解析请求数据
	var req MagicLinkLoginRequest
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

	// 检查是否被锁定
	limiterKey := "magic:" + req.Token
	if locked, remaining := utils.DefaultLoginLimiter.IsLocked(limiterKey); locked {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fmt.Sprintf("登录失败次数过多，请%d分钟后再试", remaining),
		})
	}

	// 按魔法链接令牌查找在职协作者
	var collaborator models.Collaborator
	if err := database.GetDB().Where("token = ? AND active = ?", req.Token, true).
		First(&collaborator).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.DefaultLoginLimiter.RecordFailedLogin(limiterKey)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "链接无效或协作者已离职",
			})
		}
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	// 验证密码
	if !collaborator.CheckPassword(req.Password) {
		if locked, remaining := utils.DefaultLoginLimiter.RecordFailedLogin(limiterKey); locked {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fmt.Sprintf("登录失败次数过多，账号已被锁定%d分钟", remaining),
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "密码错误",
		})
	}

	// 登录成功，重置失败计数
	utils.DefaultLoginLimiter.ResetAttempts(limiterKey)

	// 签发令牌
	tokenString, err := issueToken(c, &collaborator)
	if err != nil {
		logrus.Errorf("签发令牌失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "签发令牌失败",
		})
	}

	logrus.Infof("协作者 %s 登录成功", collaborator.Name)

	return c.JSON(fiber.Map{
		"message": "登录成功",
		"token":   tokenString,
		"data":    collaborator,
	})
}

// AdminLogin 店主密码登录
// 只有标记为店主的协作者可以通过该入口登录，失败次数按姓名锁定
func AdminLogin(c *fiber.Ctx) error {
	// 解析请求数据
	var req PasswordLoginRequest
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

	// 检查是否被锁定
	limiterKey := "admin:" + req.Name
	if locked, remaining := utils.DefaultLoginLimiter.IsLocked(limiterKey); locked {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fmt.Sprintf("登录失败次数过多，请%d分钟后再试", remaining),
		})
	}

	// 查找店主
	var collaborator models.Collaborator
	if err := database.GetDB().
		Where("name = ? AND is_owner = ? AND active = ?", req.Name, true, true).
		First(&collaborator).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.DefaultLoginLimiter.RecordFailedLogin(limiterKey)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "用户名或密码错误",
			})
		}
		logrus.Errorf("查询店主失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询店主失败",
		})
	}

	// 验证密码
	if !collaborator.CheckPassword(req.Password) {
		if locked, remaining := utils.DefaultLoginLimiter.RecordFailedLogin(limiterKey); locked {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fmt.Sprintf("登录失败次数过多，账号已被锁定%d分钟", remaining),
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "用户名或密码错误",
		})
	}

	// 登录成功，重置失败计数
	utils.DefaultLoginLimiter.ResetAttempts(limiterKey)

	// 签发令牌
	tokenString, err := issueToken(c, &collaborator)
	if err != nil {
		logrus.Errorf("签发令牌失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "签发令牌失败",
		})
	}

	logrus.Infof("店主 %s 登录成功", collaborator.Name)

	return c.JSON(fiber.Map{
		"message": "登录成功",
		"token":   tokenString,
		"data":    collaborator,
	})
}

// Logout 注销当前令牌
// 从数据库删除令牌记录，使其立即失效（即使JWT本身还在有效期内）
func Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if len(authHeader) <= 7 || authHeader[:7] != "Bearer " {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "未提供有效的认证令牌",
		})
	}
	tokenString := authHeader[7:]

	if err := database.GetDB().Where("token = ?", tokenString).
		Delete(&models.CollaboratorToken{}).Error; err != nil {
		logrus.Errorf("注销令牌失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "注销令牌失败",
		})
	}

	return c.JSON(fiber.Map{
		"message": "注销成功",
	})
}
