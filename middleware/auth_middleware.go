package middleware

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

// CollaboratorAuthMiddleware 验证协作者身份的中间件
// 该中间件负责处理所有需要协作者身份验证的路由请求
// 支持两种认证方式:
//  1. JWT令牌认证 - 通过Authorization头的Bearer令牌
//  2. 兼容模式 - 通过X-Collaborator-ID头直接指定协作者ID（主要用于测试和旧版本兼容）
//
// 认证成功后，会将协作者的显式操作者上下文（ID、姓名、是否店主）
// 存储在请求上下文中，供后续的账本操作使用
func CollaboratorAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 从请求头获取Authorization
		authHeader := c.Get("Authorization")

		// 如果没有Authorization头，尝试从X-Collaborator-ID获取（用于兼容旧版本和测试）
		if authHeader == "" || len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			collaboratorIDStr := c.Get("X-Collaborator-ID")

			if collaboratorIDStr == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "未提供有效的认证令牌",
				})
			}

			// 将ID转换为整数
			collaboratorID, err := strconv.Atoi(collaboratorIDStr)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "无效的协作者ID",
				})
			}

			// 查询协作者信息
			// 验证协作者是否存在且在职
			var collaborator models.Collaborator
			if err := database.GetDB().Where("id = ? AND active = ?", collaboratorID, true).First(&collaborator).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "协作者不存在或已离职",
					})
				}
				logrus.Errorf("验证协作者身份失败: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "验证协作者身份失败",
				})
			}

			// 将协作者信息存储在上下文中，供后续处理函数使用
			c.Locals("collaborator_id", collaborator.ID)
			c.Locals("collaborator_name", collaborator.Name)
			c.Locals("is_owner", collaborator.IsOwner)

			return c.Next()
		}

		// 从Authorization头中提取令牌
		tokenString := authHeader[7:]

		// 解析令牌
		// 验证JWT令牌的签名并提取声明信息
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "无效的认证令牌",
			})
		}

		// 检查令牌是否存在于数据库
		// 确保令牌未被撤销且仍然有效
		var token models.CollaboratorToken
		if err := database.GetDB().Where("token = ?", tokenString).First(&token).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "认证令牌不存在",
				})
			}
			logrus.Errorf("验证认证令牌失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "验证认证令牌失败",
			})
		}

		// 检查令牌是否已过期
		// 即使JWT本身未过期，也需检查数据库中的过期时间
		if time.Now().After(token.ExpiredAt) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "认证令牌已过期",
			})
		}

		// 查询协作者信息
		// 验证协作者是否存在且在职
		var collaborator models.Collaborator
		if err := database.GetDB().Where("id = ? AND active = ?", claims.CollaboratorID, true).First(&collaborator).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "协作者不存在或已离职",
				})
			}
			logrus.Errorf("验证协作者身份失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "验证协作者身份失败",
			})
		}

		// 将协作者信息存储在上下文中，供后续处理函数使用
		c.Locals("collaborator_id", collaborator.ID)
		c.Locals("collaborator_name", collaborator.Name)
		c.Locals("is_owner", collaborator.IsOwner)

		return c.Next()
	}
}

// OwnerOnlyMiddleware 验证店主（管理员）范围的中间件
// 必须注册在CollaboratorAuthMiddleware之后，
// 在操作者上下文已填充的前提下检查is_owner标记
func OwnerOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isOwner, ok := c.Locals("is_owner").(bool)
		if !ok || !isOwner {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "仅店主可以访问该接口",
			})
		}

		return c.Next()
	}
}
