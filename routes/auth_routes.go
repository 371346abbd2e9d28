package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
)

// SetupAuthRoutes 注册认证相关路由
func SetupAuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	// 协作者通过魔法链接登录
	auth.Post("/login", handlers.MagicLinkLogin)

	// 店主密码登录
	auth.Post("/admin/login", handlers.AdminLogin)

	// 注销当前令牌
	auth.Post("/logout", handlers.Logout)
}
