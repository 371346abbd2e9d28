package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupDashboardRoutes 注册仪表盘相关路由
// 经营仪表盘和财务总控属于店主范围，/me/dashboard对每个协作者开放
func SetupDashboardRoutes(api fiber.Router) {
	// 协作者自己的面板
	me := api.Group("/me")
	me.Use(middleware.CollaboratorAuthMiddleware())
	me.Get("/dashboard", handlers.GetMyDashboard)

	// 店主的经营面板
	owner := api.Group("", middleware.CollaboratorAuthMiddleware(), middleware.OwnerOnlyMiddleware())
	owner.Get("/dashboard", handlers.GetDashboard)
	owner.Get("/financial-control", handlers.GetFinancialControl)
}
