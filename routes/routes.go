package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes 注册全部路由
// 各模块的路由在独立文件中定义，这里统一挂载
func SetupRoutes(app *fiber.App) {
	// API路由组
	api := app.Group("/api")

	// 健康检查
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// 各模块路由
	SetupAuthRoutes(api)
	SetupCollaboratorRoutes(api)
	SetupCatalogRoutes(api)
	SetupSaleRoutes(api)
	SetupPaymentRoutes(api)
	SetupSupplierRoutes(api)
	SetupExpenseRoutes(api)
	SetupDashboardRoutes(api)
}
