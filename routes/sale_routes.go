package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupSaleRoutes 注册销售相关路由
func SetupSaleRoutes(api fiber.Router) {
	sales := api.Group("/sales")

	// 所有路由都需要协作者身份
	sales.Use(middleware.CollaboratorAuthMiddleware())

	// 记录销售：归属当前登录的协作者
	sales.Post("/", handlers.CreateSale)

	// 销售列表
	sales.Get("/", handlers.GetAllSales)

	// 删除销售记录属于店主范围
	ownerSales := sales.Group("", middleware.OwnerOnlyMiddleware())
	ownerSales.Delete("/:id", handlers.DeleteSale)

	// VIP通道：店主记录销售（无佣金、即时结算）
	vip := api.Group("/vip")
	vip.Use(middleware.CollaboratorAuthMiddleware(), middleware.OwnerOnlyMiddleware())
	vip.Post("/sales", handlers.CreateVIPSale)
	vip.Get("/summary", handlers.GetVIPSummary)
}
