package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupSupplierRoutes 注册供应商相关路由
// 供应商账本完全属于店主范围
func SetupSupplierRoutes(api fiber.Router) {
	suppliers := api.Group("/suppliers")

	suppliers.Use(middleware.CollaboratorAuthMiddleware(), middleware.OwnerOnlyMiddleware())

	suppliers.Post("/", handlers.CreateSupplier)
	suppliers.Get("/", handlers.GetAllSuppliers)
	suppliers.Get("/:id/statement", handlers.GetSupplierStatement)
	suppliers.Post("/payments", handlers.CreateSupplierPayment)
	suppliers.Delete("/:id", handlers.DeleteSupplier)
}
