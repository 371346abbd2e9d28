package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupCatalogRoutes 注册目录（服务和产品）相关路由
// 查询对所有登录协作者开放，修改属于店主范围
func SetupCatalogRoutes(api fiber.Router) {
	// 服务
	services := api.Group("/services")
	services.Use(middleware.CollaboratorAuthMiddleware())
	services.Get("/", handlers.GetAllServices)

	ownerServices := services.Group("", middleware.OwnerOnlyMiddleware())
	ownerServices.Post("/", handlers.CreateService)
	ownerServices.Put("/:id", handlers.UpdateService)
	ownerServices.Delete("/:id", handlers.DeleteService)

	// 产品
	products := api.Group("/products")
	products.Use(middleware.CollaboratorAuthMiddleware())
	products.Get("/", handlers.GetAllProducts)

	ownerProducts := products.Group("", middleware.OwnerOnlyMiddleware())
	ownerProducts.Post("/", handlers.CreateProduct)
	ownerProducts.Put("/:id", handlers.UpdateProduct)
	ownerProducts.Delete("/:id", handlers.DeleteProduct)
}
