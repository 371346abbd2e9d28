package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupCollaboratorRoutes 注册协作者相关路由
// 协作者档案的管理属于店主范围，余额查询对登录协作者开放
func SetupCollaboratorRoutes(api fiber.Router) {
	collaborators := api.Group("/collaborators")

	// 所有路由都需要协作者身份
	collaborators.Use(middleware.CollaboratorAuthMiddleware())

	// 余额查询：协作者可以查自己的，店主可以查所有人的
	collaborators.Get("/:id/balance", handlers.GetCollaboratorBalance)

	// 以下为店主管理范围
	owner := collaborators.Group("", middleware.OwnerOnlyMiddleware())
	owner.Post("/", handlers.CreateCollaborator)
	owner.Get("/", handlers.GetAllCollaborators)
	owner.Get("/:id", handlers.GetCollaborator)
	owner.Put("/:id", handlers.UpdateCollaborator)
	owner.Delete("/:id", handlers.DeleteCollaborator)

	// 现金预支
	advances := api.Group("/advances")
	advances.Use(middleware.CollaboratorAuthMiddleware())
	advances.Get("/", handlers.GetAllAdvances)

	ownerAdvances := advances.Group("", middleware.OwnerOnlyMiddleware())
	ownerAdvances.Post("/", handlers.CreateAdvance)
	ownerAdvances.Delete("/:id", handlers.DeleteAdvance)
}
