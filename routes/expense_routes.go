package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupExpenseRoutes 注册运营支出相关路由
// 支出账本完全属于店主范围
func SetupExpenseRoutes(api fiber.Router) {
	expenses := api.Group("/expenses")

	expenses.Use(middleware.CollaboratorAuthMiddleware(), middleware.OwnerOnlyMiddleware())

	expenses.Post("/", handlers.CreateExpense)
	expenses.Get("/", handlers.GetAllExpenses)
	expenses.Delete("/:id", handlers.DeleteExpense)
}
