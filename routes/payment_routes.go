package routes

import (
	"github.com/gofiber/fiber/v2"

	"barber_pos/handlers"
	"barber_pos/middleware"
)

// SetupPaymentRoutes 注册工资结算相关路由
// 结算的确认和删除属于店主范围，协作者可以查看自己的报告
func SetupPaymentRoutes(api fiber.Router) {
	payments := api.Group("/payments")

	// 所有路由都需要协作者身份
	payments.Use(middleware.CollaboratorAuthMiddleware())

	// 协作者的结算历史报告（协作者查自己的，店主查所有人的）
	payments.Get("/collab-report/:id", handlers.GetCollaboratorReport)

	// 以下为店主管理范围
	owner := payments.Group("", middleware.OwnerOnlyMiddleware())
	owner.Get("/pending/:id", handlers.GetPendingPayment)
	owner.Post("/confirm/:id", handlers.ConfirmPayment)
	owner.Get("/", handlers.GetAllPaymentRecords)
	owner.Get("/receipt/:id", handlers.GetReceipt)
	owner.Delete("/:id", handlers.DeletePaymentRecord)
}
