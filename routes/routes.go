package routes

import (
	"barpos/controllers"
	"barpos/handlers"
	"barpos/middleware"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine) {
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)
	router.POST("/forgot-password", controllers.RequestPasswordReset)
	router.POST("/verify-code", controllers.VerifyCode)
	router.POST("/reset-password", controllers.ResetPassword)
	router.Static("/uploads", "./uploads")
	router.GET("/agent/resolve/:token", controllers.ResolveAgentToken)
	router.GET("/order/:token", handlers.GetOrderByToken)
	router.GET("/imagesearch", controllers.SearchImages)

	// profile, renewal and payments stay reachable after expiry, otherwise
	// an expired account could never renew
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware("admin"))
	{
		admin.GET("/profile", controllers.GetProfile)
		admin.POST("/subscription/activate", controllers.ActivateSubscription)
		admin.POST("/payments", controllers.CreatePayment)
		admin.GET("/payments", controllers.ListPayments)
		admin.GET("/payments/:id", controllers.GetPayment)
	}

	gated := router.Group("/admin")
	gated.Use(middleware.AuthMiddleware("admin"), middleware.SubscriptionGate())
	{
		gated.POST("/products", controllers.AddProduct)
		gated.GET("/products", controllers.GetAllProducts)
		gated.GET("/products/lowstock", controllers.GetLowStockProducts)
		gated.GET("/products/:id", controllers.GetProduct)
		gated.PUT("/products/:id", controllers.EditProduct)
		gated.DELETE("/products/:id", controllers.DeleteProduct)
		gated.POST("/products/:id/photo", controllers.UploadProductPhoto)

		gated.POST("/team", controllers.AddTeamMember)
		gated.GET("/team", controllers.ListTeamMembers)
		gated.DELETE("/team/:id", controllers.DeleteTeamMember)

		gated.POST("/customers", controllers.AddCustomer)
		gated.GET("/customers", controllers.ListCustomers)
		gated.PUT("/customers/:id", controllers.UpdateCustomer)
		gated.DELETE("/customers/:id", controllers.DeleteCustomer)

		gated.POST("/orders", controllers.CreateOrder)
		gated.GET("/orders", controllers.GetOrders)
		gated.GET("/orders/:id", controllers.GetOrderByID)
		gated.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		gated.POST("/orders/:id/cancel", controllers.CancelOrder)
		gated.GET("/cancellations", controllers.GetCancellations)

		gated.POST("/sales", controllers.FinalizeSale)
		gated.GET("/sales", controllers.GetSales)

		gated.POST("/events", controllers.AddEvent)
		gated.GET("/events", controllers.ListEvents)
		gated.PUT("/events/:id", controllers.UpdateEvent)
		gated.DELETE("/events/:id", controllers.DeleteEvent)
		gated.POST("/events/:id/tickets", controllers.SellTicket)
		gated.POST("/tickets/checkin", controllers.CheckInTicket)

		gated.GET("/notifications", controllers.GetNotifications)
		gated.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

		gated.GET("/dashboard", controllers.Dashboard)
		gated.GET("/export/orders.csv", controllers.ExportOrdersCSV)
		gated.GET("/export/orders.pdf", controllers.ExportOrdersPDF)
		gated.GET("/export/sales.csv", controllers.ExportSalesCSV)
		gated.GET("/export/sales.pdf", controllers.ExportSalesPDF)
		gated.GET("/export/products.csv", controllers.ExportProductsCSV)
		gated.GET("/export/products.pdf", controllers.ExportProductsPDF)
		gated.GET("/export/customers.csv", controllers.ExportCustomersCSV)
		gated.GET("/export/customers.pdf", controllers.ExportCustomersPDF)
		gated.GET("/export/events.csv", controllers.ExportEventsCSV)
		gated.GET("/export/payments.csv", controllers.ExportPaymentsCSV)
		gated.GET("/export/team.csv", controllers.ExportTeamCSV)
	}

	// serving staff endpoints, reached with the opaque agent token only
	agent := router.Group("/agent")
	{
		serve := agent.Group("/")
		serve.Use(middleware.AgentMiddleware("server", "cashier"), middleware.SubscriptionGate())
		{
			serve.POST("/orders", controllers.CreateOrder)
			serve.GET("/orders", controllers.GetOrders)
			serve.GET("/orders/:id", controllers.GetOrderByID)
			serve.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
			serve.GET("/products", controllers.GetAllProducts)
		}

		cashier := agent.Group("/")
		cashier.Use(middleware.AgentMiddleware("cashier"), middleware.SubscriptionGate())
		{
			cashier.POST("/sales", controllers.FinalizeSale)
			cashier.POST("/orders/:id/cancel", controllers.CancelOrder)
		}

		event := agent.Group("/")
		event.Use(middleware.AgentMiddleware("event"), middleware.SubscriptionGate())
		{
			event.POST("/tickets/checkin", controllers.CheckInTicket)
		}
	}
}
