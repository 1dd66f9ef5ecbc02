package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-pos/controllers"
	"restaurant-pos/middlewares"
	"restaurant-pos/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	orderSvc := services.NewOrderService(db)
	dispatchSvc := services.NewDispatchService(db, orderSvc)

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db, orderSvc)
	itemCtrl := controllers.NewOrderItemController(db, orderSvc)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db)
	driverCtrl := controllers.NewDriverController(db, dispatchSvc)
	transactionCtrl := controllers.NewTransactionController(db, orderSvc)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login endpoints behind the strict limiter
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
		public.POST("/login/pin", userCtrl.PinLogin)
		public.POST("/token/refresh", userCtrl.RefreshToken)
	}

	// Orders room websocket; browsers pass the token as a query param
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/orders", controllers.OrdersSocket)
	}

	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		// USERS
		auth.GET("/users", userCtrl.GetAllUsers)
		auth.POST("/users", userCtrl.CreateUser)
		auth.GET("/users/:user_id", userCtrl.GetUserByID)
		auth.PATCH("/users/:user_id", userCtrl.UpdateUser)
		auth.DELETE("/users/:user_id", userCtrl.DeleteUser)

		// ORDERS
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
		auth.PATCH("/orders/:order_id/payment", orderCtrl.UpdatePayment)
		auth.GET("/kitchen/display", orderCtrl.GetKitchenDisplay)

		// ORDER ITEMS (mutations trigger a recompute + broadcast)
		auth.POST("/order-items", itemCtrl.AddItem)
		auth.PATCH("/order-items/:item_id", itemCtrl.UpdateItem)
		auth.DELETE("/order-items/:item_id", itemCtrl.RemoveItem)

		// TABLES & SECTIONS
		auth.GET("/sections", tableCtrl.GetAllSections)
		auth.POST("/sections", tableCtrl.CreateSection)
		auth.GET("/tables", tableCtrl.GetAllTables)
		auth.POST("/tables", tableCtrl.CreateTable)
		auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
		auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
		auth.GET("/tables/:table_id/orders", orderCtrl.GetOrdersByTable)

		// RESERVATIONS (list supports ?date= and ?status= filters)
		auth.GET("/reservations", reservationCtrl.GetAllReservations)
		auth.POST("/reservations", reservationCtrl.CreateReservation)
		auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
		auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)
		auth.PATCH("/reservations/:reservation_id/status", reservationCtrl.UpdateStatus)
		auth.GET("/availability/tables", reservationCtrl.GetAvailableTables)

		// DELIVERY
		auth.GET("/delivery/drivers", driverCtrl.GetAllDrivers)
		auth.POST("/delivery/drivers", driverCtrl.CreateDriver)
		auth.GET("/delivery/drivers/:driver_id", driverCtrl.GetDriverByID)
		auth.PATCH("/delivery/drivers/:driver_id", driverCtrl.UpdateDriver)
		auth.DELETE("/delivery/drivers/:driver_id", driverCtrl.DeleteDriver)
		auth.PATCH("/delivery/drivers/:driver_id/status", driverCtrl.UpdateStatus)
		auth.POST("/delivery/drivers/:driver_id/assign-order", driverCtrl.AssignOrder)
		auth.POST("/delivery/drivers/:driver_id/complete-delivery", driverCtrl.CompleteDelivery)
		auth.GET("/delivery/available-drivers", driverCtrl.GetAvailableDrivers)

		// ACCOUNTING (list supports ?start_date=&end_date= range)
		auth.GET("/accounting/transactions", transactionCtrl.GetAllTransactions)
		auth.POST("/accounting/transactions", transactionCtrl.CreateTransaction)
		auth.GET("/accounting/transactions/:transaction_id", transactionCtrl.GetTransactionByID)
		auth.DELETE("/accounting/transactions/:transaction_id", transactionCtrl.DeleteTransaction)
		auth.GET("/accounting/sales-report", transactionCtrl.GetSalesReport)

		// MENU
		auth.GET("/menu/categories", categoryCtrl.GetAllCategories)
		auth.POST("/menu/categories", categoryCtrl.CreateCategory)
		auth.PATCH("/menu/categories/:category_id", categoryCtrl.UpdateCategory)
		auth.DELETE("/menu/categories/:category_id", categoryCtrl.DeleteCategory)
		auth.GET("/menu/items", menuCtrl.GetAllItems)
		auth.POST("/menu/items", menuCtrl.CreateItem)
		auth.GET("/menu/items/:item_id", menuCtrl.GetItemByID)
		auth.PATCH("/menu/items/:item_id", menuCtrl.UpdateItem)
		auth.DELETE("/menu/items/:item_id", menuCtrl.DeleteItem)
		auth.GET("/menu/modifiers", menuCtrl.GetAllModifiers)
		auth.POST("/menu/modifiers", menuCtrl.CreateModifier)
		auth.POST("/menu/modifiers/:modifier_id/options", menuCtrl.CreateModifierOption)
	}

	return r
}
