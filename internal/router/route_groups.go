package router

import (
	"fraud_report_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPageRoutes sets up the browser view routes. The group must carry the session middleware.
func SetupPageRoutes(group *gin.RouterGroup, pageHandler *handlers.PageHandler) {
	group.GET("/", pageHandler.Index)
	group.POST("/mode", pageHandler.SwitchMode)
	group.POST("/form", pageHandler.SubmitForm)
	group.POST("/search", pageHandler.Search)
	group.POST("/customers/:id/delete", pageHandler.DeleteCustomer)
}

// SetupCustomerRoutes sets up the JSON customer routes.
func SetupCustomerRoutes(apiGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := apiGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}
