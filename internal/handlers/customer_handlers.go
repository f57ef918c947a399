package handlers

import (
	"errors"
	"net/http"

	"fraud_report_backend/internal/models"
	"fraud_report_backend/internal/services"
	"fraud_report_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler exposes the data client as a JSON API.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// CreateCustomer handles the creation of a new report.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateCustomer: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload.", err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrCustomerValidation) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "CreateCustomer: Error from customerService.CreateCustomer")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save report.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers handles searching reports. A blank search lists everything.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.SearchCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.LogError(err, "GetCustomers: Error from customerService.SearchCustomers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Search failed.", "Internal error"))
		return
	}

	if customers == nil {
		customers = []models.Customer{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  customers,
		"total": len(customers),
	})
}

// DeleteCustomer handles deleting a report. Unknown IDs are not an error.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	idStr := c.Param("id")
	id, err := services.ParseCustomerID(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid customer ID format.", err.Error()))
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		utils.LogError(err, "DeleteCustomer: Error from customerService.DeleteCustomer for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
