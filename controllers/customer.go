package controllers

import (
	"net/http"

	"fleetcare-backend/logger"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
)

var customerSortFields = []string{"last_name", "first_name", "email", "created_at"}

type CustomerController struct {
	svc *services.CustomerService
	log *logger.Logger
}

func NewCustomerController(svc *services.CustomerService, baseLog *logger.Logger) *CustomerController {
	return &CustomerController{svc: svc, log: baseLog.With("controller", "customer")}
}

func (ctrl *CustomerController) Create(c *gin.Context) {
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	customer, err := ctrl.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (ctrl *CustomerController) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (ctrl *CustomerController) List(c *gin.Context) {
	customers, err := ctrl.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (ctrl *CustomerController) Paginated(c *gin.Context) {
	page := utils.ParsePageRequest(c, customerSortFields...)

	resp, err := ctrl.svc.Paginated(c.Request.Context(), page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *CustomerController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	customer, err := ctrl.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (ctrl *CustomerController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
