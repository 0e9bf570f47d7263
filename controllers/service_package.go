package controllers

import (
	"net/http"
	"strconv"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
)

var packageSortFields = []string{"name", "monthly_price", "created_at"}

type PackageController struct {
	svc *services.PackageService
	log *logger.Logger
}

func NewPackageController(svc *services.PackageService, baseLog *logger.Logger) *PackageController {
	return &PackageController{svc: svc, log: baseLog.With("controller", "package")}
}

func (ctrl *PackageController) Create(c *gin.Context) {
	var req services.ServicePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	pkg, err := ctrl.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (ctrl *PackageController) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pkg, err := ctrl.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// List supports a tri-state active filter: absent returns every package.
func (ctrl *PackageController) List(c *gin.Context) {
	active, err := parseActiveFilter(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	packages, err := ctrl.svc.List(c.Request.Context(), active)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

func (ctrl *PackageController) Paginated(c *gin.Context) {
	active, err := parseActiveFilter(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	page := utils.ParsePageRequest(c, packageSortFields...)

	resp, err := ctrl.svc.Paginated(c.Request.Context(), active, page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *PackageController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ServicePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	pkg, err := ctrl.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// UpdateStatus is the soft delete surface: packages never get a DELETE route.
func (ctrl *PackageController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	pkg, err := ctrl.svc.UpdateStatus(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (ctrl *PackageController) Subscribe(c *gin.Context) {
	packageID, ok := parseID(c, "id")
	if !ok {
		return
	}
	customerID, ok := parseID(c, "customerId")
	if !ok {
		return
	}

	if err := ctrl.svc.Subscribe(c.Request.Context(), packageID, customerID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer subscribed successfully"})
}

func (ctrl *PackageController) Unsubscribe(c *gin.Context) {
	packageID, ok := parseID(c, "id")
	if !ok {
		return
	}
	customerID, ok := parseID(c, "customerId")
	if !ok {
		return
	}

	if err := ctrl.svc.Unsubscribe(c.Request.Context(), packageID, customerID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer unsubscribed successfully"})
}

func (ctrl *PackageController) Subscribers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.svc.Subscribers(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseActiveFilter(c *gin.Context) (*bool, error) {
	raw := c.Query("active")
	if raw == "" {
		return nil, nil
	}
	active, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.BadRequest("active must be true or false")
	}
	return &active, nil
}
