package controllers

import (
	"net/http"
	"strconv"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var vehicleSortFields = []string{"make", "model", "year", "vin", "created_at"}

type VehicleController struct {
	svc *services.VehicleService
	log *logger.Logger
}

func NewVehicleController(svc *services.VehicleService, baseLog *logger.Logger) *VehicleController {
	return &VehicleController{svc: svc, log: baseLog.With("controller", "vehicle")}
}

func (ctrl *VehicleController) Create(c *gin.Context) {
	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	vehicle, err := ctrl.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (ctrl *VehicleController) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	vehicle, err := ctrl.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (ctrl *VehicleController) List(c *gin.Context) {
	vehicles, err := ctrl.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (ctrl *VehicleController) Paginated(c *gin.Context) {
	page := utils.ParsePageRequest(c, vehicleSortFields...)

	resp, err := ctrl.svc.Paginated(c.Request.Context(), page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search accepts any subset of filter criteria as query parameters and runs
// them as one conjunctive paginated query.
func (ctrl *VehicleController) Search(c *gin.Context) {
	filter, err := parseVehicleFilter(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	page := utils.ParsePageRequest(c, vehicleSortFields...)

	resp, err := ctrl.svc.Search(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *VehicleController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	vehicle, err := ctrl.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (ctrl *VehicleController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

func parseVehicleFilter(c *gin.Context) (services.VehicleFilter, error) {
	filter := services.VehicleFilter{
		VIN:           c.Query("vin"),
		Make:          c.Query("make"),
		Model:         c.Query("model"),
		CustomerEmail: c.Query("customerEmail"),
		CustomerName:  c.Query("customerName"),
	}

	if raw := c.Query("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperr.BadRequest("customerId must be a valid identifier")
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("minYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperr.BadRequest("minYear must be a number")
		}
		filter.MinYear = &year
	}
	if raw := c.Query("maxYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperr.BadRequest("maxYear must be a number")
		}
		filter.MaxYear = &year
	}
	return filter, nil
}
