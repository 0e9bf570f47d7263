package services

import (
	"context"
	"errors"
	"strings"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	VIN        string    `json:"vin" binding:"required,len=17"`
	Make       string    `json:"make" binding:"required,max=50"`
	Model      string    `json:"model" binding:"required,max=50"`
	Year       int       `json:"year" binding:"required"`
}

type VehicleService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleService(db *gorm.DB, baseLog *logger.Logger) *VehicleService {
	return &VehicleService{db: db, log: baseLog.With("service", "vehicle")}
}

// Create inserts a vehicle after checking VIN uniqueness and owner existence.
func (s *VehicleService) Create(ctx context.Context, req VehicleRequest) (*models.Vehicle, error) {
	if err := validateVehicleRequest(req); err != nil {
		return nil, err
	}
	vin := normalizeVIN(req.VIN)

	exists, err := s.vinExists(ctx, s.db, vin)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("Vehicle with VIN %s already exists", vin)
	}

	ownerExists, err := s.customerExists(ctx, s.db, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ownerExists {
		return nil, apperr.CustomerNotFound(req.CustomerID)
	}

	vehicle := &models.Vehicle{
		CustomerID: req.CustomerID,
		VIN:        vin,
		Make:       strings.TrimSpace(req.Make),
		Model:      strings.TrimSpace(req.Model),
		Year:       req.Year,
	}
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}

	s.log.Info("created vehicle", "vehicleId", vehicle.ID, "vin", vin, "customerId", req.CustomerID)
	return s.GetByID(ctx, vehicle.ID)
}

// GetByID eager-loads the owning customer and its profile.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.WithContext(ctx).Preload("Customer.Profile").First(&vehicle, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.VehicleNotFound(id)
		}
		return nil, err
	}
	return &vehicle, nil
}

func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).Preload("Customer.Profile").Order("make, model").Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *VehicleService) Paginated(ctx context.Context, page utils.PageRequest) (utils.PageResponse[models.Vehicle], error) {
	return s.Search(ctx, VehicleFilter{}, page)
}

// Search runs one paginated query with every supplied criterion conjoined.
// The customer join is part of the query itself so filtered rows arrive with
// their owner populated instead of triggering per-row loads.
func (s *VehicleService) Search(ctx context.Context, filter VehicleFilter, page utils.PageRequest) (utils.PageResponse[models.Vehicle], error) {
	var empty utils.PageResponse[models.Vehicle]

	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Joins("Customer").
		Scopes(filter.Scopes()...).
		Count(&total).Error
	if err != nil {
		return empty, err
	}

	var vehicles []models.Vehicle
	err = s.db.WithContext(ctx).
		Joins("Customer").
		Preload("Customer.Profile").
		Scopes(filter.Scopes()...).
		Order(page.OrderClause("vehicles")).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&vehicles).Error
	if err != nil {
		return empty, err
	}
	return utils.NewPageResponse(vehicles, page, total), nil
}

// Update has no version protocol: vehicle updates are last-write-wins.
func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req VehicleRequest) (*models.Vehicle, error) {
	if err := validateVehicleRequest(req); err != nil {
		return nil, err
	}
	vin := normalizeVIN(req.VIN)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.VehicleNotFound(id)
			}
			return err
		}

		if vehicle.VIN != vin {
			exists, err := s.vinExists(ctx, tx, vin)
			if err != nil {
				return err
			}
			if exists {
				return apperr.BadRequest("Vehicle with VIN %s already exists", vin)
			}
		}

		if vehicle.CustomerID != req.CustomerID {
			ownerExists, err := s.customerExists(ctx, tx, req.CustomerID)
			if err != nil {
				return err
			}
			if !ownerExists {
				return apperr.CustomerNotFound(req.CustomerID)
			}
		}

		return tx.Model(&vehicle).Updates(map[string]interface{}{
			"customer_id": req.CustomerID,
			"vin":         vin,
			"make":        strings.TrimSpace(req.Make),
			"model":       strings.TrimSpace(req.Model),
			"year":        req.Year,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated vehicle", "vehicleId", id, "vin", vin)
	return s.GetByID(ctx, id)
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.VehicleNotFound(id)
	}
	s.log.Info("deleted vehicle", "vehicleId", id)
	return nil
}

func (s *VehicleService) vinExists(ctx context.Context, tx *gorm.DB, vin string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.Vehicle{}).Where("vin = ?", vin).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *VehicleService) customerExists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

func validateVehicleRequest(req VehicleRequest) error {
	if !utils.ValidateVIN(req.VIN) {
		return apperr.BadRequest("VIN must be 17 characters, alphanumeric excluding I, O and Q")
	}
	if !utils.ValidateYear(req.Year) {
		return apperr.BadRequest("Year must be between 1900 and next model year")
	}
	if utils.ContainsUnsafeContent(req.Make) {
		return apperr.BadRequest("Make contains potentially unsafe characters")
	}
	if utils.ContainsUnsafeContent(req.Model) {
		return apperr.BadRequest("Model contains potentially unsafe characters")
	}
	return nil
}
