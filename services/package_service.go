package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServicePackageRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  string  `json:"description"`
	MonthlyPrice float64 `json:"monthlyPrice" binding:"required,gt=0"`
}

type StatusUpdateRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type Subscriber struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

type SubscribersResponse struct {
	Count       int          `json:"count"`
	Subscribers []Subscriber `json:"subscribers"`
}

// PackageService owns service-package CRUD and the subscription relation.
// The customer↔package join is mutated nowhere else: Subscribe and
// Unsubscribe are the only code paths that touch it, always from the
// customer side.
type PackageService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackageService(db *gorm.DB, baseLog *logger.Logger) *PackageService {
	return &PackageService{db: db, log: baseLog.With("service", "package")}
}

// Create rejects names already taken, inactive packages included.
func (s *PackageService) Create(ctx context.Context, req ServicePackageRequest) (*models.ServicePackage, error) {
	if err := validatePackageRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	exists, err := s.nameExists(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("Service package with name '%s' already exists", name)
	}

	pkg := &models.ServicePackage{
		Name:         name,
		Description:  utils.Sanitize(req.Description),
		MonthlyPrice: req.MonthlyPrice,
		Status:       models.PackageStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(pkg).Error; err != nil {
		return nil, err
	}

	s.log.Info("created service package", "packageId", pkg.ID, "name", pkg.Name)
	return pkg, nil
}

func (s *PackageService) GetByID(ctx context.Context, id uuid.UUID) (*models.ServicePackage, error) {
	var pkg models.ServicePackage
	err := s.db.WithContext(ctx).Preload("Subscribers").First(&pkg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ServicePackageNotFound(id)
		}
		return nil, err
	}
	return &pkg, nil
}

// List filters by status when active is set; nil returns everything.
func (s *PackageService) List(ctx context.Context, active *bool) ([]models.ServicePackage, error) {
	var packages []models.ServicePackage
	err := s.listQuery(ctx, active).Order("name").Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *PackageService) Paginated(ctx context.Context, active *bool, page utils.PageRequest) (utils.PageResponse[models.ServicePackage], error) {
	var empty utils.PageResponse[models.ServicePackage]

	var total int64
	if err := s.listQuery(ctx, active).Model(&models.ServicePackage{}).Count(&total).Error; err != nil {
		return empty, err
	}

	var packages []models.ServicePackage
	err := s.listQuery(ctx, active).
		Order(page.OrderClause("service_packages")).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&packages).Error
	if err != nil {
		return empty, err
	}
	return utils.NewPageResponse(packages, page, total), nil
}

// Update is last-write-wins; only renaming to another package's name is
// rejected.
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, req ServicePackageRequest) (*models.ServicePackage, error) {
	if err := validatePackageRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pkg models.ServicePackage
		if err := tx.First(&pkg, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ServicePackageNotFound(id)
			}
			return err
		}

		if pkg.Name != name {
			exists, err := s.nameExists(ctx, tx, name)
			if err != nil {
				return err
			}
			if exists {
				return apperr.BadRequest("Service package with name '%s' already exists", name)
			}
		}

		return tx.Model(&pkg).Updates(map[string]interface{}{
			"name":          name,
			"description":   utils.Sanitize(req.Description),
			"monthly_price": req.MonthlyPrice,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated service package", "packageId", id, "name", name)
	return s.GetByID(ctx, id)
}

// UpdateStatus is the soft delete: packages are deactivated, never removed.
// Setting the status it already has is a no-op success.
func (s *PackageService) UpdateStatus(ctx context.Context, id uuid.UUID, active bool) (*models.ServicePackage, error) {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if pkg.IsActive() == active {
		return pkg, nil
	}

	if active {
		pkg.Activate()
	} else {
		pkg.Deactivate()
	}
	if err := s.db.WithContext(ctx).Model(pkg).Update("status", pkg.Status).Error; err != nil {
		return nil, err
	}

	s.log.Info("changed service package status", "packageId", id, "status", pkg.Status)
	return pkg, nil
}

// Subscribe links the customer to the package, both directions, in one
// transaction. Subscribing twice is rejected.
func (s *PackageService) Subscribe(ctx context.Context, packageID, customerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, pkg, err := s.loadRelation(tx, packageID, customerID)
		if err != nil {
			return err
		}

		subscribed, err := s.isSubscribed(tx, customerID, packageID)
		if err != nil {
			return err
		}
		if subscribed {
			return apperr.BadRequest("Customer is already subscribed to this service package")
		}

		return tx.Model(customer).Association("Packages").Append(pkg)
	})
	if err != nil {
		return err
	}
	s.log.Info("subscribed customer to package", "customerId", customerID, "packageId", packageID)
	return nil
}

// Unsubscribe mirrors Subscribe; removing a link that does not exist is
// rejected.
func (s *PackageService) Unsubscribe(ctx context.Context, packageID, customerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, pkg, err := s.loadRelation(tx, packageID, customerID)
		if err != nil {
			return err
		}

		subscribed, err := s.isSubscribed(tx, customerID, packageID)
		if err != nil {
			return err
		}
		if !subscribed {
			return apperr.BadRequest("Customer is not subscribed to this service package")
		}

		return tx.Model(customer).Association("Packages").Delete(pkg)
	})
	if err != nil {
		return err
	}
	s.log.Info("unsubscribed customer from package", "customerId", customerID, "packageId", packageID)
	return nil
}

// Subscribers flattens the package's subscriber list.
func (s *PackageService) Subscribers(ctx context.Context, packageID uuid.UUID) (*SubscribersResponse, error) {
	pkg, err := s.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	subscribers := make([]Subscriber, 0, len(pkg.Subscribers))
	for _, customer := range pkg.Subscribers {
		subscribers = append(subscribers, Subscriber{
			ID:       customer.ID,
			FullName: customer.FullName(),
			Email:    customer.Email,
		})
	}
	return &SubscribersResponse{Count: len(subscribers), Subscribers: subscribers}, nil
}

func (s *PackageService) listQuery(ctx context.Context, active *bool) *gorm.DB {
	query := s.db.WithContext(ctx).Preload("Subscribers")
	if active != nil {
		status := models.PackageStatusInactive
		if *active {
			status = models.PackageStatusActive
		}
		query = query.Where("status = ?", status)
	}
	return query
}

func (s *PackageService) loadRelation(tx *gorm.DB, packageID, customerID uuid.UUID) (*models.Customer, *models.ServicePackage, error) {
	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.CustomerNotFound(customerID)
		}
		return nil, nil, err
	}

	var pkg models.ServicePackage
	if err := tx.First(&pkg, "id = ?", packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ServicePackageNotFound(packageID)
		}
		return nil, nil, err
	}
	return &customer, &pkg, nil
}

func (s *PackageService) isSubscribed(tx *gorm.DB, customerID, packageID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Table("customer_packages").
		Where("customer_id = ? AND service_package_id = ?", customerID, packageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PackageService) nameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.ServicePackage{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func validatePackageRequest(req ServicePackageRequest) error {
	if utils.ContainsUnsafeContent(req.Name) {
		return apperr.BadRequest("Name contains potentially unsafe characters")
	}
	if utils.ContainsUnsafeContent(req.Description) {
		return apperr.BadRequest("Description contains potentially unsafe characters")
	}
	cents := req.MonthlyPrice * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return apperr.BadRequest("Monthly price must have at most two decimal places")
	}
	return nil
}
