package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const versionRequiredMsg = "Version is required for updates. Please include the current version from the GET response."

// CustomerRequest is the payload for creating and updating customers. The
// profile fields are flattened onto it; supplying any of them creates or
// updates the profile sub-record. Version is input for comparison only and is
// never copied into storage.
type CustomerRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Version   *int64 `json:"version"`

	// Profile fields
	Address                string                `json:"address"`
	DateOfBirth            *time.Time            `json:"dateOfBirth"`
	PreferredContactMethod *models.ContactMethod `json:"preferredContactMethod"`
}

func (r CustomerRequest) hasProfileData() bool {
	return r.Address != "" || r.DateOfBirth != nil || r.PreferredContactMethod != nil
}

type CustomerService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerService(db *gorm.DB, baseLog *logger.Logger) *CustomerService {
	return &CustomerService{db: db, log: baseLog.With("service", "customer")}
}

// Create inserts a new customer, with profile when profile data is supplied.
// The returned customer carries version 0.
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*models.Customer, error) {
	if err := validateCustomerRequest(req); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	exists, err := s.emailExists(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.CustomerAlreadyExists(email)
	}

	customer := &models.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
	}
	if req.hasProfileData() {
		customer.Profile = profileFromRequest(req)
	}

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}

	s.log.Info("created customer", "customerId", customer.ID, "email", customer.Email)
	return s.GetByID(ctx, customer.ID)
}

// GetByID always eager-loads the profile.
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Preload("Profile").First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.CustomerNotFound(id)
		}
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).Preload("Profile").Order("last_name, first_name").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *CustomerService) Paginated(ctx context.Context, page utils.PageRequest) (utils.PageResponse[models.Customer], error) {
	var empty utils.PageResponse[models.Customer]

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return empty, err
	}

	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Order(page.OrderClause("customers")).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&customers).Error
	if err != nil {
		return empty, err
	}
	return utils.NewPageResponse(customers, page, total), nil
}

// Update applies the versioned update protocol: the request must carry the
// expected version, which is compared against storage before any change, and
// the write itself is guarded by a conditional WHERE on the same version so a
// writer racing between the read and the write also surfaces as a conflict.
// The whole sequence runs in one transaction.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*models.Customer, error) {
	if req.Version == nil {
		return nil, apperr.BadRequest(versionRequiredMsg)
	}
	if err := validateCustomerRequest(req); err != nil {
		return nil, err
	}
	expected := *req.Version

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Preload("Profile").First(&customer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.CustomerNotFound(id)
			}
			return err
		}

		// Application-level version check: reject stale requests early
		// with a precise message.
		if expected != customer.Version {
			s.log.Warn("customer version conflict",
				"customerId", id, "expectedVersion", expected, "currentVersion", customer.Version)
			return apperr.OptimisticLock("Customer", id)
		}

		email := strings.TrimSpace(req.Email)
		if email != customer.Email {
			exists, err := s.emailExists(ctx, tx, email)
			if err != nil {
				return err
			}
			if exists {
				return apperr.CustomerAlreadyExists(email)
			}
		}

		updates := map[string]interface{}{
			"first_name": strings.TrimSpace(req.FirstName),
			"last_name":  strings.TrimSpace(req.LastName),
			"email":      email,
			"phone":      strings.TrimSpace(req.Phone),
			"version":    customer.Version + 1,
		}

		// Storage-level guard: second line of defense against writers
		// that committed between the read above and this write.
		res := tx.Model(&models.Customer{}).
			Where("id = ? AND version = ?", id, customer.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			s.log.Warn("customer version conflict at write", "customerId", id, "expectedVersion", expected)
			return apperr.OptimisticLock("Customer", id)
		}

		if req.hasProfileData() {
			if customer.Profile != nil {
				return tx.Model(customer.Profile).Updates(profileUpdates(req)).Error
			}
			profile := profileFromRequest(req)
			profile.CustomerID = customer.ID
			return tx.Create(profile).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated customer", "customerId", id, "version", updated.Version)
	return updated, nil
}

// Delete removes the customer and everything it owns: profile, vehicles and
// subscription rows. Reports NotFound when no row existed.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Vehicle{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM customer_packages WHERE customer_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Customer{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.CustomerNotFound(id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted customer", "customerId", id)
	return nil
}

func (s *CustomerService) emailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.Customer{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func profileFromRequest(req CustomerRequest) *models.CustomerProfile {
	profile := &models.CustomerProfile{
		Address:     utils.Sanitize(req.Address),
		DateOfBirth: req.DateOfBirth,
	}
	if req.PreferredContactMethod != nil {
		profile.PreferredContactMethod = *req.PreferredContactMethod
	} else {
		profile.PreferredContactMethod = models.ContactMethodEmail
	}
	return profile
}

// profileUpdates only touches the fields the request supplies so an in-place
// update cannot blank the others.
func profileUpdates(req CustomerRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Address != "" {
		updates["address"] = utils.Sanitize(req.Address)
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = req.DateOfBirth
	}
	if req.PreferredContactMethod != nil {
		updates["preferred_contact_method"] = *req.PreferredContactMethod
	}
	return updates
}

func validateCustomerRequest(req CustomerRequest) error {
	if !utils.ValidateName(req.FirstName) {
		return apperr.BadRequest("First name contains invalid characters")
	}
	if !utils.ValidateName(req.LastName) {
		return apperr.BadRequest("Last name contains invalid characters")
	}
	if !utils.ValidateEmail(req.Email) {
		return apperr.BadRequest("Email should be valid")
	}
	if !utils.ValidatePhone(req.Phone) {
		return apperr.BadRequest("Phone number format is invalid")
	}
	if req.DateOfBirth != nil && req.DateOfBirth.After(time.Now()) {
		return apperr.BadRequest("Date of birth cannot be in the future")
	}
	if req.PreferredContactMethod != nil && !req.PreferredContactMethod.Valid() {
		return apperr.BadRequest("Preferred contact method must be one of EMAIL, PHONE, SMS")
	}
	return nil
}
