package services

import (
	"context"
	"errors"
	"testing"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPackage(t *testing.T, svc *PackageService, name string, price float64) *models.ServicePackage {
	t.Helper()
	pkg, err := svc.Create(context.Background(), ServicePackageRequest{
		Name:         name,
		Description:  name + " maintenance plan",
		MonthlyPrice: price,
	})
	require.NoError(t, err)
	return pkg
}

func TestPackageCreateDefaultsToActive(t *testing.T) {
	svc, _ := newPackageService(t)

	pkg := seedPackage(t, svc, "Basic", 29.99)

	assert.Equal(t, models.PackageStatusActive, pkg.Status)
	assert.True(t, pkg.IsActive())
}

func TestPackageCreateDuplicateName(t *testing.T) {
	svc, _ := newPackageService(t)
	seedPackage(t, svc, "Basic", 29.99)

	_, err := svc.Create(context.Background(), ServicePackageRequest{
		Name:         "Basic",
		MonthlyPrice: 39.99,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
	assert.Contains(t, err.Error(), "Basic")
}

func TestPackageCreateDuplicateNameOfInactive(t *testing.T) {
	svc, _ := newPackageService(t)
	pkg := seedPackage(t, svc, "Basic", 29.99)
	_, err := svc.UpdateStatus(context.Background(), pkg.ID, false)
	require.NoError(t, err)

	// Deactivated packages still hold their name.
	_, err = svc.Create(context.Background(), ServicePackageRequest{
		Name:         "Basic",
		MonthlyPrice: 39.99,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
}

func TestPackageCreateRejectsPriceWithExtraDecimals(t *testing.T) {
	svc, _ := newPackageService(t)

	_, err := svc.Create(context.Background(), ServicePackageRequest{
		Name:         "Basic",
		MonthlyPrice: 29.999,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
}

func TestPackageCreateRejectsUnsafeContent(t *testing.T) {
	svc, _ := newPackageService(t)

	_, err := svc.Create(context.Background(), ServicePackageRequest{
		Name:         "<img src=x>",
		MonthlyPrice: 29.99,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
}

func TestPackageStatusTransitions(t *testing.T) {
	svc, _ := newPackageService(t)
	pkg := seedPackage(t, svc, "Basic", 29.99)

	deactivated, err := svc.UpdateStatus(context.Background(), pkg.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusInactive, deactivated.Status)

	// Setting the current status again is a no-op success.
	same, err := svc.UpdateStatus(context.Background(), pkg.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusInactive, same.Status)

	reactivated, err := svc.UpdateStatus(context.Background(), pkg.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusActive, reactivated.Status)
}

func TestPackageStatusNotFound(t *testing.T) {
	svc, _ := newPackageService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), false)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeServicePackageNotFound))
}

func TestPackageListActiveFilter(t *testing.T) {
	svc, _ := newPackageService(t)
	seedPackage(t, svc, "Basic", 29.99)
	premium := seedPackage(t, svc, "Premium", 59.99)
	_, err := svc.UpdateStatus(context.Background(), premium.ID, false)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := svc.List(context.Background(), &active)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "Basic", onlyActive[0].Name)

	inactive := false
	onlyInactive, err := svc.List(context.Background(), &inactive)
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)
	assert.Equal(t, "Premium", onlyInactive[0].Name)
}

func TestPackageUpdateRenameToTakenName(t *testing.T) {
	svc, _ := newPackageService(t)
	seedPackage(t, svc, "Basic", 29.99)
	premium := seedPackage(t, svc, "Premium", 59.99)

	_, err := svc.Update(context.Background(), premium.ID, ServicePackageRequest{
		Name:         "Basic",
		MonthlyPrice: 59.99,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
}

func TestPackageUpdateKeepingOwnName(t *testing.T) {
	svc, _ := newPackageService(t)
	pkg := seedPackage(t, svc, "Basic", 29.99)

	updated, err := svc.Update(context.Background(), pkg.ID, ServicePackageRequest{
		Name:         "Basic",
		Description:  "Revised plan",
		MonthlyPrice: 34.50,
	})

	require.NoError(t, err)
	assert.Equal(t, 34.50, updated.MonthlyPrice)
	assert.Equal(t, "Revised plan", updated.Description)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	svc, db := newPackageService(t)
	customers := NewCustomerService(db, logger.NewNop())
	customer := mustCreateCustomer(t, customers, "John", "Doe", "john@example.com")
	pkg := seedPackage(t, svc, "Basic", 29.99)

	require.NoError(t, svc.Subscribe(context.Background(), pkg.ID, customer.ID))

	subs, err := svc.Subscribers(context.Background(), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, subs.Count)
	require.Len(t, subs.Subscribers, 1)
	assert.Equal(t, "John Doe", subs.Subscribers[0].FullName)
	assert.Equal(t, "john@example.com", subs.Subscribers[0].Email)

	require.NoError(t, svc.Unsubscribe(context.Background(), pkg.ID, customer.ID))

	subs, err = svc.Subscribers(context.Background(), pkg.ID)
	require.NoError(t, err)
	assert.Zero(t, subs.Count)
	assert.Empty(t, subs.Subscribers)
}

func TestSubscribeTwiceRejected(t *testing.T) {
	svc, db := newPackageService(t)
	customers := NewCustomerService(db, logger.NewNop())
	customer := mustCreateCustomer(t, customers, "John", "Doe", "john@example.com")
	pkg := seedPackage(t, svc, "Basic", 29.99)
	require.NoError(t, svc.Subscribe(context.Background(), pkg.ID, customer.ID))

	err := svc.Subscribe(context.Background(), pkg.ID, customer.ID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
	assert.Contains(t, err.Error(), "already subscribed")

	// The existing link is untouched.
	subs, err := svc.Subscribers(context.Background(), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, subs.Count)
}

func TestUnsubscribeWithoutSubscription(t *testing.T) {
	svc, db := newPackageService(t)
	customers := NewCustomerService(db, logger.NewNop())
	customer := mustCreateCustomer(t, customers, "John", "Doe", "john@example.com")
	pkg := seedPackage(t, svc, "Basic", 29.99)

	err := svc.Unsubscribe(context.Background(), pkg.ID, customer.ID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBadRequest))
	assert.Contains(t, err.Error(), "not subscribed")
}

func TestSubscribeUnknownParties(t *testing.T) {
	svc, db := newPackageService(t)
	customers := NewCustomerService(db, logger.NewNop())
	customer := mustCreateCustomer(t, customers, "John", "Doe", "john@example.com")
	pkg := seedPackage(t, svc, "Basic", 29.99)

	err := svc.Subscribe(context.Background(), pkg.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeCustomerNotFound))

	err = svc.Subscribe(context.Background(), uuid.New(), customer.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeServicePackageNotFound))
}

func TestSubscribersNameFallback(t *testing.T) {
	svc, db := newPackageService(t)
	pkg := seedPackage(t, svc, "Basic", 29.99)

	// Rows predating the name requirement can carry blank names.
	nameless := models.Customer{Email: "legacy@example.com"}
	require.NoError(t, db.Create(&nameless).Error)
	require.NoError(t, svc.Subscribe(context.Background(), pkg.ID, nameless.ID))

	subs, err := svc.Subscribers(context.Background(), pkg.ID)
	require.NoError(t, err)

	require.Len(t, subs.Subscribers, 1)
	assert.Equal(t, "Unknown", subs.Subscribers[0].FullName)
}

func TestPackageGetNotFound(t *testing.T) {
	svc, _ := newPackageService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeServicePackageNotFound))
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}
