package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/routes"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestServer boots the full router on an in-memory database with the two
// seeded accounts.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "integration-test-secret")

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.CustomerProfile{},
		&models.Vehicle{},
		&models.ServicePackage{},
	))
	require.NoError(t, services.SeedUsers(db, logger.NewNop()))

	return routes.SetupRouter(db, logger.NewNop())
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, "POST", "/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp services.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeCustomer(t *testing.T, w *httptest.ResponseRecorder) models.Customer {
	t.Helper()
	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	return customer
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginAndMe(t *testing.T) {
	r := newTestServer(t)

	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, "GET", "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, "POST", "/auth/login", "", gin.H{
		"username": "admin",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "UNAUTHORIZED", resp.Error)
	assert.Equal(t, "Invalid username or password", resp.Message)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, "GET", "/api/v1/customers", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWritesRequireAdminRole(t *testing.T) {
	r := newTestServer(t)
	userToken := login(t, r, "user", "user123")

	w := doJSON(t, r, "POST", "/api/v1/customers", userToken, gin.H{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@example.com",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "FORBIDDEN", resp.Error)

	// Reads stay open to the plain role.
	w = doJSON(t, r, "GET", "/api/v1/customers", userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerLifecycle(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	// Create: the new customer starts at version 0.
	w := doJSON(t, r, "POST", "/api/v1/customers", token, gin.H{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeCustomer(t, w)
	assert.Equal(t, int64(0), created.Version)

	// Update with the current version succeeds and bumps it.
	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/v1/customers/%s", created.ID), token, gin.H{
		"firstName": "John",
		"lastName":  "Smith",
		"email":     "john@example.com",
		"version":   0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeCustomer(t, w)
	assert.Equal(t, int64(1), updated.Version)
	assert.Equal(t, "Smith", updated.LastName)

	// Replaying the stale version is a conflict.
	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/v1/customers/%s", created.ID), token, gin.H{
		"firstName": "John",
		"lastName":  "Jones",
		"email":     "john@example.com",
		"version":   0,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	conflict := decodeError(t, w)
	assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", conflict.Error)
	assert.NotEmpty(t, conflict.CorrelationID)
	assert.Equal(t, fmt.Sprintf("/api/v1/customers/%s", created.ID), conflict.Path)

	// Omitting the version is rejected outright.
	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/v1/customers/%s", created.ID), token, gin.H{
		"firstName": "John",
		"lastName":  "Jones",
		"email":     "john@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Delete, then the customer is gone.
	w = doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/customers/%s", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/v1/customers/%s", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", decodeError(t, w).Error)
}

func TestCustomerValidationErrors(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, "POST", "/api/v1/customers", token, gin.H{
		"firstName": "John",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	require.NotEmpty(t, resp.ValidationErrors)

	fields := make([]string, 0, len(resp.ValidationErrors))
	for _, v := range resp.ValidationErrors {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "LastName")
	assert.Contains(t, fields, "Email")
}

func TestDuplicateEmailConflictOverHTTP(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	payload := gin.H{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "dup@example.com",
	}
	w := doJSON(t, r, "POST", "/api/v1/customers", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/customers", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CUSTOMER_ALREADY_EXISTS", decodeError(t, w).Error)
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, "GET", "/api/v1/customers/not-a-uuid", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, w).Error)
}

func TestCorrelationIDIsHonored(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	req := httptest.NewRequest("GET", "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Correlation-Id", "req-12345")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-12345", w.Header().Get("X-Correlation-Id"))
}

func TestVehicleSearchOverHTTP(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, "POST", "/api/v1/customers", token, gin.H{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	owner := decodeCustomer(t, w)

	for i, v := range []gin.H{
		{"vin": "1HGCM82633A004352", "make": "Honda", "model": "Accord", "year": 2003},
		{"vin": "2HGFC2F59MH000001", "make": "Honda", "model": "Civic", "year": 2021},
		{"vin": "5YJ3E1EA7KF000002", "make": "Tesla", "model": "Model 3", "year": 2019},
	} {
		v["customerId"] = owner.ID
		w = doJSON(t, r, "POST", "/api/v1/vehicles", token, v)
		require.Equal(t, http.StatusCreated, w.Code, "vehicle %d: %s", i, w.Body.String())
	}

	w = doJSON(t, r, "GET", "/api/v1/vehicles/search?make=honda&minYear=2020", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page utils.PageResponse[models.Vehicle]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "2HGFC2F59MH000001", page.Content[0].VIN)
	require.NotNil(t, page.Content[0].Customer)
	assert.Equal(t, "john@example.com", page.Content[0].Customer.Email)
}

func TestSubscriptionFlowOverHTTP(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, "POST", "/api/v1/customers", token, gin.H{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customer := decodeCustomer(t, w)

	w = doJSON(t, r, "POST", "/api/v1/packages", token, gin.H{
		"name":         "Basic",
		"monthlyPrice": 29.99,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var pkg models.ServicePackage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkg))

	subPath := fmt.Sprintf("/api/v1/packages/%s/subscriptions/%s", pkg.ID, customer.ID)
	w = doJSON(t, r, "POST", subPath, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, "POST", subPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/v1/packages/%s/subscribers", pkg.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs services.SubscribersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	assert.Equal(t, 1, subs.Count)

	w = doJSON(t, r, "DELETE", subPath, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, "DELETE", subPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
