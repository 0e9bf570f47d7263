package routes

import (
	"os"
	"strings"

	"fleetcare-backend/config"
	"fleetcare-backend/controllers"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires services, controllers and middleware. Read endpoints
// accept any authenticated role; every mutation requires admin.
func SetupRouter(db *gorm.DB, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Correlation-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Correlation-Id"},
		AllowCredentials: true,
	}))

	r.Use(utils.CorrelationMiddleware())
	r.Use(config.PerformanceLogger(log))

	users := services.NewUserService(db, log)
	authSvc := services.NewAuthService(users, log)
	customerSvc := services.NewCustomerService(db, log)
	vehicleSvc := services.NewVehicleService(db, log)
	packageSvc := services.NewPackageService(db, log)

	authCtrl := controllers.NewAuthController(authSvc, log)
	customerCtrl := controllers.NewCustomerController(customerSvc, log)
	vehicleCtrl := controllers.NewVehicleController(vehicleSvc, log)
	packageCtrl := controllers.NewPackageController(packageSvc, log)

	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtrl.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authCtrl.Me)
	}

	api := r.Group("/api/v1")
	api.Use(utils.AuthMiddleware())
	admin := utils.RequireRole(models.RoleAdmin)
	{
		customers := api.Group("/customers")
		{
			customers.GET("", customerCtrl.List)
			customers.GET("/paginated", customerCtrl.Paginated)
			customers.GET("/:id", customerCtrl.GetByID)
			customers.POST("", admin, customerCtrl.Create)
			customers.PUT("/:id", admin, customerCtrl.Update)
			customers.DELETE("/:id", admin, customerCtrl.Delete)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", vehicleCtrl.List)
			vehicles.GET("/paginated", vehicleCtrl.Paginated)
			vehicles.GET("/search", vehicleCtrl.Search)
			vehicles.GET("/:id", vehicleCtrl.GetByID)
			vehicles.POST("", admin, vehicleCtrl.Create)
			vehicles.PUT("/:id", admin, vehicleCtrl.Update)
			vehicles.DELETE("/:id", admin, vehicleCtrl.Delete)
		}

		packages := api.Group("/packages")
		{
			packages.GET("", packageCtrl.List)
			packages.GET("/paginated", packageCtrl.Paginated)
			packages.GET("/:id", packageCtrl.GetByID)
			packages.GET("/:id/subscribers", packageCtrl.Subscribers)
			packages.POST("", admin, packageCtrl.Create)
			packages.PUT("/:id", admin, packageCtrl.Update)
			packages.PUT("/:id/status", admin, packageCtrl.UpdateStatus)
			packages.POST("/:id/subscriptions/:customerId", admin, packageCtrl.Subscribe)
			packages.DELETE("/:id/subscriptions/:customerId", admin, packageCtrl.Unsubscribe)
		}
	}

	return r
}

func allowedOrigins() []string {
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{"http://localhost:3000"}
}
