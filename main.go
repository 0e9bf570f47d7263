package main

import (
	"log"
	"os"

	"fleetcare-backend/config"
	"fleetcare-backend/logger"
	"fleetcare-backend/models"
	"fleetcare-backend/routes"
	"fleetcare-backend/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	appLog, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		appLog.Fatal("database connection failed", "error", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.CustomerProfile{},
		&models.Vehicle{},
		&models.ServicePackage{},
	); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}

	if err := services.SeedUsers(db, appLog); err != nil {
		appLog.Fatal("seeding users failed", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db, appLog)
	appLog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
