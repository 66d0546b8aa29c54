package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/bookly-app/config"
	"github.com/yeremiapane/bookly-app/middlewares"
	"github.com/yeremiapane/bookly-app/models"
	"github.com/yeremiapane/bookly-app/router"
	"github.com/yeremiapane/bookly-app/utils"
)

func init() {
	// Load .env before reading any configuration.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	autoMigrate(db)

	// 50 req/s per IP with some headroom for bursts.
	rateLimiter := middlewares.NewRateLimiter(50, 100)

	r := router.SetupRouter(db, cfg)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("%s listening on port %s", cfg.AppName, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Customer{},
		&models.Booking{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
