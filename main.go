package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	flutterwaveControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/flutterwave"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
	"github.com/AaronTech112/Soft-Boy-Crowm/logging"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
	"github.com/AaronTech112/Soft-Boy-Crowm/notifications"
	"github.com/AaronTech112/Soft-Boy-Crowm/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./logs/app.log"
	}
	logger := logging.Init("app", logFile)
	logger.Info("starting application", "app", cfg.App.Name)

	db := initDatabase()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.GuestUser{},
		&models.Category{},
		&models.Size{},
		&models.Color{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Transaction{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("automigrate failed: %v", err)
	}

	gateway := flutterwaveControllers.NewClient(cfg.Payment)
	pipeline := &orderControllers.Pipeline{
		DB:       db,
		Verifier: gateway,
		Currency: cfg.Payment.Currency,
		Notifier: notifications.NewEmailer(cfg.Mail),
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, db, cfg, gateway, pipeline)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	if port == "" {
		port = "8080"
	}
	logger.Info("server listening", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// initDatabase sets up the GORM DB connection. TranslateError is on so
// unique violations surface as gorm.ErrDuplicatedKey.
func initDatabase() *gorm.DB {
	gormCfg := &gorm.Config{TranslateError: true}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), gormCfg)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	return db
}
