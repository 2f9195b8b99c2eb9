package main

import (
	"log"
	"os"
	"time"

	_ "github.com/masakazoo1979/dailyReport-sub001/api/swagger" // swagger docs
	"github.com/masakazoo1979/dailyReport-sub001/internal/database"
	"github.com/masakazoo1979/dailyReport-sub001/internal/handler"
	"github.com/masakazoo1979/dailyReport-sub001/internal/middleware"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/service"
	"github.com/masakazoo1979/dailyReport-sub001/internal/ws"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Sales Daily Report API
// @version         1.0
// @description     API for managing sales daily reports with a submission/approval workflow.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub for report lifecycle events
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Login throttling: 5 failed attempts locks the account for 15 minutes.
	loginLimiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute, 5*time.Minute)
	defer loginLimiter.Close()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	salesPersonRepo := repository.NewSalesPersonRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	salesPersonService := service.NewSalesPersonService(salesPersonRepo, loginLimiter, middleware.GetJWTSecret())
	customerService := service.NewCustomerService(customerRepo)
	reportService := service.NewReportService(reportRepo, commentRepo, customerRepo, salesPersonRepo, txManager, wsHub)
	statisticsService := service.NewStatisticsService(db, salesPersonRepo)

	// Initialize Handlers
	salesPersonHandler := handler.NewSalesPersonHandler(salesPersonService)
	customerHandler := handler.NewCustomerHandler(customerService)
	reportHandler := handler.NewReportHandler(reportService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for report lifecycle events
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	salesPersonHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
