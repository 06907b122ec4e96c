package main

import (
	"log"
	"os"
	"strings"

	_ "transitflow/api/swagger" // swagger docs
	"transitflow/internal/categorize"
	"transitflow/internal/database"
	"transitflow/internal/handler"
	"transitflow/internal/middleware"
	"transitflow/internal/repository"
	"transitflow/internal/service"
	"transitflow/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           TransitFlow API
// @version         1.0
// @description     Back-office API for a freight forwarding operation: BL dossiers, expenses, fleet, accounting and the PIN-gated approval workflow.
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
		dbName = "transitflow"
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

	jwtSecret := middleware.GetJWTSecret()
	adminEmails := strings.Split(os.Getenv("ADMIN_EMAILS"), ",")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	auditRepo := repository.NewSessionAuditRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	clientRepo := repository.NewClientRepository(db)
	blRepo := repository.NewBLRepository(db)
	containerRepo := repository.NewContainerRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	workTypeRepo := repository.NewWorkTypeRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	transportRepo := repository.NewTransportRepository(db)
	accountingRepo := repository.NewAccountingRepository(db)
	secretaryRepo := repository.NewSecretaryDocumentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	txManager := repository.NewTransactionManager(db)

	categorizer := categorize.NewClient(os.Getenv("CATEGORIZE_URL"))

	userService := service.NewUserService(userRepo, tokenRepo, auditRepo, jwtSecret, adminEmails)
	approvalService := service.NewApprovalService(approvalRepo, userRepo, service.EntityStores{
		BLs:        blRepo,
		Clients:    clientRepo,
		WorkTypes:  workTypeRepo,
		Expenses:   expenseRepo,
		Containers: containerRepo,
	}, txManager, jwtSecret)
	clientService := service.NewClientService(clientRepo)
	blService := service.NewBLService(blRepo, clientRepo, categorizer)
	containerService := service.NewContainerService(containerRepo, blRepo)
	expenseService := service.NewExpenseService(expenseRepo, blRepo, workTypeRepo)
	workTypeService := service.NewWorkTypeService(workTypeRepo)
	fleetService := service.NewFleetService(truckRepo, driverRepo)
	transportService := service.NewTransportService(transportRepo, truckRepo, driverRepo, blRepo)
	accountingService := service.NewAccountingService(accountingRepo, blRepo, clientRepo)
	secretaryService := service.NewSecretaryService(secretaryRepo, clientRepo, blRepo)
	chatService := service.NewChatService(chatRepo, userRepo, wsHub)
	todoService := service.NewTodoService(todoRepo, userRepo, wsHub)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	clientHandler := handler.NewClientHandler(clientService)
	blHandler := handler.NewBLHandler(blService, containerService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	workTypeHandler := handler.NewWorkTypeHandler(workTypeService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	transportHandler := handler.NewTransportHandler(transportService)
	accountingHandler := handler.NewAccountingHandler(accountingService)
	secretaryHandler := handler.NewSecretaryHandler(secretaryService)
	chatHandler := handler.NewChatHandler(chatService, todoService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, jwtSecret)
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	approvalHandler.RegisterRoutes(router.Group(""))
	clientHandler.RegisterRoutes(router.Group(""))
	blHandler.RegisterRoutes(router.Group(""))
	expenseHandler.RegisterRoutes(router.Group(""))
	workTypeHandler.RegisterRoutes(router.Group(""))
	fleetHandler.RegisterRoutes(router.Group(""))
	transportHandler.RegisterRoutes(router.Group(""))
	accountingHandler.RegisterRoutes(router.Group(""))
	secretaryHandler.RegisterRoutes(router.Group(""))
	chatHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
