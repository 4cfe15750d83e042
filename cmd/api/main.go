package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/store"
	"backend/internal/websocket"
)

// @title           Work Order & Material Requisition API
// @version         1.0
// @description     Tracks work order lifecycles, the material catalogue, stock adjustments and material requisitions.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	// Canonical in-memory state store. Every mutation runs through a
	// copy-on-write transaction; events publish after commit.
	st := store.New()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Bridge committed store events onto the hub.
	st.Subscribe(func(e store.Event) {
		wsHub.BroadcastEvent(e.Name, e.Payload)
	})

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(st)
	workOrderRepo := repository.NewWorkOrderRepository(st)
	materialRepo := repository.NewMaterialRepository(st)
	movementRepo := repository.NewMovementRepository(st)
	requisitionRepo := repository.NewRequisitionRepository(st)
	warehouseRepo := repository.NewWarehouseRepository(st)
	auditRepo := repository.NewAuditRepository(st)
	userRepo := repository.NewUserRepository(st)

	workOrderService := service.NewWorkOrderService(workOrderRepo, auditRepo, txManager, st, model.DefaultProgressThresholds)
	materialService := service.NewMaterialService(materialRepo, auditRepo, txManager)
	stockService := service.NewStockService(materialRepo, movementRepo, auditRepo, txManager, st)
	requisitionService := service.NewRequisitionService(requisitionRepo, materialRepo, movementRepo, workOrderRepo, auditRepo, txManager, st)
	warehouseService := service.NewWarehouseService(warehouseRepo, auditRepo, txManager)
	statisticsService := service.NewStatisticsService(materialRepo, movementRepo, requisitionRepo, workOrderRepo, warehouseRepo, stockService)
	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo, auditRepo, txManager)

	// Initialize Handlers
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	materialHandler := handler.NewMaterialHandler(materialService)
	stockHandler := handler.NewStockHandler(stockService)
	requisitionHandler := handler.NewRequisitionHandler(requisitionService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	auditHandler := handler.NewAuditHandler(auditService)
	userHandler := handler.NewUserHandler(userService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
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
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	workOrderHandler.RegisterRoutes(router.Group(""))
	materialHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	requisitionHandler.RegisterRoutes(router.Group(""))
	warehouseHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
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

func corsOrigins() []string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:4200", "http://127.0.0.1:4200"}
}
