package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/BORETS2002/Sotuv-Admin-Baza/api/swagger" // swagger docs
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/database"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/handler"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/middleware"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/websocket"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Warehouse Administration API
// @version         1.0
// @description     Inventory, issue/receive workflow, reporting and audit backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logger.L().Info("no configs/.env file found, using process environment")
	}

	logger.Init(os.Getenv("GIN_MODE"))
	log := logger.L()

	dsn := "postgres://" + env("DB_USER", "postgres") + ":" + env("DB_PASSWORD", "postgres") +
		"@" + env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432") +
		"/" + env("DB_NAME", "postgres") + "?sslmode=" + env("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres")

	if env("DB_AUTOMIGRATE", "false") == "true" {
		if err := database.Migrate(db); err != nil {
			log.Error("auto-migration failed", "error", err)
			os.Exit(1)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, convErr := strconv.Atoi(raw); convErr == nil && hours > 0 {
			sessionTTL = time.Duration(hours) * time.Hour
		}
	}
	sessions := session.NewStore(rdb, sessionTTL)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	activityLogger := service.NewActivityLogger(activityRepo, 256)
	defer activityLogger.Close()

	userService := service.NewUserService(userRepo, employeeRepo, transactionRepo, reportRepo,
		activityRepo, txManager, sessions, activityLogger, middleware.GetJWTSecret(), sessionTTL)
	departmentService := service.NewDepartmentService(departmentRepo, activityLogger)
	employeeService := service.NewEmployeeService(employeeRepo, activityLogger)
	categoryService := service.NewCategoryService(categoryRepo, activityLogger)
	itemService := service.NewItemService(itemRepo, transactionRepo, txManager, activityLogger, wsHub)
	orderService := service.NewOrderService(itemRepo, transactionRepo, employeeRepo, txManager, activityLogger, wsHub)
	transactionService := service.NewTransactionService(transactionRepo)
	reportService := service.NewReportService(reportRepo, transactionRepo, txManager, activityLogger)
	activityService := service.NewActivityService(activityRepo)
	statisticsService := service.NewStatisticsService(db)

	// Handlers
	userHandler := handler.NewUserHandler(userService, sessions)
	departmentHandler := handler.NewDepartmentHandler(departmentService, sessions)
	employeeHandler := handler.NewEmployeeHandler(employeeService, sessions)
	categoryHandler := handler.NewCategoryHandler(categoryService, sessions)
	itemHandler := handler.NewItemHandler(itemService, sessions)
	orderHandler := handler.NewOrderHandler(orderService, sessions)
	transactionHandler := handler.NewTransactionHandler(transactionService, sessions)
	reportHandler := handler.NewReportHandler(reportService, sessions)
	activityHandler := handler.NewActivityHandler(activityService, sessions)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, sessions)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	root := router.Group("")
	userHandler.RegisterRoutes(root)
	departmentHandler.RegisterRoutes(root)
	employeeHandler.RegisterRoutes(root)
	categoryHandler.RegisterRoutes(root)
	itemHandler.RegisterRoutes(root)
	orderHandler.RegisterRoutes(root)
	transactionHandler.RegisterRoutes(root)
	reportHandler.RegisterRoutes(root)
	activityHandler.RegisterRoutes(root)
	statisticsHandler.RegisterRoutes(root)

	port := env("PORT", "8080")

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", port)
		errCh <- router.Run(":" + port)
	}()

	// Block until the server dies or we get a shutdown signal, so the
	// deferred activity logger drain runs on the way out.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error("server failed", "error", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}
}
