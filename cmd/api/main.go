package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hrga-tools/locker-api/api/swagger"
	"github.com/hrga-tools/locker-api/internal/handler"
	"github.com/hrga-tools/locker-api/internal/middleware"
	"github.com/hrga-tools/locker-api/internal/repository"
	"github.com/hrga-tools/locker-api/internal/service"
	"github.com/hrga-tools/locker-api/pkg/cache"
	"github.com/hrga-tools/locker-api/pkg/config"
	"github.com/hrga-tools/locker-api/pkg/database"
	"github.com/hrga-tools/locker-api/pkg/logger"
	corsmiddleware "github.com/hrga-tools/locker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hrga-tools/locker-api/pkg/middleware/requestid"
)

// @title Locker Management API
// @version 1.0.0
// @description Locker, key and contract administration for the HRGA facility
// @BasePath /
// @schemes http

func main() {
	seed := flag.Bool("seed", false, "provision the locker and key inventory, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	employeeRepo := repository.NewEmployeeRepository(db)
	lockerRepo := repository.NewLockerRepository(db)
	keyRepo := repository.NewKeyRepository(db)
	contractRepo := repository.NewContractRepository(db)
	keyLogRepo := repository.NewKeyLogRepository(db)

	if *seed {
		provisioner := service.NewProvisionService(lockerRepo, keyRepo, logr)
		summary, err := provisioner.Provision(context.Background())
		if err != nil {
			logr.Sugar().Fatalw("provisioning failed", "error", err)
		}
		logr.Sugar().Infow("provisioning complete",
			"lockers", summary.Lockers, "keys", summary.Keys, "skipped", summary.Skipped)
		return
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()

	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr)
	employeeImportSvc := service.NewEmployeeImportService(employeeRepo, logr)
	lockerSvc := service.NewLockerService(lockerRepo, contractRepo, keyRepo, keyLogRepo, logr)
	keySvc := service.NewKeyService(keyRepo, lockerRepo, validate, logr)
	contractSvc := service.NewContractService(contractRepo, lockerRepo, employeeRepo, validate, logr)
	keyLogSvc := service.NewKeyLogService(keyLogRepo, lockerRepo, employeeRepo, validate, logr)
	importSvc := service.NewAssignmentImportService(lockerRepo, employeeRepo, contractRepo, keyRepo, logr, cfg.Import.MaxRows)
	qrSvc := service.NewQRLookupService(employeeRepo, contractRepo, keyLogRepo, logr)
	statsSvc := service.NewStatsService(lockerRepo, cacheSvc, metricsSvc, cfg.Stats.CacheTTL, logr)
	reportSvc := service.NewReportService(contractSvc, logr, nil, nil)

	employeeHandler := handler.NewEmployeeHandler(employeeSvc, employeeImportSvc)
	lockerHandler := handler.NewLockerHandler(lockerSvc)
	keyHandler := handler.NewKeyHandler(keySvc)
	contractHandler := handler.NewContractHandler(contractSvc, reportSvc)
	keyLogHandler := handler.NewKeyLogHandler(keyLogSvc)
	importHandler := handler.NewImportHandler(importSvc)
	qrHandler := handler.NewQRHandler(qrSvc)
	statsHandler := handler.NewStatsHandler(statsSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		employees := api.Group("/employees")
		employees.GET("", employeeHandler.List)
		employees.POST("", employeeHandler.Create)
		employees.POST("/import", employeeHandler.Import)
		employees.GET("/:id", employeeHandler.Get)
		employees.PATCH("/:id", employeeHandler.Update)
		employees.DELETE("/:id", employeeHandler.Delete)

		lockers := api.Group("/lockers")
		lockers.GET("", lockerHandler.List)
		lockers.GET("/search", lockerHandler.Search)
		lockers.GET("/:id", lockerHandler.Get)
		lockers.PATCH("/:id/status", lockerHandler.UpdateStatus)

		keys := api.Group("/keys")
		keys.GET("", keyHandler.List)
		keys.POST("", keyHandler.Create)
		keys.GET("/:id", keyHandler.Get)
		keys.PATCH("/:id", keyHandler.Update)
		keys.DELETE("/:id", keyHandler.Delete)

		contracts := api.Group("/contracts")
		contracts.GET("", contractHandler.List)
		contracts.POST("", contractHandler.Assign)
		contracts.GET("/overdue", contractHandler.Overdue)
		contracts.GET("/overdue/report", contractHandler.OverdueReport)

		keyLogs := api.Group("/key-logs")
		keyLogs.GET("", keyLogHandler.List)
		keyLogs.POST("", keyLogHandler.Record)

		imports := api.Group("/imports")
		imports.POST("/assignments", importHandler.ImportCSV)
		imports.POST("/assignments/rows", importHandler.ImportRows)

		api.GET("/qr/:nik", qrHandler.Lookup)

		stats := api.Group("/stats")
		stats.GET("/lockers", statsHandler.Lockers)
		stats.GET("/system", statsHandler.System)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
