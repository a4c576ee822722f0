package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hradmin/bootstrap"
	"hradmin/common"
	"hradmin/config"
	"hradmin/database"
	"hradmin/middleware"
	authAPI "hradmin/modules/auth/delivery/api"
	authRepo "hradmin/modules/auth/repository"
	authUC "hradmin/modules/auth/usecase"
	authzUC "hradmin/modules/authz/usecase"
	departmentAPI "hradmin/modules/department/delivery/api"
	departmentRepo "hradmin/modules/department/repository"
	departmentUC "hradmin/modules/department/usecase"
	employeeAPI "hradmin/modules/employee/delivery/api"
	employeeRepo "hradmin/modules/employee/repository"
	employeeUC "hradmin/modules/employee/usecase"
	permissionAPI "hradmin/modules/permission/delivery/api"
	permissionRepo "hradmin/modules/permission/repository"
	permissionUC "hradmin/modules/permission/usecase"
	roleAPI "hradmin/modules/role/delivery/api"
	roleRepo "hradmin/modules/role/repository"
	roleUC "hradmin/modules/role/usecase"
	userAPI "hradmin/modules/user/delivery/api"
	userRepo "hradmin/modules/user/repository"
	userUC "hradmin/modules/user/usecase"
	"hradmin/pkg/cache"
	"hradmin/pkg/log"
	"hradmin/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Parse command line flags
	envPath := flag.String("env-file", "", "ENV config file path")
	yamlPath := flag.String("config", "./config/config.yml", "YAML config file path")
	flag.Parse()

	configPaths := []string{*yamlPath}
	if *envPath == "" {
		fmt.Printf("App is starting with config path is '%s' and no load env file\n", *yamlPath)
	} else {
		fmt.Printf("App is starting with config path is '%s' and env path is '%s'...\n", *yamlPath, *envPath)
		configPaths = append(configPaths, *envPath)
	}

	cfg, err := config.Load(configPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	// Initialize logger
	var logger log.Logger
	if cfg.App().IsProduction() {
		logger = log.MustNewProductionLogger(cfg.App().Name(), cfg.App().Version())
	} else {
		logger = log.MustNewDevelopmentLogger()
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	// Set logger for common package using adapter and as default logger
	loggerAdapter := common.NewLoggerAdapter(logger)
	common.SetLogger(loggerAdapter)
	log.SetDefaultLogger(logger)

	logger.Info("Application starting",
		log.String("name", cfg.App().Name()),
		log.String("version", cfg.App().Version()),
		log.String("environment", cfg.App().Environment()),
		log.String("config_path", *yamlPath),
	)

	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", log.Error(err))
	}

	if err = database.MigrateDB(db); err != nil {
		logger.Fatal("Failed to migrate database", log.Error(err))
	}

	logger.Info("Database connected and migrated successfully")

	// Initialize cache for list caching and rate limiting
	cacheConfig := &cache.Config{
		Host:       cfg.Redis().Host(),
		Port:       cfg.Redis().Port(),
		Password:   cfg.Redis().Password(),
		DB:         cfg.Redis().DB(),
		DefaultTTL: cfg.Cache().DefaultTTL(),
	}

	cacheFactory := cache.NewCacheFactory(loggerAdapter)
	cacheClient, err := cacheFactory.CreateCache(cache.Provider(cfg.Cache().Provider()), cacheConfig)
	if err != nil {
		logger.Fatal("Failed to create cache client", log.Error(err))
	}
	defer cacheClient.Close()

	logger.Info("Cache connected successfully", log.String("provider", cfg.Cache().Provider()))

	// Initialize repositories
	users := userRepo.NewPgUserRepo(db)
	sessions := authRepo.NewPgUserSessionRepo(db)
	roles := roleRepo.NewPgRoleRepo(db)
	permissions := permissionRepo.NewPgPermissionRepo(db)
	departments := departmentRepo.NewPgDepartmentRepo(db)
	employees := employeeRepo.NewPgEmployeeRepo(db)

	bcryptHasher := common.NewBcryptHasher()
	jwtProvider := common.NewJWTProvider(cfg.App())

	// The authorization core backs both the middleware gate and the
	// deletion guards of the role and permission usecases.
	authzUsecase := authzUC.NewAuthzUsecase(users, roles, permissions, database.NewTxManager(db))

	// Initialize usecases
	authUsecase := authUC.NewAuthUsecase(users, sessions, jwtProvider, authzUsecase, bcryptHasher)
	userUsecase := userUC.NewUserUsecase(users, roles, permissions, employees, bcryptHasher)
	roleUsecase := roleUC.NewRoleUsecase(roles, permissions, authzUsecase)
	permissionUsecase := permissionUC.NewPermissionUsecase(permissions, authzUsecase)
	departmentUsecase := departmentUC.NewDepartmentUsecase(departments, employees, cacheClient, cfg.Cache().DefaultTTL(), logger)
	employeeUsecase := employeeUC.NewEmployeeUsecase(employees, departments, cacheClient, cfg.Cache().DefaultTTL(), logger)

	// Seed the permission catalog and the default superuser
	seeder := bootstrap.NewCatalogSeeder(permissions, users, bcryptHasher, bootstrap.SeedConfig{
		SuperuserEmail:    cfg.App().SuperuserDefaultEmail(),
		SuperuserPassword: cfg.App().SuperuserDefaultPassword(),
	}, logger)
	if err := seeder.Seed(context.Background()); err != nil {
		logger.Fatal("Failed to seed permission catalog", log.Error(err))
	}

	// Initialize dependencies for middlewares
	deps := middleware.Dependencies{
		Cache:       cacheClient,
		Logger:      logger,
		JwtProvider: jwtProvider,
		SessionRepo: sessions,
		UserRepo:    users,
		Authorizer:  authzUsecase,
	}

	// Create middlewares instance
	middlewares := middleware.NewMiddlewares(deps)

	// Initialize handlers
	authHandler := authAPI.NewAuthHandler(authUsecase, authzUsecase, middlewares)
	userHandler := userAPI.NewUserHandler(userUsecase, middlewares)
	roleHandler := roleAPI.NewRoleHandler(roleUsecase, middlewares)
	permissionHandler := permissionAPI.NewPermissionHandler(permissionUsecase, middlewares)
	departmentHandler := departmentAPI.NewDepartmentHandler(departmentUsecase, middlewares)
	employeeHandler := employeeAPI.NewEmployeeHandler(employeeUsecase, middlewares)

	// Register custom binding validators before building the engine
	validator.RegisterValidatorWithGin()

	// Disable Gin's default logger and recovery
	gin.DisableConsoleColor()
	gin.SetMode(gin.ReleaseMode)

	// Create Gin server without default middleware
	r := gin.New()

	// Add custom middleware in order
	r.Use(middlewares.CORSWithLogger())
	r.Use(middlewares.RequestIDMiddleware())

	// Add general rate limiting middleware
	r.Use(middlewares.RateLimitWithLogger(middleware.RateLimitConfig{
		WindowSize:  time.Minute,
		MaxRequests: 100,
		KeyPrefix:   "global:",
		SkipPaths:   []string{"/health"},
	}))

	r.Use(middlewares.LoggingMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))
	r.Use(gin.Recovery())

	// Register routes
	apiGroup := r.Group("/api/v1")
	authHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	roleHandler.RegisterRoutes(apiGroup)
	permissionHandler.RegisterRoutes(apiGroup)
	departmentHandler.RegisterRoutes(apiGroup)
	employeeHandler.RegisterRoutes(apiGroup)

	// Add health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "timestamp": time.Now().Unix()})
	})

	// Graceful shutdown setup
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server().Port()),
		Handler:        r,
		ReadTimeout:    cfg.Server().ReadTimeout(),
		WriteTimeout:   cfg.Server().WriteTimeout(),
		IdleTimeout:    cfg.Server().IdleTimeout(),
		MaxHeaderBytes: cfg.Server().MaxHeaderBytes(),
	}

	// Run server in goroutine
	go func() {
		logger.Info("Starting HTTP server",
			log.Int("port", cfg.Server().Port()),
			log.String("host", cfg.Server().Host()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", log.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	} else {
		logger.Info("Server exited gracefully")
	}
}
