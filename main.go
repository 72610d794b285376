package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-management-system/backend/internal/cache"
	"task-management-system/backend/internal/config"
	"task-management-system/backend/internal/database"
	"task-management-system/backend/internal/handlers"
	"task-management-system/backend/internal/middleware"
	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/monitoring"
	"task-management-system/backend/internal/repositories"
	"task-management-system/backend/internal/services"
	"task-management-system/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		Driver:          cfg.Database.Driver,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logLevel,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.Server.SeedData {
		bootstrapper := services.NewBootstrapper(pool.DB)
		if err := bootstrapper.Run(context.Background()); err != nil {
			log.Fatalf("failed to bootstrap database: %v", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	redisCache := cache.NewRedisCacheWithClient(redisClient)
	defer redisCache.Close()

	userService := services.NewUserService(pool.DB)
	taskRepo := repositories.NewTaskRepository(pool.DB)
	taskService := services.NewTaskServiceWithConfig(taskRepo, userService, services.TaskServiceConfig{
		NormalizeOwnerRole: cfg.Task.NormalizeOwnerRole,
	})
	cachedTasks := services.NewCachedTaskService(taskService, redisCache)

	authService := services.NewAuthService(userService, services.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	})

	jobQueue := worker.NewJobQueue(redisClient)
	jobWorker := worker.NewWorker(worker.Config{
		RedisClient: redisClient,
		Queues:      cfg.Worker.Queues,
	})
	registerJobHandlers(jobWorker, redisCache)
	jobWorker.Start(cfg.Worker.Concurrency)
	defer jobWorker.Stop()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return pool.Health()
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	router := buildRouter(cfg, cachedTasks, userService, authService, jobQueue)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func buildRouter(
	cfg *config.Config,
	tasks services.TaskService,
	users services.UserService,
	auth services.AuthService,
	jobs *worker.JobQueue,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstSize,
			cfg.RateLimit.ClientTTL,
		)
		router.Use(limiter.Middleware())
		go func() {
			ticker := time.NewTicker(cfg.RateLimit.ClientTTL)
			defer ticker.Stop()
			for range ticker.C {
				limiter.Cleanup()
			}
		}()
	}

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/live", monitoring.LivenessHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	taskHandler := handlers.NewTaskHandler(tasks, jobs)
	userHandler := handlers.NewUserHandler(users)
	authHandler := handlers.NewAuthHandler(auth, cfg.Auth.TokenTTL)

	api := router.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	authzCfg := middleware.AuthzConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	}
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authzCfg))

	taskRoutes := authed.Group("/tasks")
	taskRoutes.POST("", middleware.RequireRole(models.RoleAdmin), taskHandler.CreateTask)
	taskRoutes.GET("", middleware.RequireRole(models.RoleAdmin), taskHandler.GetTasks)
	taskRoutes.GET("/user/:userId", middleware.RequireRole(models.RoleAdmin), taskHandler.GetTasksByUser)
	taskRoutes.GET("/:id", taskHandler.GetTaskByID)
	taskRoutes.PUT("/:id", taskHandler.UpdateTask)
	taskRoutes.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), taskHandler.DeleteTask)

	userRoutes := authed.Group("/users")
	userRoutes.Use(middleware.RequireRole(models.RoleAdmin))
	userRoutes.GET("", userHandler.GetUsers)
	userRoutes.POST("", userHandler.CreateUser)
	userRoutes.PUT("/:id", userHandler.UpdateUser)
	userRoutes.DELETE("/:id", userHandler.DeleteUser)

	return router
}

// registerJobHandlers wires the background job types. Notification
// delivery is a log line until a mail transport exists.
func registerJobHandlers(w *worker.Worker, redisCache *cache.RedisCache) {
	w.RegisterHandler(worker.JobTypeTaskAssigned, func(ctx context.Context, job *worker.Job) error {
		log.Printf("task %v assigned to user %v (%v)",
			job.Payload["task_id"], job.Payload["assigned_user_id"], job.Payload["title"])
		return nil
	})

	w.RegisterHandler(worker.JobTypeTaskReminder, func(ctx context.Context, job *worker.Job) error {
		log.Printf("reminder for task %v", job.Payload["task_id"])
		return nil
	})

	w.RegisterHandler(worker.JobTypeCleanup, func(ctx context.Context, job *worker.Job) error {
		pattern, _ := job.Payload["pattern"].(string)
		if pattern == "" {
			return nil
		}
		return redisCache.DeletePattern(pattern)
	})
}
