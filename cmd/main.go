package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"

	echojwt "github.com/labstack/echo-jwt/v4"

	"pressroom/internal/caching"
	"pressroom/internal/handlers"
	"pressroom/internal/jobs/background"
	"pressroom/internal/middleware"
	"pressroom/internal/repositories"
	"pressroom/internal/services"
	"pressroom/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	jwksURL := os.Getenv("AUTH_JWKS_URL")

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	mediaBucket := os.Getenv("MEDIA_BUCKET")
	if mediaBucket == "" {
		mediaBucket = "pressroom-media"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), mediaBucket); err != nil {
		log.Printf("WARNING: failed to ensure media bucket exists: %v", err)
	}

	// Create repositories
	menuRepo := repositories.NewMenuRepo(pool)
	vocabularyRepo := repositories.NewVocabularyRepo(pool)
	postRepo := repositories.NewPostRepo(pool)
	pageRepo := repositories.NewPageRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	fileRepo := repositories.NewFileRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	menuSvc := services.NewMenuService(menuRepo, cacheSvc)
	taxonomySvc := services.NewTaxonomyService(vocabularyRepo, cacheSvc)
	postSvc := services.NewPostService(postRepo)
	pageSvc := services.NewPageService(pageRepo)
	mediaSvc := services.NewMediaService(fileRepo, minioSvc, mediaBucket)
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, 15*time.Minute, 7*24*time.Hour)

	// Create handlers
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	taxonomyHandlers := handlers.NewTaxonomyHandlers(taxonomySvc)
	postHandlers := handlers.NewPostHandlers(postSvc)
	pageHandlers := handlers.NewPageHandlers(pageSvc)
	mediaHandlers := handlers.NewMediaHandlers(mediaSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// JWT middleware configuration
	jwtConfig, err := middleware.NewJWTConfig(jwtSecret, jwksURL)
	if err != nil {
		log.Fatalf("Failed to configure JWT middleware: %v", err)
	}

	// Background jobs
	scheduler, err := background.NewJobScheduler(postSvc, menuSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))

	protected.GET("/me", authHandlers.Me)

	// Menu routes
	protected.GET("/menus", menuHandlers.ListMenus)
	protected.POST("/menus", menuHandlers.CreateMenu)
	protected.GET("/menus/tree", menuHandlers.GetMenuTrees)
	protected.GET("/menus/:id", menuHandlers.GetMenu)
	protected.PUT("/menus/:id", menuHandlers.UpdateMenu)
	protected.DELETE("/menus/:id", menuHandlers.DeleteMenu)
	protected.GET("/menus/:id/tree", menuHandlers.GetMenuTree)
	protected.POST("/menus/:id/items", menuHandlers.CreateItem)
	protected.GET("/menu-items/:id", menuHandlers.GetItem)
	protected.PUT("/menu-items/:id", menuHandlers.UpdateItem)
	protected.DELETE("/menu-items/:id", menuHandlers.DeleteItem)

	// Taxonomy routes
	protected.GET("/vocabularies", taxonomyHandlers.ListVocabularies)
	protected.POST("/vocabularies", taxonomyHandlers.CreateVocabulary)
	protected.GET("/vocabularies/tree", taxonomyHandlers.GetTermTrees)
	protected.GET("/vocabularies/:id", taxonomyHandlers.GetVocabulary)
	protected.PUT("/vocabularies/:id", taxonomyHandlers.UpdateVocabulary)
	protected.DELETE("/vocabularies/:id", taxonomyHandlers.DeleteVocabulary)
	protected.GET("/vocabularies/:id/tree", taxonomyHandlers.GetTermTree)
	protected.POST("/vocabularies/:id/terms", taxonomyHandlers.CreateTerm)
	protected.GET("/terms/:id", taxonomyHandlers.GetTerm)
	protected.PUT("/terms/:id", taxonomyHandlers.UpdateTerm)
	protected.DELETE("/terms/:id", taxonomyHandlers.DeleteTerm)

	// Post routes
	protected.GET("/posts", postHandlers.ListPosts)
	protected.POST("/posts", postHandlers.CreatePost)
	protected.GET("/posts/:id", postHandlers.GetPost)
	protected.PUT("/posts/:id", postHandlers.UpdatePost)
	protected.POST("/posts/:id/publish", postHandlers.PublishPost)
	protected.DELETE("/posts/:id", postHandlers.DeletePost)

	// Page routes
	protected.GET("/pages", pageHandlers.ListPages)
	protected.POST("/pages", pageHandlers.CreatePage)
	protected.GET("/pages/:id", pageHandlers.GetPage)
	protected.PUT("/pages/:id", pageHandlers.UpdatePage)
	protected.DELETE("/pages/:id", pageHandlers.DeletePage)

	// Media routes
	protected.GET("/files", mediaHandlers.ListFiles)
	protected.POST("/files", mediaHandlers.UploadFile)
	protected.GET("/files/:id/url", mediaHandlers.GetFileURL)
	protected.DELETE("/files/:id", mediaHandlers.DeleteFile)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Pressroom admin backend v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
