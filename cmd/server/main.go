package main

import (
	"log"
	"os"
	"strconv"

	"pitchpilot/config"
	"pitchpilot/controllers"
	"pitchpilot/db"
	"pitchpilot/middlewares"
	"pitchpilot/routes"
	"pitchpilot/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	provider, err := services.NewIdentityProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to set up identity provider: %v", err)
	}

	analysisClient := services.NewAnalysisClient(cfg.AnalysisAPI.BaseURL, nil)
	log.Printf("Analysis API at %s", cfg.AnalysisAPI.BaseURL)

	controllers.Provider = provider
	controllers.AnalysisAPIFor = func(c *gin.Context) controllers.AnalysisBackend {
		// Forward the caller's bearer token on every analysis API call.
		return analysisClient.WithToken(c.GetString("accessToken"))
	}

	router := setupRouter(provider)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(provider services.IdentityProvider) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// CORS for the frontend dev server (Vite on localhost:5173)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes
	router.GET("/", func(c *gin.Context) { controllers.Landing(c) })
	router.GET("/health", func(c *gin.Context) { controllers.Health(c) })
	router.POST("/signup", routes.SignUpRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)
	router.POST("/logout", routes.LogoutRouteHandler)
	router.POST("/verifyToken", routes.VerifyTokenRouteHandler)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware(provider))
	{
		auth.POST("/pitch/analyze", routes.AnalyzePitchRouteHandler)
		auth.GET("/pitch/:id", routes.GetPitchRouteHandler)
		auth.GET("/dashboard", routes.DashboardRouteHandler)
		auth.GET("/user/profile", routes.GetProfileRouteHandler)
		auth.PUT("/user/profile", routes.UpdateProfileRouteHandler)

		routes.SetupQARoutes(auth)
	}

	return router
}
