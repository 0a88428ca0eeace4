package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hydrocal/hydrocal/config"
	"github.com/hydrocal/hydrocal/controllers"
	"github.com/hydrocal/hydrocal/middleware"
	"github.com/hydrocal/hydrocal/services"
	"github.com/hydrocal/hydrocal/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *services.TrackerStore, engine *services.StreakEngine, recorder *services.ProgressRecorder, recipes *services.RecipeService) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	profileController := controllers.NewProfileController(db)
	trackerController := controllers.NewTrackerController(db, recorder, engine, store)
	recipeController := controllers.NewRecipeController(db, recipes, recorder, store)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/profile", profileController.GetProfile)
	protected.PUT("/profile", profileController.UpdateProfile)

	protected.POST("/tracker/water", trackerController.AddWater)
	protected.POST("/tracker/meals", trackerController.AddMeal)
	protected.GET("/tracker/meals", trackerController.ListMeals)
	protected.GET("/tracker/progress", trackerController.GetProgress)
	protected.GET("/tracker/streak", trackerController.GetStreak)

	// LLM calls are expensive; rate limit them like auth.
	protected.POST("/recipes/suggest", middleware.RateLimitMiddleware(), recipeController.Suggest)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
