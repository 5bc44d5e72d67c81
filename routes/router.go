package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streakhub/server/config"
	"github.com/streakhub/server/controllers"
	"github.com/streakhub/server/middleware"
	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

// Deps carries the wired service instances into the router. No package
// level singletons beyond logging and config.
type Deps struct {
	DB          *gorm.DB
	Membership  services.Membership
	Catalog     *services.CatalogService
	Enrollments *services.EnrollmentService
	Checkins    *services.CheckinService
	Leaderboard *services.LeaderboardService
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
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
	r.Use(utils.Ginzap(utils.Logger))
	r.Use(utils.RecoveryWithZap(utils.Logger))

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

	authController := controllers.NewAuthController(deps.DB, deps.Membership)
	challengeController := controllers.NewChallengeController(deps.Catalog, deps.Enrollments)
	checkinController := controllers.NewCheckinController(deps.Catalog, deps.Enrollments, deps.Checkins)
	leaderboardController := controllers.NewLeaderboardController(deps.Leaderboard, deps.Checkins)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/telegram", authController.TelegramLogin)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog
	api.GET("/challenges", challengeController.ListChallenges)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/challenges/:slug/enroll", challengeController.Enroll)
	protected.GET("/challenges/mine", challengeController.MyChallenges)
	protected.POST("/checkins/:slug", checkinController.CreateCheckin)
	protected.GET("/stats/me", checkinController.MyStats)
	protected.GET("/leaderboard/weekly", leaderboardController.Weekly)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
