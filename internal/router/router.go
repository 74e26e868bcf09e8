package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/arent-kient/api-key-dashboard/internal/config"
	"github.com/arent-kient/api-key-dashboard/internal/handlers"
	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/services/events"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
	"github.com/arent-kient/api-key-dashboard/internal/web"
)

// Services are the dependencies shared by the handlers
type Services struct {
	Config      *config.Config
	APIKeys     *api_key.Service
	Auth        *auth.AuthService
	Registry    *keymanager.Registry
	Preferences preferences.Store
	Hub         *events.Hub
}

// SetupRouter configures the Gin router with the dashboard pages and the API
func SetupRouter(s Services) (*gin.Engine, error) {
	cfg := s.Config

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-api-key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Session(s.Auth))
	r.Use(middleware.RouteGuard())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	apiKeyHandler := handlers.NewAPIKeyHandler(s.APIKeys)
	eventsHandler := handlers.NewEventsHandler(s.Hub)
	authHandler := handlers.NewAuthHandler(s.Auth, s.Registry, s.Preferences, cfg.CookieSecure)
	dashboardHandler := handlers.NewDashboardHandler(s.Registry, s.Preferences, cfg.PlanName, cfg.PlanLimit, cfg.CookieSecure)
	playgroundHandler := handlers.NewPlaygroundHandler(s.APIKeys, s.Preferences, s.Auth.SessionTTL(), cfg.CookieSecure)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Pages
	r.GET("/", authHandler.Home)
	r.GET("/auth/signin", authHandler.SignInPage)
	r.GET("/auth/signout", authHandler.SignOutPage)
	r.GET("/auth/error", authHandler.ErrorPage)

	dashboards := r.Group("/dashboards")
	{
		dashboards.GET("", dashboardHandler.Show)
		dashboards.POST("/keys", dashboardHandler.CreateKey)
		dashboards.POST("/keys/:id/rename", dashboardHandler.RenameKey)
		dashboards.POST("/keys/:id/delete", dashboardHandler.DeleteKey)
		dashboards.POST("/keys/:id/toggle", dashboardHandler.ToggleKey)
		dashboards.POST("/error/clear", dashboardHandler.ClearError)
		dashboards.POST("/preferences/sidebar", dashboardHandler.ToggleSidebar)
		dashboards.POST("/preferences/theme", dashboardHandler.ToggleTheme)
	}

	r.GET("/playground", playgroundHandler.Show)
	r.POST("/playground", playgroundHandler.Submit)
	r.GET("/protected", playgroundHandler.Protected)
	r.POST("/protected/clear", playgroundHandler.Clear)

	// API
	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.GET("/signin/google", authHandler.SignInGoogle)
			authRoutes.GET("/callback/google", authHandler.CallbackGoogle)
			authRoutes.POST("/signout", authHandler.SignOut)
			authRoutes.GET("/session", authHandler.Session)
		}

		keys := api.Group("/keys")
		if cfg.APIAuthRequired {
			keys.Use(middleware.RequireSession())
		}
		{
			keys.GET("", apiKeyHandler.List)
			keys.POST("", apiKeyHandler.Create)
			keys.GET("/events", eventsHandler.Stream)
			keys.GET("/export", apiKeyHandler.Export)
			keys.GET("/:id", apiKeyHandler.Get)
			keys.PATCH("/:id", apiKeyHandler.Patch)
			keys.DELETE("/:id", apiKeyHandler.Delete)
		}

		api.GET("/protected", middleware.APIKeyAuth(s.APIKeys), apiKeyHandler.Protected)
	}

	return r, nil
}
