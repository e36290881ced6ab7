package rest

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tandem/config"
	"tandem/internal/service"
)

type Handler struct {
	services *service.Services
	log      *zap.Logger
	cfg      *config.Config
}

func NewHandler(services *service.Services, log *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		log:      log,
		cfg:      cfg,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	if h.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), h.loggerMiddleware(), h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refresh)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users", h.authMiddleware())
		{
			users.GET("/me", h.getMe)
			users.PUT("/me", h.updateMe)
			users.PUT("/me/password", h.updatePassword)
			users.POST("/me/photo", h.uploadPhoto)
			users.GET("/:id", h.getUserByID)
			users.GET("", h.adminMiddleware(), h.listUsers)
			users.DELETE("/:id", h.adminMiddleware(), h.deleteUser)
		}

		availability := api.Group("/availability", h.authMiddleware())
		{
			availability.POST("/session", h.openEditor)
			availability.DELETE("/session/:id", h.closeEditor)
			availability.GET("/session/:id/week", h.week)
			availability.POST("/session/:id/windows", h.createWindow)
			availability.POST("/session/:id/slots", h.drawSlot)
			availability.PUT("/session/:id/windows", h.updateWindow)
			availability.DELETE("/session/:id/windows", h.deleteWindow)
			availability.POST("/session/:id/windows/convert", h.convertWindow)
			availability.POST("/session/:id/save", h.savePreference)
		}

		matches := api.Group("/matches", h.authMiddleware())
		{
			matches.GET("", h.matchCandidates)
		}
	}

	return router
}
