package router

import (
	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/config"
	"github.com/riadice/riadice-backend/internal/app/controller"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth            *controller.AuthController
	Menu            *controller.ResourceController[model.MenuItem]
	Specials        *controller.ResourceController[model.Special]
	Gallery         *controller.ResourceController[model.GalleryImage]
	Reservations    *controller.ResourceController[model.Reservation]
	ReservationFlow *controller.ReservationController
	Staff           *controller.StaffController
	Settings        *controller.SettingController
	Upload          *controller.UploadController
	Dashboard       *controller.DashboardController
	ReservationLink *controller.ReservationLinkController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
	// uploadsDir is served at /uploads when objects are stored on local disk
	uploadsDir string
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
	uploadsDir string,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
		uploadsDir:     uploadsDir,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Riad Ice API is running",
		})
	})

	if r.uploadsDir != "" {
		router.Static("/uploads", r.uploadsDir)
	}

	ctrl := r.controllers
	router.GET("/reserve", ctrl.ReservationLink.Reserve)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", ctrl.Auth.SignUp)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), ctrl.Auth.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), ctrl.Auth.Me)
		}

		public := v1.Group("/public")
		{
			public.GET("/menu", ctrl.Menu.ListPublic)
			public.GET("/specials", ctrl.Specials.ListPublic)
			public.GET("/gallery", ctrl.Gallery.ListPublic)
			public.GET("/settings", ctrl.Settings.Public)
			public.GET("/reservation-link", ctrl.ReservationLink.Link)
		}

		// admin or staff; role re-read from the database on every request
		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireStaff())
		{
			admin.GET("/dashboard", ctrl.Dashboard.Stats)

			ctrl.Menu.Register(admin.Group("/menu-items"))
			ctrl.Specials.Register(admin.Group("/specials"))

			gallery := admin.Group("/gallery")
			gallery.POST("/upload", ctrl.Upload.UploadGalleryImage)
			gallery.POST("/presigned-url", ctrl.Upload.GeneratePresignedURL)
			ctrl.Gallery.Register(gallery)

			reservations := admin.Group("/reservations")
			reservations.GET("/export", ctrl.ReservationFlow.Export)
			reservations.PATCH("/:id/status", ctrl.ReservationFlow.ChangeStatus)
			ctrl.Reservations.Register(reservations)

			adminOnly := admin.Group("")
			adminOnly.Use(r.authMiddleware.RequireAdmin())
			{
				adminOnly.GET("/staff", ctrl.Staff.List)
				adminOnly.POST("/staff", ctrl.Staff.Create)
				adminOnly.PATCH("/staff/:user_id/role", ctrl.Staff.ChangeRole)
				adminOnly.DELETE("/staff/:user_id", ctrl.Staff.Delete)

				adminOnly.GET("/settings", ctrl.Settings.List)
				adminOnly.PUT("/settings/:key", ctrl.Settings.Upsert)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
