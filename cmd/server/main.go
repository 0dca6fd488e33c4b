package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riadice/riadice-backend/config"
	"github.com/riadice/riadice-backend/internal/app/controller"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/app/service"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/riadice/riadice-backend/internal/middleware"
	"github.com/riadice/riadice-backend/internal/router"
	"github.com/riadice/riadice-backend/internal/scheduler"
	"github.com/riadice/riadice-backend/internal/storage"
	"github.com/riadice/riadice-backend/pkg/logger"
	"github.com/riadice/riadice-backend/pkg/redis"
	"github.com/riadice/riadice-backend/pkg/whatsapp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Riad Ice Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.BootstrapAdmin(db.GetDB(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Warn("Failed to bootstrap admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation: Redis when enabled, in-process otherwise
	var revoker service.TokenRevoker = redis.NewMemoryRevocationStore()
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redis.Close()
		revoker = redis.NewRevocationStore(redis.GetClient())
	} else {
		logger.Warn("Redis disabled, sign-outs are only remembered by this process")
	}

	// Object storage
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}
	uploadsDir := ""
	if local, ok := store.(*storage.LocalStorage); ok {
		uploadsDir = local.Dir()
	}

	// Reservation link composer
	tmpl, err := whatsapp.LoadTemplate(cfg.WhatsApp.Template, cfg.WhatsApp.TemplateText)
	if err != nil {
		logger.Fatal("Failed to load reservation message template", err)
	}
	composer, err := whatsapp.NewComposer(cfg.WhatsApp.Host, cfg.WhatsApp.Phone, tmpl)
	if err != nil {
		logger.Fatal("Failed to configure reservation link", err)
	}

	// Initialize repositories
	database := db.GetDB()
	identityRepo := repository.NewIdentityRepository(database)
	roleRepo := repository.NewRoleRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	settingRepo := repository.NewSettingRepository(database)
	menuRepo := repository.NewResourceRepository[model.MenuItem](database, "menu_items")
	specialRepo := repository.NewResourceRepository[model.Special](database, "specials")
	galleryRepo := repository.NewResourceRepository[model.GalleryImage](database, "gallery_images")
	reservationRepo := repository.NewReservationRepository(database)

	// Initialize services
	roleService := service.NewRoleService(roleRepo)
	authService := service.NewAuthService(identityRepo, roleRepo, profileRepo, roleService, revoker, service.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshExpiry: cfg.JWT.RefreshTokenExpiry,
		AllowSignup:   cfg.Auth.AllowSignup,
	})
	staffService := service.NewStaffService(database, authService, roleRepo, profileRepo, identityRepo)
	settingService := service.NewSettingService(settingRepo)
	reservationService := service.NewReservationService(reservationRepo)
	dashboardService := service.NewDashboardService(menuRepo, specialRepo, galleryRepo, reservationRepo)
	uploadService := service.NewUploadService(store, cfg.Storage.MaxUploadBytes)

	// Initialize controllers
	reservationController := controller.NewReservationController(reservationService)
	controllers := router.Controllers{
		Auth:     controller.NewAuthController(authService),
		Menu:     controller.NewResourceController(service.NewResourceService(menuRepo, service.MenuItemDescriptor()), "menu item"),
		Specials: controller.NewResourceController(service.NewResourceService(specialRepo, service.SpecialDescriptor()), "special"),
		Gallery:  controller.NewResourceController(service.NewResourceService(galleryRepo, service.GalleryImageDescriptor()), "gallery image"),
		Reservations: controller.NewResourceController(
			service.NewResourceService[model.Reservation](reservationRepo, service.ReservationDescriptor()),
			"reservation",
		).WithListExtras(reservationController.Summary),
		ReservationFlow: reservationController,
		Staff:           controller.NewStaffController(staffService),
		Settings:        controller.NewSettingController(settingService),
		Upload:          controller.NewUploadController(uploadService, cfg.Storage.MaxUploadBytes),
		Dashboard:       controller.NewDashboardController(dashboardService),
		ReservationLink: controller.NewReservationLinkController(composer),
	}

	authMiddleware := middleware.NewAuthMiddleware(authService, roleService, cfg.Auth.LoginPath)

	// Read-only daily digest
	if cfg.Scheduler.Enabled {
		digest := scheduler.NewReservationDigestScheduler(reservationService, cfg.Scheduler.DigestSpec)
		if err := digest.Start(); err != nil {
			logger.Warn("Reservation digest disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer digest.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(controllers, authMiddleware, cfg, uploadsDir)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
}
