package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"resto-backoffice/internal/cache"
	"resto-backoffice/internal/config"
	"resto-backoffice/internal/handler"
	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/internal/service"
	"resto-backoffice/internal/ws"
	"resto-backoffice/pkg/database"
	"resto-backoffice/pkg/jwt"
	applog "resto-backoffice/pkg/logger"
)

func main() {
	// 1. Config & logging
	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := applog.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("auto migrate failed")
	}

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db, cfg, log)

	// 4. List cache: Redis when configured, process memory otherwise
	var listCache cache.ListCache = cache.NewMemoryCache(cfg.ListCacheTTL)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory list cache")
		} else {
			defer client.Close()
			listCache = cache.NewRedisCache(client, "backoffice", cfg.ListCacheTTL, log)
		}
	}

	// 5. WebSocket hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 6. Dependency injection
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	billingRepo := repository.NewBillingRepo(db)
	itemRepo := repository.NewInventoryRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	slotRepo := repository.NewTimeSlotRepo(db)

	loc := cfg.Location()
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)
	authService := service.NewAuthService(userRepo, tokens, cfg.SessionIdleTimeout, wsHub, log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, listCache, log)
	roleService := service.NewRoleService(roleRepo, privilegeRepo, userRepo, listCache, log)
	billingService := service.NewBillingService(billingRepo, wsHub, log)
	invService := service.NewInventoryService(itemRepo, movementRepo, wsHub, log)
	dashService := service.NewDashboardService(billingRepo, itemRepo, movementRepo, loc)
	slotService := service.NewTimeSlotService(slotRepo, wsHub, loc, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	billingHandler := handler.NewBillingHandler(billingService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)
	slotHandler := handler.NewTimeSlotHandler(slotService)

	// 7. Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	if cfg.LogFormat == "pretty" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	// 8. Routes
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(authService)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", requireAuth, authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/me/modules", authHandler.MyModules)

	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardRead), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequireModule(model.ModuleDashboard), dashHandler.GetStockMovement)

	protected.Get("/users", middleware.RequirePrivilege(model.PrivUsersRead), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUsersRead), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUsersCreate), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUsersUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUsersDelete), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege(model.PrivUsersUpdate), userHandler.UpdateUserPrivileges)

	protected.Get("/roles", middleware.RequirePrivilege(model.PrivRolesRead), roleHandler.GetRoles)
	protected.Post("/roles", middleware.RequirePrivilege(model.PrivRolesCreate), roleHandler.CreateRole)
	protected.Put("/roles/:id", middleware.RequirePrivilege(model.PrivRolesUpdate), roleHandler.UpdateRole)
	protected.Delete("/roles/:id", middleware.RequirePrivilege(model.PrivRolesDelete), roleHandler.DeleteRole)
	protected.Get("/roles/:id/privileges", middleware.RequirePrivilege(model.PrivRolesRead), roleHandler.GetPrivilegeMatrix)
	protected.Get("/privileges", middleware.RequireAnyPrivilege(model.PrivRolesRead, model.PrivUsersRead), roleHandler.GetPrivileges)
	protected.Get("/privileges/grouped", middleware.RequireAnyPrivilege(model.PrivRolesRead, model.PrivUsersRead), roleHandler.GetGroupedPrivileges)

	protected.Get("/billings", middleware.RequirePrivilege(model.PrivBillingRead), billingHandler.GetBillings)
	protected.Get("/billings/report", middleware.RequireAnyPrivilege(model.PrivBillingRead, model.PrivReportsRead), billingHandler.GetReport)
	protected.Get("/billings/export", middleware.RequireAnyPrivilege(model.PrivBillingExport, model.PrivReportsExport), billingHandler.ExportCSV)
	protected.Post("/billings/import", middleware.RequirePrivilege(model.PrivBillingCreate), billingHandler.ImportBillings)
	protected.Get("/billings/:id", middleware.RequirePrivilege(model.PrivBillingRead), billingHandler.GetBilling)
	protected.Post("/billings", middleware.RequirePrivilege(model.PrivBillingCreate), billingHandler.CreateBilling)
	protected.Put("/billings/:id", middleware.RequirePrivilege(model.PrivBillingUpdate), billingHandler.UpdateBilling)
	protected.Delete("/billings/:id", middleware.RequirePrivilege(model.PrivBillingDelete), billingHandler.DeleteBilling)

	protected.Get("/inventory", middleware.RequirePrivilege(model.PrivInventoryRead), invHandler.GetItems)
	protected.Post("/inventory", middleware.RequirePrivilege(model.PrivInventoryCreate), invHandler.CreateItem)
	protected.Get("/inventory/movements", middleware.RequirePrivilege(model.PrivInventoryRead), invHandler.GetMovements)
	protected.Post("/inventory/movements", middleware.RequirePrivilege(model.PrivInventoryUpdate), invHandler.CreateMovement)
	protected.Put("/inventory/:id", middleware.RequirePrivilege(model.PrivInventoryUpdate), invHandler.UpdateItem)

	protected.Get("/timeslots", middleware.RequirePrivilege(model.PrivReservationsRead), slotHandler.GetTimeSlots)
	protected.Get("/timeslots/:id", middleware.RequirePrivilege(model.PrivReservationsRead), slotHandler.GetTimeSlot)
	protected.Post("/timeslots", middleware.RequirePrivilege(model.PrivReservationsCreate), slotHandler.CreateTimeSlot)
	protected.Put("/timeslots/:id", middleware.RequirePrivilege(model.PrivReservationsUpdate), slotHandler.UpdateTimeSlot)
	protected.Delete("/timeslots/:id", middleware.RequirePrivilege(model.PrivReservationsDelete), slotHandler.DeleteTimeSlot)

	// WebSocket Route. Browsers cannot set headers on the upgrade, so the
	// token travels as a query parameter.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		principal, err := authService.Authenticate(c.Query("token"))
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("user_id", principal.UserID().String())
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		wsHub.Serve(c, userID)
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the admin
// user if they don't exist.
func seedPrivilegesRolesAndAdmin(db *gorm.DB, cfg *config.Config, log zerolog.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed privileges")
	}
	all, err := privilegeRepo.FindAll()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load privileges")
		return
	}
	if err := roleRepo.SeedDefaults(all); err != nil {
		log.Warn().Err(err).Msg("failed to seed roles")
	}

	if _, err := userRepo.FindByEmail(cfg.SeedAdminEmail); err == nil {
		return
	}
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		log.Warn().Err(err).Msg("master admin role missing, admin user not created")
		return
	}

	admin := &model.User{
		Email:      cfg.SeedAdminEmail,
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	admin.Stamp(service.SystemActor.ID)
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Str("email", admin.Email).Msg("admin user created (MASTER_ADMIN)")
}
