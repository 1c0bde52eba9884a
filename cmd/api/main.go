package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fieldsuite/admin-service/internal/api/http"
	"github.com/fieldsuite/admin-service/internal/api/http/handlers"
	"github.com/fieldsuite/admin-service/internal/auth"
	"github.com/fieldsuite/admin-service/internal/billing"
	"github.com/fieldsuite/admin-service/internal/config"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/observability"
	"github.com/fieldsuite/admin-service/internal/persistence"
	"github.com/fieldsuite/admin-service/internal/repository"
	"github.com/fieldsuite/admin-service/internal/service"
	"github.com/fieldsuite/admin-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	revoker := auth.NewSessionRevoker(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		TokenManager:      tokenMgr,
		Revoker:           revoker,
		Dispatcher:        dispatcher,
	})
	tenantService := service.NewTenantService(tenantRepo, planRepo)
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:   clientRepo,
		ContractRepo: contractRepo,
		TenantRepo:   tenantRepo,
		TxRunner:     txRunner,
		Dispatcher:   dispatcher,
	})
	branchService := service.NewBranchService(branchRepo, clientRepo, membershipRepo)
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		MembershipRepo: membershipRepo,
		UserRepo:       userRepo,
		BranchRepo:     branchRepo,
		TenantRepo:     tenantRepo,
	})
	eventService := service.NewEventService(eventRepo, branchRepo, dispatcher)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: assignmentRepo,
		EventRepo:      eventRepo,
		MembershipRepo: membershipRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
	})
	contractService := service.NewContractService(contractRepo, clientRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, contractRepo, dispatcher)
	planService := service.NewPlanService(planRepo)
	billingService := service.NewBillingService(service.BillingDependencies{
		TenantRepo: tenantRepo,
		PlanRepo:   planRepo,
		UserRepo:   userRepo,
		Provider:   billing.NewStripeProvider(cfg.Billing.StripeSecretKey),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sessions := auth.NewSessionResolver(auth.SessionResolverDeps{
		Tokens:      tokenMgr,
		CookieName:  cfg.Auth.SessionCookieName,
		Users:       userRepo,
		Tenants:     tenantRepo,
		Clients:     clientRepo,
		Memberships: membershipRepo,
		Revocations: revoker,
	})

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService, cfg.Auth.SessionCookieName),
		Tenants:     handlers.NewTenantsHandler(tenantService, billingService),
		Clients:     handlers.NewClientsHandler(clientService),
		Branches:    handlers.NewBranchesHandler(branchService),
		Employees:   handlers.NewEmployeesHandler(employeeService),
		Events:      handlers.NewEventsHandler(eventService),
		Assignments: handlers.NewAssignmentsHandler(assignmentService),
		Contracts:   handlers.NewContractsHandler(contractService),
		Invoices:    handlers.NewInvoicesHandler(invoiceService),
		Plans:       handlers.NewPlansHandler(planService),
		Sessions:    sessions,
		Metrics:     metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
