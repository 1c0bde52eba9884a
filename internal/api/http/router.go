package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/http/handlers"
	"github.com/fieldsuite/admin-service/internal/auth"
	"github.com/fieldsuite/admin-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Tenants     *handlers.TenantsHandler
	Clients     *handlers.ClientsHandler
	Branches    *handlers.BranchesHandler
	Employees   *handlers.EmployeesHandler
	Events      *handlers.EventsHandler
	Assignments *handlers.AssignmentsHandler
	Contracts   *handlers.ContractsHandler
	Invoices    *handlers.InvoicesHandler
	Plans       *handlers.PlansHandler

	Sessions *auth.SessionResolver
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	session := authGroup.Group("", cfg.Sessions.Handle)
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)
	session.Patch("/me", cfg.Auth.UpdateMe)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	api := app.Group("/api", cfg.Sessions.Handle)

	tenants := api.Group("/tenants")
	tenants.Get("/", cfg.Tenants.List)
	tenants.Post("/", cfg.Tenants.Create)
	tenants.Get("/:id", cfg.Tenants.Get)
	tenants.Patch("/:id", cfg.Tenants.Update)
	tenants.Delete("/:id", cfg.Tenants.Delete)
	tenants.Post("/:id/plan", cfg.Tenants.ChangePlan)

	clients := api.Group("/clients")
	clients.Get("/", cfg.Clients.List)
	clients.Post("/", cfg.Clients.Create)
	clients.Get("/:id", cfg.Clients.Get)
	clients.Patch("/:id", cfg.Clients.Update)
	clients.Delete("/:id", cfg.Clients.Delete)

	branches := api.Group("/branches")
	branches.Get("/", cfg.Branches.List)
	branches.Post("/", cfg.Branches.Create)
	branches.Get("/:id", cfg.Branches.Get)
	branches.Patch("/:id", cfg.Branches.Update)
	branches.Delete("/:id", cfg.Branches.Delete)

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Patch("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	eventRoutes := api.Group("/events")
	eventRoutes.Get("/", cfg.Events.List)
	eventRoutes.Post("/", cfg.Events.Create)
	eventRoutes.Get("/:id", cfg.Events.Get)
	eventRoutes.Patch("/:id", cfg.Events.Update)
	eventRoutes.Delete("/:id", cfg.Events.Delete)

	assignments := api.Group("/assignments")
	assignments.Get("/", cfg.Assignments.List)
	assignments.Post("/", cfg.Assignments.Create)
	assignments.Get("/:id", cfg.Assignments.Get)
	assignments.Patch("/:id/status", cfg.Assignments.UpdateStatus)
	assignments.Patch("/:id", cfg.Assignments.Update)
	assignments.Delete("/:id", cfg.Assignments.Delete)

	contracts := api.Group("/contracts")
	contracts.Get("/", cfg.Contracts.List)
	contracts.Post("/", cfg.Contracts.Create)
	contracts.Get("/:id", cfg.Contracts.Get)
	contracts.Patch("/:id", cfg.Contracts.Update)
	contracts.Delete("/:id", cfg.Contracts.Delete)

	invoices := api.Group("/invoices")
	invoices.Get("/", cfg.Invoices.List)
	invoices.Post("/", cfg.Invoices.Create)
	invoices.Get("/:id", cfg.Invoices.Get)
	invoices.Patch("/:id", cfg.Invoices.Update)
	invoices.Delete("/:id", cfg.Invoices.Delete)

	plans := api.Group("/plans")
	plans.Get("/", cfg.Plans.List)
	plans.Post("/", cfg.Plans.Create)
	plans.Get("/:id", cfg.Plans.Get)
	plans.Patch("/:id", cfg.Plans.Update)
	plans.Delete("/:id", cfg.Plans.Delete)
}
