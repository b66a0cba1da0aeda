package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/api/http/handlers"
	"github.com/spec-kit/grocery-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Staff          *handlers.StaffHandler
	Cart           *handlers.CartHandler
	Orders         *handlers.OrdersHandler
	Promos         *handlers.PromosHandler
	Analytics      *handlers.AnalyticsHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role checks beyond "customer" or "staff"
// happen in the services against the permission matrix.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)

	app.Get("/products/:id", cfg.Products.Get)

	cart := app.Group("/cart", cfg.AuthMiddleware.Handle, auth.RequireCustomer())
	cart.Get("", cfg.Cart.GetCart)
	cart.Delete("", cfg.Cart.Clear)
	cart.Post("/items", cfg.Cart.AddItem)
	cart.Put("/items", cfg.Cart.SetItem)

	app.Post("/orders", cfg.AuthMiddleware.Optional, cfg.Orders.Place)
	app.Get("/orders/track", cfg.Orders.Track)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle)
	orders.Get("", cfg.Orders.List)
	orders.Get("/:id", cfg.Orders.Get)

	staffOrders := orders.Group("", auth.RequireStaff())
	staffOrders.Get("/:id/history", cfg.Orders.History)
	staffOrders.Patch("/:id/status", cfg.Orders.SetStatus)
	staffOrders.Patch("/:id/payment", cfg.Orders.SetPayment)
	staffOrders.Patch("/:id/rider", cfg.Orders.AssignRider)
	staffOrders.Delete("/:id", cfg.Orders.Delete)

	app.Post("/promos/validate", cfg.Promos.Validate)
	promos := app.Group("/promos", cfg.AuthMiddleware.Handle, auth.RequirePermission(auth.ActionManageContent))
	promos.Get("", cfg.Promos.List)
	promos.Post("", cfg.Promos.Create)
	promos.Patch("/:code", cfg.Promos.SetActive)
	promos.Delete("/:code", cfg.Promos.Delete)

	app.Get("/analytics/dashboard", cfg.AuthMiddleware.Handle, auth.RequirePermission(auth.ActionViewAnalytics), cfg.Analytics.Dashboard)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/riders", cfg.Staff.ListRiders)
	staff.Get("", cfg.Staff.ListStaff)
	staff.Post("", cfg.Staff.CreateStaff)
	staff.Get("/:id", cfg.Staff.GetStaff)
	staff.Delete("/:id", cfg.Staff.DeleteStaff)
	staff.Patch("/:id/role", cfg.Staff.UpdateRole)
	staff.Patch("/:id/active", cfg.Staff.SetActive)
}
