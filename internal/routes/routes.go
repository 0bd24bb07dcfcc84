package routes

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Products *handlers.ProductHandler
	Reviews  *handlers.ReviewHandler
	Health   *handlers.HealthHandler
}

// Setup mounts every route under cfg.APIPrefix. limiterStorage may be nil,
// in which case the limiter keeps its counters in process memory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokens *services.TokenManager,
	finder middleware.UserFinder,
	limiterStorage fiber.Storage,
	h Handlers,
) {
	api := app.Group("/" + cfg.APIPrefix)

	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Storage:           limiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests from this IP, please try again later")
		},
	}))

	protected := middleware.Authenticate(tokens, finder)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	anyRole := middleware.RequireRoles()

	api.Get("/health", h.Health.Check)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Put("/reset-password", h.Auth.ResetPassword)
	auth.Get("/profile", protected, anyRole, h.Auth.Profile)
	auth.Put("/update-password", protected, anyRole, h.Auth.UpdatePassword)

	// Users
	users := api.Group("/users")
	users.Get("/", protected, adminOnly, h.Users.List)
	users.Post("/", protected, adminOnly, h.Users.Create)
	users.Get("/:id", h.Users.Get)
	users.Put("/:id", protected, anyRole, h.Users.Update)
	users.Delete("/:id", protected, anyRole, h.Users.Delete)

	// Products - public reads, admin writes
	products := api.Group("/products")
	products.Get("/", h.Products.List)
	products.Get("/:id", h.Products.Get)
	products.Post("/", protected, adminOnly, h.Products.Create)
	products.Put("/:id", protected, adminOnly, h.Products.Update)
	products.Delete("/:id", protected, adminOnly, h.Products.Delete)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.Get("/", h.Reviews.List)
	reviews.Post("/", protected, anyRole, h.Reviews.Create)
	reviews.Put("/:id", protected, anyRole, h.Reviews.Update)
	reviews.Delete("/:id", protected, anyRole, h.Reviews.Delete)
}
