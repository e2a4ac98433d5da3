package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/config"
	applog "campgo/internal/log"
	"campgo/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
)

// Limits groups the rate limits so tests can loosen them.
type Limits struct {
	Global int // requests per minute per IP
	Login  int // attempts per 10 minutes per IP
}

var DefaultLimits = Limits{Global: 120, Login: 5}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, d *Deps, lim Limits) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(!cfg.Production())

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler(cfg.Production()),
		BodyLimit:    6 << 20, // uploads are capped at 5 MiB by the media store
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.AccessLog())
	app.Use(metrics.Middleware())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        lim.Global,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/media/") || p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(envelope{Message: "rate limit exceeded, retry soon"})
		},
	}))

	mountMedia(app, cfg.MediaDir)
	Register(app, d, lim)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())
	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("route %s not found", c.Path())
	})
	return app
}

// mountMedia serves uploaded files with traversal guards.
func mountMedia(app *fiber.App, dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	app.Get("/media/*", func(c *fiber.Ctx) error {
		p := c.Params("*")
		lower := strings.ToLower(p)
		if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": p})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(p)
		if clean == "." || filepath.IsAbs(clean) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	})
}

// Register mounts the JSON API and the admin page.
func Register(app *fiber.App, d *Deps, lim Limits) {
	user := RequireUser(d.Auth)
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", d.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        lim.Login,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(envelope{Message: "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	auth.Get("/me", user, d.AuthHandler.Me)

	api.Get("/categories", d.ProductHandler.Categories)
	api.Get("/products", d.ProductHandler.List)
	api.Post("/products/reviews", user, d.ProductHandler.CreateReview)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/reviews", d.ProductHandler.ListReviews)

	cart := api.Group("/cart", user)
	cart.Get("/", d.CartHandler.View)
	cart.Post("/add", d.CartHandler.Add)
	cart.Put("/update", d.CartHandler.Update)
	cart.Delete("/clear", d.CartHandler.Clear)
	cart.Post("/remove-multiple", d.CartHandler.RemoveMany)
	cart.Delete("/:productId", d.CartHandler.Remove)

	wish := api.Group("/wishlist", user)
	wish.Get("/", d.WishlistHandler.List)
	wish.Post("/add", d.WishlistHandler.Save)
	wish.Delete("/:productId", d.WishlistHandler.Unsave)

	addr := api.Group("/addresses", user)
	addr.Get("/", d.AddressHandler.List)
	addr.Post("/", d.AddressHandler.Create)
	addr.Put("/:id/default", d.AddressHandler.SetDefault)
	addr.Put("/:id", d.AddressHandler.Update)
	addr.Delete("/:id", d.AddressHandler.Delete)

	cards := api.Group("/cards", user)
	cards.Get("/", d.CardHandler.List)
	cards.Post("/", d.CardHandler.Create)
	cards.Put("/:id/default", d.CardHandler.SetDefault)
	cards.Put("/:id", d.CardHandler.Update)
	cards.Delete("/:id", d.CardHandler.Delete)

	orders := api.Group("/orders", user)
	orders.Post("/create", d.OrderHandler.Create)
	orders.Get("/my-orders", d.OrderHandler.Mine)
	orders.Get("/delivered", d.OrderHandler.Delivered)
	orders.Get("/:id", d.OrderHandler.Get)
	orders.Put("/:id/confirm-delivery", d.OrderHandler.ConfirmDelivery)
	orders.Put("/:id/return", d.OrderHandler.Return)
	orders.Put("/:id/cancel", d.OrderHandler.Cancel)
	orders.Delete("/:id", d.OrderHandler.Delete)

	api.Get("/campsites", d.CampsiteHandler.Search)
	api.Get("/campsites/:id", d.CampsiteHandler.Get)
	owner := api.Group("/owner", RequireOwner(d.Auth)...)
	owner.Post("/campsites", d.CampsiteHandler.Create)
	owner.Get("/campsites", d.CampsiteHandler.Mine)

	api.Post("/upload", user, d.UploadHandler.Upload)
	api.Delete("/upload/*", user, d.UploadHandler.Delete)

	a := d.AdminHandler
	admin := api.Group("/admin", RequireAdmin(d.Auth)...)
	admin.Get("/orders", a.ListOrders)
	admin.Get("/orders/:id", a.GetOrder)
	admin.Put("/orders/:id", a.UpdateOrder)
	admin.Put("/orders/:id/payment", a.UpdatePayment)
	admin.Delete("/orders/:id", a.DeleteOrder)
	admin.Get("/dashboard", a.Stats)
	admin.Get("/dashboard/monthly", a.Monthly)
	admin.Post("/products", a.CreateProduct)
	admin.Put("/products/:id", a.UpdateProduct)
	admin.Delete("/products/:id", a.DeleteProduct)
	admin.Post("/categories", a.CreateCategory)
	admin.Put("/categories/:id", a.UpdateCategory)
	admin.Delete("/categories/:id", a.DeleteCategory)
	admin.Get("/users", a.ListUsers)
	admin.Delete("/users/:id", a.DeleteUser)
	admin.Delete("/campsites/:id", a.DeleteCampsite)

	app.Get("/admin", append(RequireAdmin(d.Auth), a.Page)...)
}
