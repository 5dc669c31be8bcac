package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pay-link/paylink/internal/auth"
	"github.com/pay-link/paylink/internal/cache"
	"github.com/pay-link/paylink/internal/config"
	"github.com/pay-link/paylink/internal/identity"
	"github.com/pay-link/paylink/internal/middleware"
	"github.com/pay-link/paylink/internal/notification"
	"github.com/pay-link/paylink/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	tokens := auth.NewIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	identityHandler := identity.NewHandler(identitySvc, tokens)

	var store wallet.Store
	if d.DB != nil {
		store = wallet.NewPostgresStore(d.DB)
	} else {
		store = wallet.NewMemoryStore()
	}
	history := cache.NewHistory(d.Cache, d.Cfg.HistoryCacheTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(store, identityRepo, notifier, history)
	walletHandler := wallet.NewHandler(walletSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	jwtmw := middleware.JWTAuth(tokens, identityRepo)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMin)

	RegisterAuthRoutes(api, identityHandler, rateLimiter, jwtmw)
	RegisterWalletRoutes(api.Group("/wallet", jwtmw), walletHandler)

	return nil
}
