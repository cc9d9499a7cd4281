package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/congo-pay/arithguard/internal/account"
	"github.com/congo-pay/arithguard/internal/config"
	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/middleware"
	"github.com/congo-pay/arithguard/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *zerolog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	switch d.Cfg.Backend {
	case config.BackendPostgres:
		if d.DB == nil {
			return fmt.Errorf("database is required when STORAGE_BACKEND=%s", d.Cfg.Backend)
		}
	case config.BackendRedis:
		if d.Cache == nil {
			return fmt.Errorf("redis is required when STORAGE_BACKEND=%s", d.Cfg.Backend)
		}
	}
	variants, err := d.Cfg.LedgerVariants()
	if err != nil {
		return err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterScenarioRoutes(api)

	notifier := notification.NewLoggerNotifier(d.Logger)
	for _, v := range variants {
		l, err := ledger.New(v, d.Cfg.Limits())
		if err != nil {
			return err
		}
		repo, err := newRepository(d, v)
		if err != nil {
			return err
		}
		svc := account.NewService(l, repo, notifier, d.Logger)

		group := api.Group("/" + string(v))
		RegisterAccountRoutes(group, account.NewHandler(svc))
		RegisterInstructionRoutes(group, svc)
		d.Logger.Info().Str("variant", string(v)).Str("backend", d.Cfg.Backend).Msg("ledger mounted")
	}
	return nil
}

func newRepository(d Deps, v ledger.Variant) (account.Repository, error) {
	switch d.Cfg.Backend {
	case config.BackendPostgres:
		repo := account.NewPostgresRepository(d.DB, v)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", v, err)
		}
		return repo, nil
	case config.BackendRedis:
		return account.NewRedisRepository(d.Cache, v), nil
	default:
		return account.NewMemoryRepository(), nil
	}
}
