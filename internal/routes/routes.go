package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hopehaven/hopehaven/internal/auth"
	"github.com/hopehaven/hopehaven/internal/challenge"
	"github.com/hopehaven/hopehaven/internal/cipher"
	"github.com/hopehaven/hopehaven/internal/config"
	"github.com/hopehaven/hopehaven/internal/donation"
	"github.com/hopehaven/hopehaven/internal/identity"
	"github.com/hopehaven/hopehaven/internal/middleware"
	"github.com/hopehaven/hopehaven/internal/notification"
	"github.com/hopehaven/hopehaven/internal/proof"
	"github.com/hopehaven/hopehaven/internal/signature"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Signer *signature.Signer
	// Notifier overrides the default logger notifier; used by tests to
	// capture delivered codes.
	Notifier notification.Notifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Signer == nil {
		return fmt.Errorf("signer is required")
	}

	fieldCipher, err := cipher.New(d.Cfg.EncryptionKey)
	if err != nil {
		return err
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	var challenges challenge.Store
	if d.Cache != nil {
		challenges = challenge.NewRedisStore(d.Cache, d.Cfg.ChallengeTTL)
	} else {
		challenges = challenge.NewMemoryStore(d.Cfg.ChallengeTTL)
	}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	var donationRepo donation.Repository
	if d.DB != nil {
		donationRepo = donation.NewPostgresRepository(d.DB)
	} else {
		donationRepo = donation.NewMemoryRepository()
	}

	var proofRepo proof.Repository
	if d.DB != nil {
		proofRepo = proof.NewPostgresRepository(d.DB)
	} else {
		proofRepo = proof.NewMemoryRepository()
	}

	authSvc := auth.NewService(d.Cfg, identityRepo, challenges, notifier, d.Signer)
	donationSvc := donation.NewService(donationRepo, fieldCipher, d.Signer, notifier)
	proofSvc := proof.NewService(proofRepo, donationSvc, d.Signer)

	authHandler := auth.NewHandler(authSvc)
	donationHandler := donation.NewHandler(donationSvc)
	proofHandler := proof.NewHandler(proofSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	authn := middleware.Authn(authSvc, identityRepo)
	protected := api.Group("", authn)

	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	RegisterDonationRoutes(protected, donationHandler, idem)
	RegisterProofRoutes(protected, proofHandler, idem)
	RegisterProfileRoute(protected, identityRepo)

	return nil
}

// RegisterProfileRoute exposes the caller's own profile. Only the coarse
// role check applies: ownership is implicit in the route, and the fine
// table splits profile access between read (admin) and read_own
// (donor/staff).
func RegisterProfileRoute(r fiber.Router, repo identity.Repository) {
	allRoles := []identity.Role{identity.RoleAdmin, identity.RoleDonor, identity.RoleStaff}
	r.Get("/me", middleware.RequireACL(allRoles, "", ""), func(c *fiber.Ctx) error {
		uid, _ := c.Locals(middleware.LocalIdentityID).(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		ident, err := repo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "identity not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    ident.ID,
			"email":      ident.Email,
			"role":       ident.Role,
			"created_at": ident.CreatedAt,
		})
	})
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
