package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "leadforge/docs"
	"leadforge/internal/config"
	"leadforge/internal/handlers"
	"leadforge/internal/middleware"
	"leadforge/internal/pdf"
	"leadforge/internal/realtime"
	"leadforge/internal/repositories"
	"leadforge/internal/routes"
	"leadforge/internal/services"
	"leadforge/internal/storage"
	"leadforge/internal/utils"
)

// App holds the wired dependency graph shared by the HTTP server and the CLI.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Store         *storage.Store
	Leads         *services.LeadService
	Opportunities *services.OpportunityService
	Analytics     *services.AnalyticsService
	Export        *services.ExportService
	Settings      *services.SettingsService
	Seeder        *services.DataSeeder
	Toasts        *services.ToastFeed
	Hub           *realtime.NotificationHub
	PDF           *pdf.ReportGenerator

	closers []func() error
}

// New opens the configured backend and builds every service on top of it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log}

	kv, err := a.openKV(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = storage.NewStore(kv, log)

	// === Repos ===
	latency := repositories.Latency{Enabled: cfg.Latency.Enabled, Scale: cfg.Latency.Scale}
	leadRepo := repositories.NewLeadRepository(a.Store, latency)
	oppRepo := repositories.NewOpportunityRepository(a.Store, latency)

	// === Notifications ===
	a.Toasts = services.NewToastFeed(services.DefaultToastDuration)
	a.Hub = realtime.NewNotificationHub(log)
	channels := []services.Channel{
		{Name: "log", Notifier: services.NewLogNotifier(log)},
		{Name: "toast", Notifier: a.Toasts},
		{Name: "realtime", Notifier: a.Hub},
	}
	if cfg.EmailEnabled() {
		channels = append(channels, services.Channel{
			Name: "email",
			Notifier: services.NewEmailNotifier(
				cfg.Email.SMTPHost,
				cfg.Email.SMTPPort,
				cfg.Email.SMTPUser,
				cfg.Email.SMTPPassword,
				cfg.Email.FromEmail,
				cfg.Email.Recipients,
			),
			Events: []string{services.EventLeadConverted},
			Async:  true,
		})
	}
	if cfg.TelegramEnabled() {
		bot := services.NewTelegramBot(cfg.Telegram.BotToken, "")
		channels = append(channels, services.Channel{
			Name:     "telegram",
			Notifier: services.NewTelegramNotifier(bot, cfg.Telegram.ChatID),
			Events:   []string{services.EventLeadConverted},
			Async:    true,
		})
	}
	notifier := services.NewFanout(log, channels...)
	a.closers = append(a.closers, func() error {
		notifier.Wait()
		return nil
	})

	// === Services ===
	a.Leads = services.NewLeadService(leadRepo, oppRepo, notifier, log)
	a.Opportunities = services.NewOpportunityService(oppRepo, leadRepo, notifier, log)
	a.Analytics = services.NewAnalyticsService(leadRepo, oppRepo)
	a.Export = services.NewExportService(leadRepo, oppRepo)
	a.Settings = services.NewSettingsService(a.Store)
	a.Seeder = services.NewDataSeeder(leadRepo, oppRepo, log)
	a.PDF = pdf.NewReportGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	return a, nil
}

func (a *App) openKV(ctx context.Context) (storage.KV, error) {
	cfg := a.Config.Storage
	switch cfg.Driver {
	case "redis":
		kv := storage.NewRedisKV(storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, kv.Close)
		if err := kv.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		a.Log.Info("storage ready", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return kv, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		kv := storage.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.Log.Info("storage ready", zap.String("driver", "postgres"))
		return kv, nil
	default:
		a.Log.Info("storage ready", zap.String("driver", "memory"))
		return storage.NewMemoryKV(), nil
	}
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// jwtSecret returns the configured secret or a random one valid for this process.
func (a *App) jwtSecret() ([]byte, error) {
	if a.Config.Auth.JWTSecret != "" {
		return []byte(a.Config.Auth.JWTSecret), nil
	}
	s, err := utils.RandomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	if a.Config.AuthEnabled() {
		a.Log.Warn("auth.jwt_secret not set, tokens will not survive a restart")
	}
	return []byte(s), nil
}

// Router builds the gin engine with every route mounted.
func (a *App) Router() (*gin.Engine, error) {
	secret, err := a.jwtSecret()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.Log))
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware())

	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(a.Config.Auth.Users, secret, a.Config.Auth.TokenTTL, a.Log),
		Leads:         handlers.NewLeadHandler(a.Leads, a.Settings),
		Opportunities: handlers.NewOpportunityHandler(a.Opportunities),
		Reports:       handlers.NewReportHandler(a.Analytics, a.PDF),
		Export:        handlers.NewExportHandler(a.Export),
		Settings:      handlers.NewSettingsHandler(a.Settings),
		Notifications: handlers.NewNotificationHandler(a.Toasts, a.Hub),
		Admin:         handlers.NewAdminHandler(a.Settings, a.Seeder),
	}
	routes.SetupRoutes(router, h, routes.AuthOptions{Secret: secret, Enabled: a.Config.AuthEnabled()})
	return router, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.Seed.OnStart {
		res, err := a.Seeder.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
		a.Log.Info("seeded", zap.Int("leads", res.LeadsAdded), zap.Int("opportunities", res.OpportunitiesAdded))
	}

	router, err := a.Router()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server listening", zap.String("addr", srv.Addr), zap.Bool("auth", a.Config.AuthEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
