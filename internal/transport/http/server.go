package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"photojay_admin/internal/cache"
	"photojay_admin/internal/config"
	"photojay_admin/internal/database"
	"photojay_admin/internal/handler"
	"photojay_admin/internal/queue"
	"photojay_admin/internal/redis"
	"photojay_admin/internal/repository"
	"photojay_admin/internal/service"
	"photojay_admin/internal/worker"
)

// Repositories are the stores behind the stub API.
type Repositories struct {
	Users         repository.UserRepository
	Listings      repository.ListingRepository
	Notifications repository.NotificationRepository
}

// MemoryRepositories returns repositories backed by one in-memory store.
func MemoryRepositories() Repositories {
	store := repository.NewMemoryStore()
	return Repositories{
		Users:         repository.NewMemoryUserRepository(store),
		Listings:      repository.NewMemoryListingRepository(store),
		Notifications: repository.NewMemoryNotificationRepository(store),
	}
}

// App is the wired stub API.
type App struct {
	Router chi.Router

	Users         *service.UserService
	Notifications *service.NotificationService
	Moderation    *service.ModerationService
	Listings      repository.ListingRepository
}

// NewApp wires services and handlers over repos. statsCache may be nil.
func NewApp(cfg *config.Config, repos Repositories, statsCache cache.StatsCache) *App {
	userService := service.NewUserService(repos.Users)
	authService := service.NewAuthService(repos.Users, cfg)
	notifService := service.NewNotificationService(repos.Notifications)
	moderationService := service.NewModerationService(repos.Listings, repos.Users, notifService, statsCache)

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		AdminHandler:        handler.NewAdminHandler(moderationService),
		NotificationHandler: handler.NewNotificationHandler(notifService),
		JWTSecret:           cfg.JWTSecret,
	})

	return &App{
		Router:        router,
		Users:         userService,
		Notifications: notifService,
		Moderation:    moderationService,
		Listings:      repos.Listings,
	}
}

// Seed fills an empty store with demo data.
func (a *App) Seed(ctx context.Context, seed service.DemoSeed) error {
	return service.SeedDemoData(ctx, a.Users, a.Listings, a.Notifications, seed)
}

func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	// 1. Pick the store
	repos := MemoryRepositories()
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repos = Repositories{
			Users:         repository.NewUserRepository(db),
			Listings:      repository.NewListingRepository(db),
			Notifications: repository.NewNotificationRepository(db),
		}
	} else {
		log.Println("WARNING: DATABASE_URL not set - using in-memory store")
	}

	// 2. Redis is optional: it backs the stats cache and the moderation stream
	var (
		statsCache cache.StatsCache
		rdb        *redis.Client
	)
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Redis unavailable, stats cache and workers disabled: %v", err)
		} else {
			rdb = client
			defer rdb.Close()
			statsCache = cache.NewStatsCache(rdb.Client, cfg.StatsCacheTTL)
		}
	}

	app := NewApp(cfg, repos, statsCache)

	if rdb != nil {
		manager := worker.NewManager(
			queue.NewConsumer(rdb.Client),
			worker.NewHandler(app.Notifications, statsCache),
			worker.DefaultManagerConfig(),
		)
		if err := manager.Start(ctx); err != nil {
			log.Printf("WARNING: moderation workers not started, notifying inline: %v", err)
		} else {
			defer manager.Stop()
			app.Moderation.SetPublisher(queue.NewPublisher(rdb.Client))
		}
	}

	adminUser, adminPassword := cfg.AdminUserName, cfg.AdminPassword
	if adminUser == "" {
		adminUser = "admin"
	}
	if adminPassword == "" {
		adminPassword = "admin"
	}
	if err := app.Seed(ctx, service.DemoSeed{
		AdminUserName: adminUser,
		AdminPassword: adminPassword,
		UserPassword:  "password",
		Listings:      23,
	}); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	// 3. Serve until interrupted
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
