package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-event-planner/internal/config"
	"go-event-planner/internal/database"
	"go-event-planner/internal/event"
	"go-event-planner/internal/handler"
	"go-event-planner/internal/middleware"
	"go-event-planner/internal/notify"
	"go-event-planner/internal/oauth"
	"go-event-planner/internal/repository"
	"go-event-planner/internal/router"
	"go-event-planner/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	internalUserRepo := repository.NewInternalUserRepository(pool)
	externalUserRepo := repository.NewExternalUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	cookies := service.NewCookieManager(cfg.CookieSecure)

	userService := service.NewUserService(userRepo, internalUserRepo, externalUserRepo, bus)
	externalUserService := service.NewExternalUserService(userRepo, externalUserRepo, bus)
	authService := service.NewAuthService(userService, externalUserService, tokenService, cookies)
	eventService := service.NewEventService(eventRepo, bus)
	reservationService := service.NewReservationService(reservationRepo, eventRepo, bus)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService, cookies)

	var oauthHandler *handler.OAuthHandler
	if cfg.GoogleEnabled() {
		googleClient, err := oauth.NewGoogleClient(context.Background(), cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize google client: %w", err)
		}
		oauthHandler = handler.NewOAuthHandler(googleClient, authService, cfg.CookieSecure, cfg.PostLoginRedirect)
		slog.Info("google login enabled")
	} else {
		slog.Info("google login disabled, credentials not configured")
	}

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService),
		OAuth:       oauthHandler,
		User:        handler.NewUserHandler(userService),
		Event:       handler.NewEventHandler(eventService),
		Reservation: handler.NewReservationHandler(reservationService),
	})

	notifyCtx, notifyCancel := context.WithCancel(context.Background())
	go notify.New(bus).Run(notifyCtx)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				notifyCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
