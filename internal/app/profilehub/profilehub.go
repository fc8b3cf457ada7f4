// Package profilehub собирает приложение: хранилище, кеш, очередь,
// клиента провайдера, сервисы и HTTP-сервер.
package profilehub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tradebio/profile-hub/internal/cache"
	"github.com/tradebio/profile-hub/internal/config"
	"github.com/tradebio/profile-hub/internal/lib/jwt"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/migrations"
	"github.com/tradebio/profile-hub/internal/paypal"
	"github.com/tradebio/profile-hub/internal/rabbitmq"
	authservice "github.com/tradebio/profile-hub/internal/services/auth"
	billingservice "github.com/tradebio/profile-hub/internal/services/billing"
	profileservice "github.com/tradebio/profile-hub/internal/services/profile"
	"github.com/tradebio/profile-hub/internal/storage"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// App агрегирует компоненты приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New создает приложение со всеми зависимостями.
// Отсутствие RabbitMQ не фатально: биллинг работает без рассылки уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher billingservice.NoticePublisher
	if cfg.RabbitMQConnection != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
		if err != nil {
			logger.Warn("rabbitmq unavailable, billing notices disabled", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
			if err != nil {
				logger.Warn("rabbitmq channel setup failed, billing notices disabled", sl.Err(err))
			} else {
				publisher = rabbitmq.NewBillingPublisher(ch)
			}
		}
	}

	repo := repository.New(db)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.Secret, cfg.PayPal.APIURL, cfg.PayPal.RequestTimeout)

	authService := authservice.NewAuthService(repo, jwtMaker, cfg.Trial.TrialDays)
	billingService := billingservice.New(repo, providerClient, publisher, logger)
	profileService := profileservice.New(repo, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, billingService, profileService, repo)

	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
