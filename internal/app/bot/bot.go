package bot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/dialog"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/handlers"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/pipeline"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/cache"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/jwt"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/metrics"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/migrations"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/rabbitmq"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/access"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/alert"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/throttle"
	userservice "github.com/magabrotheeeer/recovery-lab-bot/internal/services/user"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/storage/repository"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/telegram"
)

// App объединяет долгоживущие ресурсы приложения.
type App struct {
	server     *http.Server
	dispatcher *telegram.Dispatcher
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New собирает приложение из конфига: хранилище с миграциями, кеш,
// брокер оповещений, сервисы, конвейер и HTTP-сервер панели оператора.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetAlertQueues())
	if err != nil {
		return nil, err
	}

	tgClient, err := telegram.NewClient(cfg.Telegram, logger)
	if err != nil {
		return nil, err
	}

	userService := userservice.New(db, cacheRedis, logger)
	policy := access.New(cfg.Access, userService, logger)
	guard := throttle.New(cfg.Throttle)
	alertService := alert.New(rabbitmq.NewChannelPublisher(rabbitCh), rabbitmq.AlertRoutingKey, logger)
	dialogs := dialog.New(cacheRedis)

	router := handlers.New(tgClient, userService, alertService, dialogs,
		cfg.Subscription, cfg.AdminChatID, logger)

	m := metrics.New(prometheus.DefaultRegisterer)
	metrics.RegisterThrottleSize(prometheus.DefaultRegisterer, guard.Size)
	pipe := pipeline.New(guard, policy, router, tgClient, m, logger)
	dispatcher := telegram.NewDispatcher(tgClient, pipe, cfg.PollTimeout, logger)

	// Оповещения из очереди доставляются в административный чат
	if err := rabbitmq.ConsumerMessage(ctx, rabbitCh, rabbitmq.AlertsQueue,
		alert.RunConsumer(ctx, tgClient, logger)); err != nil {
		return nil, err
	}

	maker := jwt.NewJWTMaker(cfg.Operator.JWTSecretKey, cfg.Operator.TokenTTL)

	opsRouter := chi.NewRouter()
	RegisterRoutes(opsRouter, logger, cfg.Operator, cfg.Subscription, maker, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      opsRouter,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает цикл опроса Telegram и HTTP-сервер панели оператора,
// блокируясь до отмены контекста или фатальной ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("ops HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	pollDone := make(chan struct{})
	go func() {
		a.dispatcher.Run(ctx)
		close(pollDone)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down gracefully")

		err := a.server.Shutdown(timeoutCtx)
		<-pollDone

		if cerr := a.rabbitCh.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbit channel", sl.Err(cerr))
		}
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbit connection", sl.Err(cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Warn("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
