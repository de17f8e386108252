package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-badge-engine/internal/application/achievement"
	"github.com/go-badge-engine/internal/application/notification"
	"github.com/go-badge-engine/internal/application/subscription"
	"github.com/go-badge-engine/internal/config"
	"github.com/go-badge-engine/internal/domain"
	"github.com/go-badge-engine/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-badge-engine/internal/infrastructure/jwt"
	"github.com/go-badge-engine/internal/infrastructure/postgres"
	"github.com/go-badge-engine/internal/infrastructure/realtime"
	"github.com/go-badge-engine/internal/infrastructure/sns"
	"github.com/go-badge-engine/internal/infrastructure/webpush"
	"github.com/go-badge-engine/internal/pkg/logger"
	transporthttp "github.com/go-badge-engine/internal/transport/http"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist) and seed the catalog.
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		zl.Fatal("dynamodb client", zap.Error(err))
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, zl)

	badgeRepo := dynamo.NewBadgeRepo(dynamoClient, cfg.DynamoTables.Badges)
	if n, err := badgeRepo.Seed(ctx, domain.BadgeCatalog); err != nil {
		zl.Fatal("seed badge catalog", zap.Error(err))
	} else {
		zl.Info("badge catalog seeded", zap.Int("inserted", n))
	}
	userBadgeRepo := dynamo.NewUserBadgeRepo(dynamoClient, cfg.DynamoTables.UserBadges)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	subscriptionRepo := dynamo.NewPushSubscriptionRepo(dynamoClient, cfg.DynamoTables.PushSubscriptions)

	// Marketplace aggregates (read only).
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		zl.Fatal("postgres pool", zap.Error(err))
	}
	defer pool.Close()
	stats := postgres.NewStatsRepository(pool)

	// JWT provider (optional; routes run unauthenticated if the key is missing outside production).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else if cfg.IsProduction() {
		zl.Fatal("jwt provider", zap.Error(err))
	} else {
		zl.Warn("JWT provider not available, routes are unauthenticated", zap.Error(err))
	}

	// SNS badge events (optional).
	var events achievement.EventPublisher = achievement.NopEventPublisher{}
	if cfg.BadgeEventsTopicARN != "" {
		awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			zl.Fatal("aws config for sns", zap.Error(err))
		}
		events = sns.NewEventPublisher(awsCfg, cfg.BadgeEventsTopicARN)
	}

	// Web push (optional).
	var pushSender notification.PushSender
	if cfg.PushEnabled() {
		pushSender = webpush.NewSender(webpush.Options{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.VAPIDSubscriber,
			TTLSeconds:      cfg.PushTTLSeconds,
		})
	} else {
		zl.Warn("VAPID keys not configured, web push disabled")
	}

	hub := realtime.NewHub(zl.Named("realtime"), cfg.AllowedOrigins)

	fanout := notification.NewFanout(notification.FanoutDeps{
		Broadcaster:   hub,
		Subscriptions: subscriptionRepo,
		Sender:        pushSender,
		Marker:        notificationRepo,
		Janitor:       notification.NewJanitor(subscriptionRepo, zl.Named("janitor")),
		Workers:       cfg.PushWorkers,
		SendTimeout:   cfg.PushSendTimeout,
		Logger:        zl.Named("fanout"),
	})
	coordinator := achievement.NewCoordinator(achievement.CoordinatorDeps{
		Badges:          badgeRepo,
		UserBadges:      userBadgeRepo,
		Events:          events,
		Notifications:   notification.NewFactory(notificationRepo, cfg.ProfileLinkBase),
		Delivery:        fanout,
		DeliveryTimeout: cfg.DeliveryTimeout,
		Logger:          zl.Named("award"),
	})

	table := achievement.NewDispatchTable(achievement.DefaultRoutes(), achievement.NewEvaluators(stats, time.Now))
	if err := table.Validate(); err != nil {
		zl.Fatal("invalid trigger dispatch table", zap.Error(err))
	}
	dispatcher := achievement.NewDispatcher(table, coordinator, cfg.EvaluatorWorkers, zl.Named("dispatch"))

	deps := &transporthttp.Deps{
		Dispatcher:    dispatcher,
		Badges:        achievement.NewQuery(badgeRepo, userBadgeRepo),
		Notifications: notification.NewService(notificationRepo),
		Subscriptions: subscription.NewService(subscriptionRepo),
		Realtime:      hub,
		JWTProvider:   jwtProvider,
		Logger:        zl.Named("http"),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DeliveryTimeout+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}

	// Let in-flight notification deliveries finish before closing the hub.
	done := make(chan struct{})
	go func() {
		coordinator.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		zl.Warn("pending notification deliveries abandoned")
	}
	hub.Close()
	zl.Info("server stopped")
}
