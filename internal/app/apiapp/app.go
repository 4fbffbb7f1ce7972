package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"swaply/internal/config"
	"swaply/internal/gesture"
	s3infra "swaply/internal/infra/s3"
	"swaply/internal/jobs/cleanup"
	pgrepo "swaply/internal/repo/postgres"
	redrepo "swaply/internal/repo/redis"
	authsvc "swaply/internal/services/auth"
	chatsvc "swaply/internal/services/chat"
	feedsvc "swaply/internal/services/feed"
	itemsvc "swaply/internal/services/items"
	matchessvc "swaply/internal/services/matches"
	ratesvc "swaply/internal/services/rate"
	swipesvc "swaply/internal/services/swipes"
	tradesvc "swaply/internal/services/trade"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	authSessionRepo := redrepo.NewAuthSessionRepo(redisClient)
	tradeSessionRepo := redrepo.NewTradeSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	itemRepo := pgrepo.NewItemRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}
	itemStorage := itemsvc.NewS3Storage(s3Client, cfg.S3.Bucket)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, authSessionRepo, userRepo, cfg.Auth.RefreshTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Trade.SwipesPerMinute, cfg.Trade.SwipesPer10Sec)
	itemsService := itemsvc.NewService(itemRepo, itemStorage, itemsvc.Config{
		MaxPhotosPerItem: cfg.Trade.MaxPhotosPerItem,
	})
	feedService := feedsvc.NewService(feedRepo, itemStorage, feedsvc.Config{
		PageSize: cfg.Trade.FeedPageSize,
	})
	swipesService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:        pool,
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		ItemStore:   itemRepo,
		UserStore:   userRepo,
		Sessions:    tradeSessionRepo,
		RateLimiter: rateLimiter,
	}, swipesvc.Config{
		Thresholds:     gestureThresholds(cfg.Gesture),
		CommitCooldown: cfg.Gesture.CommitCooldown,
	})
	tradeService := tradesvc.NewService(tradesvc.Dependencies{
		Sessions: tradeSessionRepo,
		Items:    itemRepo,
		Reverser: swipesService,
	}, tradesvc.Config{
		UndoCapacity: cfg.Trade.UndoCapacity,
		SessionTTL:   cfg.Trade.SessionTTL,
	})
	matchesService := matchessvc.NewService(matchRepo, messageRepo)
	chatService := chatsvc.NewService(messageRepo, matchRepo, chatsvc.Config{
		MaxMessageLength: cfg.Trade.MaxMessageLength,
		PageLimit:        cfg.Trade.MessagesPageLimit,
	})
	cleanupJob := cleanup.New(swipeRepo, tradeService, cfg.Cleanup.SwipeRetention, log)

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ItemsService:   itemsService,
		FeedService:    feedService,
		SwipesService:  swipesService,
		TradeService:   tradeService,
		MatchesService: matchesService,
		ChatService:    chatService,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanupJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))

	go a.runCleanupLoop(ctx)

	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

func (a *App) runCleanupLoop(ctx context.Context) {
	interval := a.cfg.Cleanup.Interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil {
				a.logger.Error("cleanup run failed", zap.Error(err))
			}
		}
	}
}

func gestureThresholds(cfg config.GestureConfig) gesture.Thresholds {
	return gesture.Thresholds{
		CommitDistancePX:   cfg.CommitDistancePX,
		CommitVelocity:     cfg.CommitVelocity,
		VerticalCancelPX:   cfg.VerticalCancelPX,
		DeadzonePX:         cfg.DeadzonePX,
		OverlayThresholdPX: cfg.OverlayThresholdPX,
		OverlayBandPX:      cfg.OverlayBandPX,
		OverlayMaxOpacity:  cfg.OverlayMaxOpacity,
		OpacityFloor:       cfg.OpacityFloor,
		OpacityFadePX:      cfg.OpacityFadePX,
		RotationScale:      cfg.RotationScale,
	}
}
