package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/quiz-live/internal/auth/jwt"
	"github.com/gokatarajesh/quiz-live/internal/broadcast"
	"github.com/gokatarajesh/quiz-live/internal/config"
	"github.com/gokatarajesh/quiz-live/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/quiz-live/internal/db/sqlc"
	"github.com/gokatarajesh/quiz-live/internal/game"
	"github.com/gokatarajesh/quiz-live/internal/leaderboard"
	"github.com/gokatarajesh/quiz-live/internal/logging"
	"github.com/gokatarajesh/quiz-live/internal/quiz"
	"github.com/gokatarajesh/quiz-live/internal/server"
	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server) and
// the live session registry.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	http     *http.Server
	registry *game.Registry
	relay    *broadcast.Relay
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	store := sqlcgen.NewStore(pool)
	quizRepo := repository.NewQuizRepository(store)
	resultRepo := repository.NewResultRepository(store)

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Name,
	})

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	quizSvc := quiz.NewService(quizRepo, quiz.NewCache(redisClient, cfg.Quiz.CacheTTL), logger)
	leaderboardSvc := leaderboard.NewService(redisClient, logger, leaderboard.ServiceOptions{
		TopN:           cfg.Leaderboard.TopN,
		EntryTTL:       cfg.Leaderboard.EntryTTL,
		RedisKeyPrefix: cfg.Leaderboard.KeyPrefix,
	})

	wsHub := ws.NewHub(logger)
	var (
		broadcaster game.Broadcaster
		presence    game.Presence
		relay       *broadcast.Relay
	)
	switch cfg.Game.BroadcastMode {
	case config.BroadcastRedis:
		fanout := broadcast.NewRedis(redisClient)
		broadcaster, presence = fanout, fanout
		relay = broadcast.NewRelay(redisClient, wsHub, logger)
	default:
		local := broadcast.NewLocal(wsHub)
		broadcaster, presence = local, local
	}
	logger.Info().Str("mode", cfg.Game.BroadcastMode).Msg("session broadcast configured")

	registry := game.NewRegistry(game.Deps{
		Broadcaster: broadcaster,
		Results:     resultRepo,
		Scores:      leaderboardSvc,
		Scheduler:   game.WallClock{},
		Metrics:     game.NewMetrics(metricsRegistry),
		Timings:     timingsFrom(cfg.Game),
		Logger:      logger,
	})
	gameSvc := game.NewService(registry, quizSvc, resultRepo, game.ServiceOptions{CodeLength: cfg.Game.CodeLength}, logger)

	quizHandlers := quiz.NewHTTPHandlers(quizSvc, logger)
	gameHandlers := game.NewHTTPHandlers(gameSvc, logger)
	gameWS := game.NewHandler(gameSvc, wsHub, presence, logger)
	lbHandler := leaderboard.NewHTTPHandler(leaderboardSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Options{
		Tokens:   tokens,
		Gatherer: metricsRegistry,
		Pingers: []server.Pinger{
			pool.Ping,
			func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Routes: []server.Route{
			{Pattern: "POST /v1/quizzes", Handler: quizHandlers.Create},
			{Pattern: "GET /v1/quizzes/{id}", Handler: quizHandlers.Get},
			{Pattern: "POST /v1/quizzes/{id}/questions", Handler: quizHandlers.AddQuestion},
			{Pattern: "PATCH /v1/questions/{id}", Handler: quizHandlers.UpdateQuestion},
			{Pattern: "DELETE /v1/questions/{id}", Handler: quizHandlers.DeleteQuestion},
			{Pattern: "POST /v1/questions/{id}/answers", Handler: quizHandlers.AddAnswer},
			{Pattern: "PATCH /v1/answers/{id}", Handler: quizHandlers.UpdateAnswer},
			{Pattern: "DELETE /v1/answers/{id}", Handler: quizHandlers.DeleteAnswer},
			{Pattern: "GET /v1/quizzes/{id}/leaderboard", Handler: lbHandler.HandleGet},
			{Pattern: "POST /v1/sessions", Handler: gameHandlers.CreateSession},
			{Pattern: "POST /v1/sessions/code", Handler: gameHandlers.GenerateCode},
			{Pattern: "GET /v1/sessions/{code}", Handler: gameHandlers.GetSession},
			{Pattern: "POST /v1/sessions/{code}/join", Handler: gameHandlers.Join},
			{Pattern: "POST /v1/sessions/{code}/leave", Handler: gameHandlers.Leave},
			{Pattern: "POST /v1/sessions/{code}/start", Handler: gameHandlers.Start},
			{Pattern: "POST /v1/sessions/{code}/answers", Handler: gameHandlers.SubmitAnswer},
			{Pattern: "GET /v1/results/{id}", Handler: gameHandlers.GetResult},
			{Pattern: "GET /ws/sessions/{code}", Handler: gameWS.HandleWebSocket},
		},
	})

	return &Application{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		http:     apiServer,
		registry: registry,
		relay:    relay,
	}, nil
}

func timingsFrom(cfg config.Game) game.Timings {
	return game.Timings{
		ShortTick:              cfg.ShortTick,
		LongTick:               cfg.LongTick,
		StartCountdown:         cfg.StartCountdown,
		QuestionStartCountdown: cfg.QuestionStartCountdown,
		QuestionCountdown:      cfg.QuestionCountdown,
		CleanupInterval:        cfg.CleanupInterval,
		CleanupTimeout:         cfg.CleanupTimeout,
		PublishTimeout:         cfg.PublishTimeout,
		PersistTimeout:         cfg.PersistTimeout,
	}
}

// Run starts the HTTP server and background workers and waits for a
// termination signal.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.relay != nil {
		g.Go(func() error {
			if err := a.relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("broadcast relay stopped: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutdown requested")
		a.shutdown()
		return nil
	})

	err := g.Wait()
	a.logger.Info().Msg("shutdown complete")
	return err
}

// shutdown stops every session timer before the listeners and pools go away.
func (a *Application) shutdown() {
	a.registry.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}
}
