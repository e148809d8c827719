package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	"github.com/gokatarajesh/quiz-live/internal/config"
	"github.com/gokatarajesh/quiz-live/internal/logging"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades. Origins are checked by the CORS layer.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// Route is one authenticated endpoint. Pattern uses net/http method patterns,
// e.g. "POST /v1/sessions".
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Options carries everything NewHTTPServer wires.
type Options struct {
	Tokens   auth.TokenValidator
	Gatherer prometheus.Gatherer
	Pingers  []Pinger
	Routes   []Route
}

// NewHTTPServer wires base routes (health, metrics) and the authenticated API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, opts Options) *http.Server {
	mux := NewMux(logger, opts)
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: CORS(cfg.CORS)(mux),
	}
}

// NewMux builds the route table without the server wrapper.
func NewMux(logger zerolog.Logger, opts Options) *http.ServeMux {
	mux := http.NewServeMux()
	authenticate := auth.AuthMiddleware(opts.Tokens, logger)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Handle("GET /v1/ping", authenticate(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, opts.Pingers); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeServiceUnavailable, "Upstream dependency unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	}))))

	for _, route := range opts.Routes {
		mux.Handle(route.Pattern, authenticate(auth.RequireAuth(route.Handler)))
	}
	return mux
}

func pingDependencies(ctx context.Context, pingers []Pinger) error {
	for _, ping := range pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
