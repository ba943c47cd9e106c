package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wordplay-service/internal/app"
)

// Handler serves the REST API and the live leaderboard stream.
type Handler struct {
	service  *app.GameService
	tokens   TokenVerifier
	logger   *slog.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader
}

func NewHandler(service *app.GameService, tokens TokenVerifier, logger *slog.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter mounts the API under /api/game/game-type/{kind} plus /healthz and /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/game/game-type/{kind}", func(r chi.Router) {
		r.Use(h.gameKind)
		r.Use(h.authenticate)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", h.createGame)
			r.Get("/", h.listGames)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", h.getGame)
				r.Put("/", h.updateGame)
				r.Delete("/", h.deleteGame)
				r.Put("/thumbnail", h.setThumbnail)
				r.Patch("/publish", h.publishGame)
				r.Patch("/unpublish", h.unpublishGame)
				r.Get("/play", h.previewGame)

				r.Get("/questions", h.listQuestions)
				r.Post("/questions", h.addQuestion)
				r.Get("/questions/{questionID}", h.getQuestion)
				r.Put("/questions/{questionID}", h.updateQuestion)
				r.Delete("/questions/{questionID}", h.deleteQuestion)
			})
		})

		r.Route("/play/{gameID}", func(r chi.Router) {
			r.Get("/", h.playView)
			r.Post("/answer", h.checkAnswer)
			r.Post("/submit", h.submitAnswers)
			r.Get("/result", h.results)
			r.Get("/live", h.live)
		})
	})
	return r
}
