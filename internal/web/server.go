package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// board renderer used for event stream broadcasts. A nil gatherer serves the
// default Prometheus registry; a nil logger discards output.
func NewServer(s *app.Service, gatherer prometheus.Gatherer, log *zap.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = zap.NewNop()
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: log}
	s.SetRenderer(h.renderBoard)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", h.index)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Post("/session", h.create)
	r.Route("/session/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Get("/state", h.state)
		r.Get("/events", h.events)
		r.Post("/cell/{idx}", h.activate)
		r.Post("/new", h.newMatch)
		r.Post("/reset", h.resetAll)
	})
	return r
}
