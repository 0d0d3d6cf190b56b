// internal/metrics/recorder.go
//
// Prometheus metrics for the lobby.
// The Recorder owns its own registry rather than the global default one, so
// several servers (and tests) can live in one process. It consumes game events
// as a notify.Notifier and records HTTP traffic through ObserveRequest.

package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/notify"
)

const namespace = "battleship"

// Recorder collects game and HTTP metrics.
type Recorder struct {
	registry *prometheus.Registry

	gamesCreated  prometheus.Counter
	gamesActive   prometheus.Gauge
	gamesFinished *prometheus.CounterVec
	shots         *prometheus.CounterVec
	placements    prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewRecorder creates a recorder with every metric registered on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		gamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of games created",
		}),
		gamesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "games_active",
			Help:      "Games created and neither finished nor deleted",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of finished games by number of winners",
		}, []string{"winners"}),
		shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_total",
			Help:      "Total number of resolved shots by outcome",
		}, []string{"outcome"}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ship_placements_total",
			Help:      "Total number of accepted fleet placements",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration distribution",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gamesCreated,
		r.gamesActive,
		r.gamesFinished,
		r.shots,
		r.placements,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Notify updates game counters from lobby events.
func (r *Recorder) Notify(_ context.Context, e notify.Event) {
	switch e.Type {
	case notify.GameCreated:
		r.gamesCreated.Inc()
		r.gamesActive.Inc()
	case notify.ShipsPlaced:
		r.placements.Inc()
	case notify.ShotFired:
		if e.Shot != nil {
			r.shots.WithLabelValues(string(e.Shot.Outcome)).Inc()
		}
	case notify.GameFinished:
		r.gamesFinished.WithLabelValues(strconv.Itoa(len(e.Winners))).Inc()
		r.gamesActive.Dec()
	case notify.GameDeleted:
		if e.Status != game.StatusFinished {
			r.gamesActive.Dec()
		}
	}
}

// ObserveRequest records one completed HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, seconds float64) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(seconds)
}
