package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// metrics owns its registry so several servers can live in one process.
type metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
	roundsStarted     prometheus.Counter
	designsSubmitted  prometheus.Counter
	roundsScored      prometheus.Counter
	submissionsScored prometheus.Counter
	liveClients       prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "material_mastery",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "material_mastery",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "material_mastery",
			Subsystem: "game",
			Name:      "rounds_started_total",
			Help:      "Rounds opened across all sessions",
		}),
		designsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "material_mastery",
			Subsystem: "game",
			Name:      "designs_submitted_total",
			Help:      "Design submissions accepted",
		}),
		roundsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "material_mastery",
			Subsystem: "game",
			Name:      "rounds_scored_total",
			Help:      "Successful score-round calls",
		}),
		submissionsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "material_mastery",
			Subsystem: "game",
			Name:      "submissions_scored_total",
			Help:      "Submissions scored by successful score-round calls",
		}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "material_mastery",
			Subsystem: "ws",
			Name:      "leaderboard_clients",
			Help:      "Connected live leaderboard websockets",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestLatency,
		m.roundsStarted,
		m.designsSubmitted,
		m.roundsScored,
		m.submissionsScored,
		m.liveClients,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.requestTotal.With(labels).Inc()
		m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) RoundStarted(ctx context.Context, round game.Round) {
	s.metrics.roundsStarted.Inc()
}

func (s *Server) DesignSubmitted(ctx context.Context, submission game.Submission) {
	s.metrics.designsSubmitted.Inc()
}

func (s *Server) RoundScored(ctx context.Context, sessionID uint, scored []game.Submission) {
	s.metrics.roundsScored.Inc()
	s.metrics.submissionsScored.Add(float64(len(scored)))
}

func (s *Server) LeaderboardChanged(ctx context.Context) {
	s.broadcastLeaderboard(ctx)
}
