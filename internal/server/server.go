package server

import (
	"context"
	"log/slog"
	"net/http"

	"material-mastery/internal/config"
	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency checked by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine  *game.Engine
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics
	live    *leaderboardHub
	checks  map[string]Pinger
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.log = logger }
}

// WithHealthCheck adds a named dependency to /healthz.
func WithHealthCheck(name string, p Pinger) Option {
	return func(s *Server) { s.checks[name] = p }
}

// New wires the server to engine and registers it as an engine observer so
// that metrics and live leaderboards follow committed changes.
func New(engine *game.Engine, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		cfg:     cfg,
		log:     slog.Default(),
		metrics: newMetrics(),
		live:    newLeaderboardHub(liveWriteTimeout),
		checks:  make(map[string]Pinger),
	}
	for _, opt := range opts {
		opt(s)
	}
	engine.AddObserver(s)
	return s
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(ginMode(s.cfg.GinMode))
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.middleware())
	r.NoRoute(func(c *gin.Context) {
		writeError(c.Writer, http.StatusNotFound, "Not found.")
	})

	r.GET("/", s.handleHome)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))
	r.GET("/ws/leaderboards", s.handleLeaderboardWebsocket)

	r.GET("/material-cards", s.handleListMaterialCards)
	r.POST("/material-cards", s.handleCreateMaterialCard)
	r.GET("/material-cards/:id", s.handleGetMaterialCard)
	r.PUT("/material-cards/:id", s.handleUpdateMaterialCard)
	r.DELETE("/material-cards/:id", s.handleDeleteMaterialCard)

	r.GET("/challenge-cards", s.handleListChallengeCards)
	r.POST("/challenge-cards", s.handleCreateChallengeCard)
	r.GET("/challenge-cards/:id", s.handleGetChallengeCard)
	r.PUT("/challenge-cards/:id", s.handleUpdateChallengeCard)
	r.DELETE("/challenge-cards/:id", s.handleDeleteChallengeCard)

	r.GET("/bonus-cards", s.handleListBonusCards)
	r.POST("/bonus-cards", s.handleCreateBonusCard)
	r.GET("/bonus-cards/:id", s.handleGetBonusCard)
	r.PUT("/bonus-cards/:id", s.handleUpdateBonusCard)
	r.DELETE("/bonus-cards/:id", s.handleDeleteBonusCard)

	r.GET("/game-sessions", s.handleListSessions)
	r.POST("/game-sessions", s.handleCreateSession)
	r.GET("/game-sessions/:id", s.handleGetSession)
	r.PUT("/game-sessions/:id", s.handleUpdateSession)
	r.DELETE("/game-sessions/:id", s.handleDeleteSession)
	r.GET("/game-sessions/:id/events", s.handleSessionEvents)
	r.POST("/game-sessions/:id/start-round", s.handleStartRound)
	r.PUT("/game-sessions/:id/submit-design", s.handleSubmitDesign)
	r.GET("/game-sessions/:id/round-results", s.handleRoundResults)
	r.POST("/game-sessions/:id/score-round", s.handleScoreRound)

	r.GET("/teams", s.handleListTeams)
	r.POST("/teams", s.handleCreateTeam)
	r.GET("/teams/:id", s.handleGetTeam)
	r.DELETE("/teams/:id", s.handleDeleteTeam)
	r.POST("/teams/:id/users", s.handleAddTeamUser)

	r.GET("/leaderboards", s.handleLeaderboard)
	return r
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	report := gin.H{}
	for name, check := range s.checks {
		if err := check.Ping(c.Request.Context()); err != nil {
			s.log.Warn("health check failed", "check", name, "error", err)
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
}
