package server

import (
	"net/http"

	"material-mastery/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

type leaderboardQuery struct {
	SessionID *uint `form:"session_id"`
}

// handleLeaderboard ranks all teams, or only the teams of one session when
// session_id is given.
func (s *Server) handleLeaderboard(c *gin.Context) {
	var query leaderboardQuery
	if !bindQuery(c, &query) {
		return
	}
	standings, err := s.engine.Leaderboard(c.Request.Context(), query.SessionID)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": standings})
}

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home()).ServeHTTP(c.Writer, c.Request)
}
