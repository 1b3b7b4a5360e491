package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type submitDesignRequest struct {
	TeamID     uint   `json:"team_id"`
	DesignData string `json:"design_data"`
}

func (s *Server) handleStartRound(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	round, err := s.engine.StartRound(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "New round started successfully!", "round": round})
}

// handleSubmitDesign leaves field validation to the engine so a missing
// team id is reported before the session lookup.
func (s *Server) handleSubmitDesign(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	var req submitDesignRequest
	if !bindJSON(c, &req, nil, "Team ID and design data are required.") {
		return
	}
	submission, err := s.engine.SubmitDesign(c.Request.Context(), id, req.TeamID, req.DesignData)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Design submitted successfully!", "submission": submission})
}

func (s *Server) handleRoundResults(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	round, submissions, err := s.engine.RoundResults(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"round_number": round.Number, "results": submissions})
}

func (s *Server) handleScoreRound(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	round, submissions, err := s.engine.ScoreRound(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Round scored successfully!",
		"round_number": round.Number,
		"results":      submissions,
	})
}
