package server

import (
	"fmt"
	"net/http"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
)

type teamNameRequest struct {
	Name string `json:"name"`
}

type createSessionRequest struct {
	Name           string            `json:"name" binding:"required,notblank"`
	NumberOfRounds int               `json:"number_of_rounds" binding:"required,min=1"`
	Teams          []teamNameRequest `json:"teams" binding:"required,min=1"`
}

type scoreOverrideRequest struct {
	ID    uint `json:"id" binding:"required"`
	Score *int `json:"score" binding:"required"`
}

type updateSessionRequest struct {
	Name  *string                `json:"name"`
	Teams []scoreOverrideRequest `json:"teams" binding:"omitempty,dive"`
}

const sessionRequired = "Name, number of rounds, and teams are required fields."

var updateSessionMessages = bindMessages{
	"ID":    {"required": "Each team update needs an id."},
	"Score": {"required": "Each team update needs a score."},
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.engine.Sessions(c.Request.Context())
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if !bindJSON(c, &req, nil, sessionRequired) {
		return
	}
	names := make([]string, 0, len(req.Teams))
	for _, team := range req.Teams {
		names = append(names, team.Name)
	}
	session, err := s.engine.CreateSession(c.Request.Context(), game.NewSession{
		Name:           req.Name,
		NumberOfRounds: req.NumberOfRounds,
		TeamNames:      names,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Game session created successfully!", "game_session": session})
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	session, err := s.engine.Session(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleUpdateSession(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	var req updateSessionRequest
	if !bindJSON(c, &req, updateSessionMessages, "Invalid game session update.") {
		return
	}
	update := game.SessionUpdate{Name: req.Name}
	for _, team := range req.Teams {
		update.Overrides = append(update.Overrides, game.ScoreOverride{TeamID: team.ID, Score: *team.Score})
	}
	session, err := s.engine.UpdateSession(c.Request.Context(), id, update)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game session updated successfully!", "game_session": session})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	if err := s.engine.DeleteSession(c.Request.Context(), id); err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Game session %d deleted successfully!", id)})
}

func (s *Server) handleSessionEvents(c *gin.Context) {
	id, ok := bindID(c, "Game session not found.")
	if !ok {
		return
	}
	events, err := s.engine.Events(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
