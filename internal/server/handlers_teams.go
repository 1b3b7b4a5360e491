package server

import (
	"fmt"
	"net/http"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
}

type createTeamRequest struct {
	Name  string        `json:"name" binding:"required,notblank"`
	Users []userRequest `json:"users" binding:"required,min=1,max=5,dive"`
}

var teamMessages = bindMessages{
	"Name": {
		"required": "Team name is required",
		"notblank": "Team name is required",
	},
	"Users": {
		"required": "At least one user is required to create a team",
		"min":      "At least one user is required to create a team",
		"max":      "Team cannot have more than 5 users.",
	},
	"Username": {
		"required": "Each user needs a username and an email.",
		"notblank": "Each user needs a username and an email.",
	},
	"Email": {
		"required": "Each user needs a username and an email.",
		"email":    "Each user needs a valid email address.",
	},
}

func newUsers(reqs []userRequest) []game.NewUser {
	users := make([]game.NewUser, 0, len(reqs))
	for _, u := range reqs {
		users = append(users, game.NewUser{Username: u.Username, Email: u.Email})
	}
	return users
}

func (s *Server) handleListTeams(c *gin.Context) {
	teams, err := s.engine.Teams(c.Request.Context())
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (s *Server) handleCreateTeam(c *gin.Context) {
	var req createTeamRequest
	if !bindJSON(c, &req, teamMessages, "Team name and users are required.") {
		return
	}
	team, err := s.engine.CreateTeam(c.Request.Context(), game.NewTeam{
		Name:  req.Name,
		Users: newUsers(req.Users),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Team created successfully!", "team": team})
}

func (s *Server) handleGetTeam(c *gin.Context) {
	id, ok := bindID(c, "Team not found.")
	if !ok {
		return
	}
	team, err := s.engine.Team(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(c *gin.Context) {
	id, ok := bindID(c, "Team not found.")
	if !ok {
		return
	}
	if err := s.engine.DeleteTeam(c.Request.Context(), id); err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Team %d deleted successfully!", id)})
}

func (s *Server) handleAddTeamUser(c *gin.Context) {
	id, ok := bindID(c, "Team not found.")
	if !ok {
		return
	}
	var req userRequest
	if !bindJSON(c, &req, teamMessages, "Each user needs a username and an email.") {
		return
	}
	team, err := s.engine.AddUser(c.Request.Context(), id, game.NewUser{Username: req.Username, Email: req.Email})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User added to team successfully!", "team": team})
}
