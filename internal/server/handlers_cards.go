package server

import (
	"fmt"
	"net/http"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
)

type materialCardRequest struct {
	Name       string `json:"name" binding:"required,notblank"`
	Properties string `json:"properties" binding:"required,notblank"`
	Uses       string `json:"uses" binding:"required,notblank"`
}

type materialCardPatchRequest struct {
	Name       *string `json:"name"`
	Properties *string `json:"properties"`
	Uses       *string `json:"uses"`
}

type challengeCardRequest struct {
	Title             string  `json:"title" binding:"required,notblank"`
	Description       string  `json:"description" binding:"required,notblank"`
	KeyConsiderations *string `json:"key_considerations"`
	BonusPoints       *int    `json:"bonus_points" binding:"omitempty,min=0"`
}

type challengeCardPatchRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	KeyConsiderations *string `json:"key_considerations"`
	BonusPoints       *int    `json:"bonus_points" binding:"omitempty,min=0"`
}

type bonusCardRequest struct {
	Name         string `json:"name" binding:"required,notblank"`
	Effect       string `json:"effect" binding:"required,notblank"`
	ScoringRules string `json:"scoring_rules" binding:"required,notblank"`
}

type bonusCardPatchRequest struct {
	Name         *string `json:"name"`
	Effect       *string `json:"effect"`
	ScoringRules *string `json:"scoring_rules"`
}

const (
	materialCardRequired = "Name, properties, and uses are required fields."
	bonusCardRequired    = "Name, effect, and scoring rules are required fields."
)

var challengeCardMessages = bindMessages{
	"Title": {
		"required": "Title is required",
		"notblank": "Title is required",
	},
	"Description": {
		"required": "Description is required",
		"notblank": "Description is required",
	},
	"BonusPoints": {
		"min": "Bonus points must not be negative.",
	},
}

func (s *Server) handleListMaterialCards(c *gin.Context) {
	cards, err := s.engine.MaterialCards(c.Request.Context())
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) handleCreateMaterialCard(c *gin.Context) {
	var req materialCardRequest
	if !bindJSON(c, &req, nil, materialCardRequired) {
		return
	}
	card, err := s.engine.CreateMaterialCard(c.Request.Context(), game.MaterialCard{
		Name:       req.Name,
		Properties: req.Properties,
		Uses:       req.Uses,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Material card added successfully!", "material_card": card})
}

func (s *Server) handleGetMaterialCard(c *gin.Context) {
	id, ok := bindID(c, "Material card not found.")
	if !ok {
		return
	}
	card, err := s.engine.MaterialCard(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleUpdateMaterialCard(c *gin.Context) {
	id, ok := bindID(c, "Material card not found.")
	if !ok {
		return
	}
	var req materialCardPatchRequest
	if !bindJSON(c, &req, nil, "Invalid material card.") {
		return
	}
	card, err := s.engine.UpdateMaterialCard(c.Request.Context(), id, game.MaterialCardPatch{
		Name:       req.Name,
		Properties: req.Properties,
		Uses:       req.Uses,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material card updated successfully!", "material_card": card})
}

func (s *Server) handleDeleteMaterialCard(c *gin.Context) {
	id, ok := bindID(c, "Material card not found.")
	if !ok {
		return
	}
	if err := s.engine.DeleteMaterialCard(c.Request.Context(), id); err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Material card with ID %d deleted successfully!", id)})
}

func (s *Server) handleListChallengeCards(c *gin.Context) {
	cards, err := s.engine.ChallengeCards(c.Request.Context())
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) handleCreateChallengeCard(c *gin.Context) {
	var req challengeCardRequest
	if !bindJSON(c, &req, challengeCardMessages, "Title is required") {
		return
	}
	card, err := s.engine.CreateChallengeCard(c.Request.Context(), game.ChallengeCard{
		Title:             req.Title,
		Description:       req.Description,
		KeyConsiderations: req.KeyConsiderations,
		BonusPoints:       req.BonusPoints,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Challenge card created successfully!", "id": card.ID, "challenge_card": card})
}

func (s *Server) handleGetChallengeCard(c *gin.Context) {
	id, ok := bindID(c, "Challenge card not found.")
	if !ok {
		return
	}
	card, err := s.engine.ChallengeCard(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleUpdateChallengeCard(c *gin.Context) {
	id, ok := bindID(c, "Challenge card not found.")
	if !ok {
		return
	}
	var req challengeCardPatchRequest
	if !bindJSON(c, &req, challengeCardMessages, "Invalid challenge card.") {
		return
	}
	card, err := s.engine.UpdateChallengeCard(c.Request.Context(), id, game.ChallengeCardPatch{
		Title:             req.Title,
		Description:       req.Description,
		KeyConsiderations: req.KeyConsiderations,
		BonusPoints:       req.BonusPoints,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Challenge card updated successfully!", "challenge_card": card})
}

func (s *Server) handleDeleteChallengeCard(c *gin.Context) {
	id, ok := bindID(c, "Challenge card not found.")
	if !ok {
		return
	}
	if err := s.engine.DeleteChallengeCard(c.Request.Context(), id); err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Challenge card %d deleted successfully!", id)})
}

func (s *Server) handleListBonusCards(c *gin.Context) {
	cards, err := s.engine.BonusCards(c.Request.Context())
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) handleCreateBonusCard(c *gin.Context) {
	var req bonusCardRequest
	if !bindJSON(c, &req, nil, bonusCardRequired) {
		return
	}
	card, err := s.engine.CreateBonusCard(c.Request.Context(), game.BonusCard{
		Name:         req.Name,
		Effect:       req.Effect,
		ScoringRules: req.ScoringRules,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bonus card created successfully!", "bonus_card": card})
}

func (s *Server) handleGetBonusCard(c *gin.Context) {
	id, ok := bindID(c, "Bonus card not found.")
	if !ok {
		return
	}
	card, err := s.engine.BonusCard(c.Request.Context(), id)
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleUpdateBonusCard(c *gin.Context) {
	id, ok := bindID(c, "Bonus card not found.")
	if !ok {
		return
	}
	var req bonusCardPatchRequest
	if !bindJSON(c, &req, nil, "Invalid bonus card.") {
		return
	}
	card, err := s.engine.UpdateBonusCard(c.Request.Context(), id, game.BonusCardPatch{
		Name:         req.Name,
		Effect:       req.Effect,
		ScoringRules: req.ScoringRules,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bonus card updated successfully!", "bonus_card": card})
}

func (s *Server) handleDeleteBonusCard(c *gin.Context) {
	id, ok := bindID(c, "Bonus card not found.")
	if !ok {
		return
	}
	if err := s.engine.DeleteBonusCard(c.Request.Context(), id); err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Bonus card %d deleted successfully!", id)})
}
