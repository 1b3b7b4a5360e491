package db

import (
	"time"

	"material-mastery/internal/game"
)

type Round struct {
	ID              uint      `gorm:"primaryKey"`
	GameSessionID   uint      `gorm:"index;not null;uniqueIndex:idx_rounds_session_number"`
	RoundNumber     int       `gorm:"not null;uniqueIndex:idx_rounds_session_number"`
	ChallengeCardID uint      `gorm:"index;not null"`
	BonusCardID     uint      `gorm:"index;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

// DesignSubmission holds one team's design for one round. Score is NULL
// until the round is scored.
type DesignSubmission struct {
	ID         uint       `gorm:"primaryKey"`
	TeamID     uint       `gorm:"index;not null;uniqueIndex:idx_design_submissions_team_round"`
	RoundID    uint       `gorm:"index;not null;uniqueIndex:idx_design_submissions_team_round"`
	DesignData string     `gorm:"type:text;not null"`
	Score      game.Score `gorm:"type:integer"`
	CreatedAt  time.Time  `gorm:"not null"`
}
