package db

import "time"

type GameSession struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:100;not null"`
	NumberOfRounds int       `gorm:"not null"`
	CurrentRound   int       `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
}
