package db

type MaterialCard struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	Properties string `gorm:"type:text;not null"`
	Uses       string `gorm:"type:text;not null"`
}

type ChallengeCard struct {
	ID                uint    `gorm:"primaryKey"`
	Title             string  `gorm:"size:100;not null"`
	Description       string  `gorm:"type:text;not null"`
	KeyConsiderations *string `gorm:"type:text"`
	BonusPoints       *int
}

type BonusCard struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Effect       string `gorm:"type:text;not null"`
	ScoringRules string `gorm:"type:text;not null"`
}
