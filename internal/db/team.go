package db

type Team struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null;uniqueIndex"`
	GameSessionID *uint  `gorm:"index"`
	Score         int    `gorm:"not null;default:0"`
	Users         []User
}

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"size:80;not null;uniqueIndex"`
	Email    string `gorm:"size:120;not null;uniqueIndex"`
	TeamID   *uint  `gorm:"index"`
}
