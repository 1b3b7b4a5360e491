package game

import "time"

// MaxTeamUsers caps the roster of a single team.
const MaxTeamUsers = 5

type MaterialCard struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Properties string `json:"properties"`
	Uses       string `json:"uses"`
}

type ChallengeCard struct {
	ID                uint    `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	KeyConsiderations *string `json:"key_considerations"`
	BonusPoints       *int    `json:"bonus_points"`
}

type BonusCard struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Effect       string `json:"effect"`
	ScoringRules string `json:"scoring_rules"`
}

// Session is a game session. CurrentRound names the round that is open,
// or the first round while nothing has been started yet.
type Session struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	NumberOfRounds int       `json:"number_of_rounds"`
	CurrentRound   int       `json:"current_round"`
	CreatedAt      time.Time `json:"created_at"`
	Teams          []Team    `json:"teams,omitempty"`
	Rounds         []Round   `json:"rounds,omitempty"`
}

type Round struct {
	ID              uint           `json:"id"`
	SessionID       uint           `json:"game_session_id"`
	Number          int            `json:"round_number"`
	ChallengeCardID uint           `json:"challenge_card_id"`
	BonusCardID     uint           `json:"bonus_card_id"`
	CreatedAt       time.Time      `json:"created_at"`
	ChallengeCard   *ChallengeCard `json:"challenge_card,omitempty"`
	BonusCard       *BonusCard     `json:"bonus_card,omitempty"`
}

type Submission struct {
	ID         uint      `json:"id"`
	TeamID     uint      `json:"team_id"`
	RoundID    uint      `json:"round_id"`
	DesignData string    `json:"design_data"`
	Score      Score     `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

type Team struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SessionID *uint  `json:"game_session_id,omitempty"`
	Score     int    `json:"score"`
	Users     []User `json:"users,omitempty"`
}

// AddUser appends u to the roster unless the team is already full.
func (t *Team) AddUser(u User) error {
	if len(t.Users) >= MaxTeamUsers {
		return ErrTeamFull
	}
	t.Users = append(t.Users, u)
	return nil
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	TeamID   *uint  `json:"team_id,omitempty"`
}

// Standing is one leaderboard row.
type Standing struct {
	TeamID uint   `json:"team_id"`
	Name   string `json:"team_name"`
	Score  int    `json:"score"`
}

const (
	EventSessionCreated  = "session_created"
	EventRoundStarted    = "round_started"
	EventDesignSubmitted = "design_submitted"
	EventRoundScored     = "round_scored"
	EventScoreOverride   = "score_override"
)

// Event is an append-only audit record for a session.
type Event struct {
	ID        uint         `json:"id"`
	SessionID uint         `json:"game_session_id"`
	RoundID   *uint        `json:"round_id,omitempty"`
	TeamID    *uint        `json:"team_id,omitempty"`
	Type      string       `json:"type"`
	Payload   EventPayload `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

type EventPayload struct {
	Name            string `json:"name,omitempty"`
	RoundNumber     int    `json:"round_number,omitempty"`
	ChallengeCardID uint   `json:"challenge_card_id,omitempty"`
	BonusCardID     uint   `json:"bonus_card_id,omitempty"`
	SubmissionID    uint   `json:"submission_id,omitempty"`
	Count           int    `json:"count,omitempty"`
	Points          int    `json:"points,omitempty"`
	PreviousScore   int    `json:"previous_score,omitempty"`
	Score           int    `json:"score,omitempty"`
}
