package db

import (
	"encoding/json"

	"material-mastery/internal/game"
)

func (r MaterialCard) toGame() game.MaterialCard {
	return game.MaterialCard{ID: r.ID, Name: r.Name, Properties: r.Properties, Uses: r.Uses}
}

func (r ChallengeCard) toGame() game.ChallengeCard {
	return game.ChallengeCard{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		KeyConsiderations: r.KeyConsiderations,
		BonusPoints:       r.BonusPoints,
	}
}

func (r BonusCard) toGame() game.BonusCard {
	return game.BonusCard{ID: r.ID, Name: r.Name, Effect: r.Effect, ScoringRules: r.ScoringRules}
}

func (r GameSession) toGame() game.Session {
	return game.Session{
		ID:             r.ID,
		Name:           r.Name,
		NumberOfRounds: r.NumberOfRounds,
		CurrentRound:   r.CurrentRound,
		CreatedAt:      r.CreatedAt,
	}
}

func (r Round) toGame() game.Round {
	return game.Round{
		ID:              r.ID,
		SessionID:       r.GameSessionID,
		Number:          r.RoundNumber,
		ChallengeCardID: r.ChallengeCardID,
		BonusCardID:     r.BonusCardID,
		CreatedAt:       r.CreatedAt,
	}
}

func (r DesignSubmission) toGame() game.Submission {
	return game.Submission{
		ID:         r.ID,
		TeamID:     r.TeamID,
		RoundID:    r.RoundID,
		DesignData: r.DesignData,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
	}
}

func (r Team) toGame() game.Team {
	team := game.Team{ID: r.ID, Name: r.Name, SessionID: r.GameSessionID, Score: r.Score}
	for _, u := range r.Users {
		team.Users = append(team.Users, u.toGame())
	}
	return team
}

func (r User) toGame() game.User {
	return game.User{ID: r.ID, Username: r.Username, Email: r.Email, TeamID: r.TeamID}
}

func (r Event) toGame() (game.Event, error) {
	event := game.Event{
		ID:        r.ID,
		SessionID: r.GameSessionID,
		RoundID:   r.RoundID,
		TeamID:    r.TeamID,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &event.Payload); err != nil {
			return game.Event{}, err
		}
	}
	return event, nil
}
