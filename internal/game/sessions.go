package game

import (
	"context"
	"errors"
	"strings"
)

type NewSession struct {
	Name           string
	NumberOfRounds int
	TeamNames      []string
}

// ScoreOverride replaces a team's running score by hand.
type ScoreOverride struct {
	TeamID uint
	Score  int
}

type SessionUpdate struct {
	Name      *string
	Overrides []ScoreOverride
}

// CreateSession creates a session at round 1 together with its teams.
// Team entries with a blank name are skipped.
func (e *Engine) CreateSession(ctx context.Context, req NewSession) (Session, error) {
	name := strings.TrimSpace(req.Name)
	var teamNames []string
	for _, teamName := range req.TeamNames {
		if trimmed := strings.TrimSpace(teamName); trimmed != "" {
			teamNames = append(teamNames, trimmed)
		}
	}
	if name == "" || req.NumberOfRounds < 1 || len(teamNames) == 0 {
		return Session{}, validationError("Name, number of rounds, and teams are required fields.")
	}

	session := Session{Name: name, NumberOfRounds: req.NumberOfRounds, CurrentRound: 1}
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateSession(ctx, &session); err != nil {
			return StoreFailure(err)
		}
		for _, teamName := range teamNames {
			team := Team{Name: teamName, SessionID: &session.ID}
			if err := tx.CreateTeam(ctx, &team); err != nil {
				if errors.Is(err, ErrUniqueViolation) {
					return ErrDuplicateTeamName.WithMessage("Team name already exists: " + teamName)
				}
				return StoreFailure(err)
			}
			session.Teams = append(session.Teams, team)
		}
		return recordEvent(ctx, tx, &Event{
			SessionID: session.ID,
			Type:      EventSessionCreated,
			Payload:   EventPayload{Name: session.Name, Count: len(session.Teams)},
		})
	})
	if err != nil {
		return Session{}, err
	}
	e.log.Info("game session created", "session_id", session.ID, "teams", len(session.Teams))
	e.notifyLeaderboard(ctx)
	return session, nil
}

func (e *Engine) Sessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		sessions, err = tx.Sessions(ctx)
		return StoreFailure(err)
	})
	return sessions, err
}

// Session returns the session with its teams and rounds.
func (e *Engine) Session(ctx context.Context, id uint) (Session, error) {
	var session Session
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		session, err = loadSession(ctx, tx, id)
		return err
	})
	return session, err
}

func loadSession(ctx context.Context, tx Tx, id uint) (Session, error) {
	session, err := tx.Session(ctx, id)
	if err != nil {
		return Session{}, lookupError(err, "Game session not found.")
	}
	if session.Teams, err = tx.Teams(ctx, &session.ID); err != nil {
		return Session{}, StoreFailure(err)
	}
	if session.Rounds, err = tx.Rounds(ctx, session.ID); err != nil {
		return Session{}, StoreFailure(err)
	}
	return session, nil
}

// UpdateSession renames a session and applies manual score overrides.
// Overrides bypass the scoring engine, so each one is recorded in the
// session's event log.
func (e *Engine) UpdateSession(ctx context.Context, id uint, update SessionUpdate) (Session, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return Session{}, validationError("Name must not be empty.")
	}

	var session Session
	err := e.store.InTx(ctx, func(tx Tx) error {
		current, err := tx.LockSession(ctx, id)
		if err != nil {
			return lookupError(err, "Game session not found.")
		}
		if update.Name != nil {
			if err := tx.RenameSession(ctx, current.ID, strings.TrimSpace(*update.Name)); err != nil {
				return StoreFailure(err)
			}
		}
		for _, override := range update.Overrides {
			team, err := tx.SessionTeam(ctx, current.ID, override.TeamID)
			if err != nil {
				if IsNotFound(err) {
					continue
				}
				return StoreFailure(err)
			}
			if err := tx.SetTeamScore(ctx, team.ID, override.Score); err != nil {
				return StoreFailure(err)
			}
			if err := recordEvent(ctx, tx, &Event{
				SessionID: current.ID,
				TeamID:    &team.ID,
				Type:      EventScoreOverride,
				Payload:   EventPayload{PreviousScore: team.Score, Score: override.Score},
			}); err != nil {
				return err
			}
			e.log.Warn("score override", "session_id", current.ID, "team_id", team.ID,
				"previous_score", team.Score, "score", override.Score)
		}
		session, err = loadSession(ctx, tx, current.ID)
		return err
	})
	if err != nil {
		return Session{}, err
	}
	if len(update.Overrides) > 0 {
		e.notifyLeaderboard(ctx)
	}
	return session, nil
}

// DeleteSession removes a session with its rounds, submissions and events.
// Its teams survive, detached from the session.
func (e *Engine) DeleteSession(ctx context.Context, id uint) error {
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := tx.DeleteSession(ctx, id); err != nil {
			return lookupError(err, "Game session not found.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("game session deleted", "session_id", id)
	e.notifyLeaderboard(ctx)
	return nil
}

func (e *Engine) Events(ctx context.Context, sessionID uint) ([]Event, error) {
	var events []Event
	err := e.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.Session(ctx, sessionID); err != nil {
			return lookupError(err, "Game session not found.")
		}
		var err error
		events, err = tx.Events(ctx, sessionID)
		return StoreFailure(err)
	})
	return events, err
}
