package game

import (
	"context"
	"errors"
	"strings"
)

type NewUser struct {
	Username string
	Email    string
}

type NewTeam struct {
	Name  string
	Users []NewUser
}

// CreateTeam creates a standalone team with 1 to MaxTeamUsers users. Users
// are matched by email and reused when they already exist.
func (e *Engine) CreateTeam(ctx context.Context, req NewTeam) (Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Team{}, validationError("Team name is required")
	}
	if len(req.Users) == 0 {
		return Team{}, validationError("At least one user is required to create a team")
	}
	if len(req.Users) > MaxTeamUsers {
		return Team{}, ErrTeamFull
	}
	for _, u := range req.Users {
		if err := validateNewUser(u); err != nil {
			return Team{}, err
		}
	}

	team := Team{Name: name}
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateTeam(ctx, &team); err != nil {
			if errors.Is(err, ErrUniqueViolation) {
				return ErrDuplicateTeamName
			}
			return StoreFailure(err)
		}
		for _, u := range req.Users {
			user, err := ensureUser(ctx, tx, u)
			if err != nil {
				return err
			}
			if err := team.AddUser(user); err != nil {
				return err
			}
			if err := tx.AssignUser(ctx, user.ID, team.ID); err != nil {
				return StoreFailure(err)
			}
		}
		var err error
		team, err = tx.Team(ctx, team.ID)
		return StoreFailure(err)
	})
	if err != nil {
		return Team{}, err
	}
	e.log.Info("team created", "team_id", team.ID, "users", len(team.Users))
	e.notifyLeaderboard(ctx)
	return team, nil
}

// AddUser adds one user to an existing team, respecting the roster cap.
func (e *Engine) AddUser(ctx context.Context, teamID uint, req NewUser) (Team, error) {
	if err := validateNewUser(req); err != nil {
		return Team{}, err
	}
	var team Team
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		team, err = tx.Team(ctx, teamID)
		if err != nil {
			return lookupError(err, "Team not found.")
		}
		user, err := ensureUser(ctx, tx, req)
		if err != nil {
			return err
		}
		if user.TeamID != nil && *user.TeamID == team.ID {
			return nil
		}
		if err := team.AddUser(user); err != nil {
			return err
		}
		if err := tx.AssignUser(ctx, user.ID, team.ID); err != nil {
			return StoreFailure(err)
		}
		team, err = tx.Team(ctx, team.ID)
		return StoreFailure(err)
	})
	if err != nil {
		return Team{}, err
	}
	return team, nil
}

func (e *Engine) Teams(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		teams, err = tx.Teams(ctx, nil)
		return StoreFailure(err)
	})
	return teams, err
}

func (e *Engine) Team(ctx context.Context, id uint) (Team, error) {
	var team Team
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		team, err = tx.Team(ctx, id)
		if err != nil {
			return lookupError(err, "Team not found.")
		}
		return nil
	})
	return team, err
}

// DeleteTeam removes a team and its submissions; its users become free agents.
func (e *Engine) DeleteTeam(ctx context.Context, id uint) error {
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := tx.DeleteTeam(ctx, id); err != nil {
			return lookupError(err, "Team not found.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.notifyLeaderboard(ctx)
	return nil
}

func validateNewUser(u NewUser) error {
	if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(u.Email) == "" {
		return validationError("Each user needs a username and an email.")
	}
	return nil
}

func ensureUser(ctx context.Context, tx Tx, req NewUser) (User, error) {
	email := strings.TrimSpace(req.Email)
	user, err := tx.UserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !IsNotFound(err) {
		return User{}, StoreFailure(err)
	}
	user = User{Username: strings.TrimSpace(req.Username), Email: email}
	if err := tx.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return User{}, ErrUniqueViolation.WithMessage("Username already taken: " + user.Username)
		}
		return User{}, StoreFailure(err)
	}
	return user, nil
}
