package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Observer is told about committed state changes. Calls happen after the
// transaction commits and never affect the outcome of an operation.
// RoundScored receives only the submissions scored by that call.
type Observer interface {
	RoundStarted(ctx context.Context, round Round)
	DesignSubmitted(ctx context.Context, submission Submission)
	RoundScored(ctx context.Context, sessionID uint, scored []Submission)
	LeaderboardChanged(ctx context.Context)
}

// LeaderboardCache caches leaderboard reads. Misses and failures fall back
// to the store.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) ([]Standing, bool, error)
	Set(ctx context.Context, key string, standings []Standing) error
	Invalidate(ctx context.Context) error
}

type Engine struct {
	store     Store
	scorer    Scorer
	drawer    *Drawer
	cache     LeaderboardCache
	observers []Observer
	log       *slog.Logger

	// cacheMu orders cache writes against invalidations; cacheGen counts
	// invalidations so a read that raced one is not written back.
	cacheMu  sync.Mutex
	cacheGen uint64
}

type Option func(*Engine)

func WithScorer(scorer Scorer) Option {
	return func(e *Engine) { e.scorer = scorer }
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.drawer = NewDrawer(seed) }
}

func WithLeaderboardCache(cache LeaderboardCache) Option {
	return func(e *Engine) { e.cache = cache }
}

func WithObserver(observer Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, observer) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		scorer: StandardScorer{MaterialScore: 50, CreativityScore: 30},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.drawer == nil {
		e.drawer = NewDrawer(0)
	}
	return e
}

// AddObserver registers an observer after construction.
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// StartRound opens the next round of a session and draws its cards.
func (e *Engine) StartRound(ctx context.Context, sessionID uint) (Round, error) {
	var round Round
	err := e.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return lookupError(err, "Game session not found.")
		}

		next := session.CurrentRound
		if _, err := tx.Round(ctx, session.ID, next); err == nil {
			next++
		} else if !IsNotFound(err) {
			return StoreFailure(err)
		}
		if next > session.NumberOfRounds {
			return ErrRoundLimitExceeded
		}

		challenges, err := tx.ChallengeCards(ctx)
		if err != nil {
			return StoreFailure(err)
		}
		challenge, ok := drawCard(e.drawer, challenges)
		if !ok {
			return ErrNoCardsAvailable.WithMessage("No challenge cards available.")
		}
		bonuses, err := tx.BonusCards(ctx)
		if err != nil {
			return StoreFailure(err)
		}
		bonus, ok := drawCard(e.drawer, bonuses)
		if !ok {
			return ErrNoCardsAvailable.WithMessage("No bonus cards available.")
		}

		if err := tx.SetCurrentRound(ctx, session.ID, next); err != nil {
			return StoreFailure(err)
		}
		round = Round{
			SessionID:       session.ID,
			Number:          next,
			ChallengeCardID: challenge.ID,
			BonusCardID:     bonus.ID,
		}
		if err := tx.CreateRound(ctx, &round); err != nil {
			if errors.Is(err, ErrUniqueViolation) {
				return ErrRoundLimitExceeded.WithMessage(fmt.Sprintf("Round %d already exists.", next))
			}
			return StoreFailure(err)
		}
		round.ChallengeCard = &challenge
		round.BonusCard = &bonus

		return recordEvent(ctx, tx, &Event{
			SessionID: session.ID,
			RoundID:   &round.ID,
			Type:      EventRoundStarted,
			Payload: EventPayload{
				RoundNumber:     round.Number,
				ChallengeCardID: challenge.ID,
				BonusCardID:     bonus.ID,
			},
		})
	})
	if err != nil {
		return Round{}, err
	}
	e.log.Info("round started", "session_id", sessionID, "round_number", round.Number,
		"challenge_card_id", round.ChallengeCardID, "bonus_card_id", round.BonusCardID)
	for _, o := range e.observers {
		o.RoundStarted(ctx, round)
	}
	return round, nil
}

// SubmitDesign records a team's design for the session's current round.
// A team submits at most once per round.
func (e *Engine) SubmitDesign(ctx context.Context, sessionID, teamID uint, designData string) (Submission, error) {
	if teamID == 0 || strings.TrimSpace(designData) == "" {
		return Submission{}, validationError("Team ID and design data are required.")
	}

	var submission Submission
	err := e.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return lookupError(err, "Game session not found.")
		}
		if session.CurrentRound > session.NumberOfRounds {
			return ErrRoundNotActive
		}
		round, err := tx.Round(ctx, session.ID, session.CurrentRound)
		if err != nil {
			return lookupError(err, "Current round not found.")
		}
		if session.CurrentRound == session.NumberOfRounds {
			finished, err := roundHasScores(ctx, tx, round.ID)
			if err != nil {
				return err
			}
			if finished {
				return ErrRoundNotActive.WithMessage("Game session has finished.")
			}
		}
		if _, err := tx.SessionTeam(ctx, session.ID, teamID); err != nil {
			return lookupError(err, "Team not found.")
		}
		if _, err := tx.Submission(ctx, teamID, round.ID); err == nil {
			return ErrDuplicateSubmission
		} else if !IsNotFound(err) {
			return StoreFailure(err)
		}

		submission = Submission{
			TeamID:     teamID,
			RoundID:    round.ID,
			DesignData: designData,
			Score:      Unscored(),
		}
		if err := tx.CreateSubmission(ctx, &submission); err != nil {
			if errors.Is(err, ErrUniqueViolation) {
				return ErrDuplicateSubmission
			}
			return StoreFailure(err)
		}
		return recordEvent(ctx, tx, &Event{
			SessionID: session.ID,
			RoundID:   &round.ID,
			TeamID:    &teamID,
			Type:      EventDesignSubmitted,
			Payload:   EventPayload{RoundNumber: round.Number, SubmissionID: submission.ID},
		})
	})
	if err != nil {
		return Submission{}, err
	}
	e.log.Info("design submitted", "session_id", sessionID, "team_id", teamID, "submission_id", submission.ID)
	for _, o := range e.observers {
		o.DesignSubmitted(ctx, submission)
	}
	return submission, nil
}

// ScoreRound scores every unscored submission of the current round and
// credits the owning teams. Submissions that already carry a score are
// left alone; if none are left to score the call fails with
// ErrAlreadyScored.
func (e *Engine) ScoreRound(ctx context.Context, sessionID uint) (Round, []Submission, error) {
	var (
		round    Round
		result   []Submission
		newScore []Submission
		scored   int
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return lookupError(err, "Game session not found.")
		}
		round, err = tx.Round(ctx, session.ID, session.CurrentRound)
		if err != nil {
			return lookupError(err, "Current round not found or not yet started.")
		}
		submissions, err := tx.Submissions(ctx, round.ID)
		if err != nil {
			return StoreFailure(err)
		}
		if len(submissions) == 0 {
			return ErrNoSubmissions
		}

		input := ScoreInput{}
		if card, err := tx.ChallengeCard(ctx, round.ChallengeCardID); err == nil {
			input.ChallengeCard = &card
		} else if !IsNotFound(err) {
			return StoreFailure(err)
		}
		if card, err := tx.BonusCard(ctx, round.BonusCardID); err == nil {
			input.BonusCard = &card
		} else if !IsNotFound(err) {
			return StoreFailure(err)
		}
		round.ChallengeCard = input.ChallengeCard
		round.BonusCard = input.BonusCard

		for i := range submissions {
			sub := &submissions[i]
			if sub.Score.IsScored() {
				continue
			}
			input.DesignData = sub.DesignData
			points := e.scorer.Score(input)
			if err := tx.SetSubmissionScore(ctx, sub.ID, points); err != nil {
				return StoreFailure(err)
			}
			if err := tx.AddTeamScore(ctx, sub.TeamID, points); err != nil {
				return lookupError(err, fmt.Sprintf("Team %d not found.", sub.TeamID))
			}
			sub.Score = Scored(points)
			newScore = append(newScore, *sub)
			scored++
		}
		if scored == 0 {
			return ErrAlreadyScored
		}
		result = submissions
		return recordEvent(ctx, tx, &Event{
			SessionID: session.ID,
			RoundID:   &round.ID,
			Type:      EventRoundScored,
			Payload:   EventPayload{RoundNumber: round.Number, Count: scored},
		})
	})
	if err != nil {
		return Round{}, nil, err
	}
	e.log.Info("round scored", "session_id", sessionID, "round_number", round.Number, "scored", scored)
	for _, o := range e.observers {
		o.RoundScored(ctx, sessionID, newScore)
	}
	e.notifyLeaderboard(ctx)
	return round, result, nil
}

// RoundResults returns the current round and its submissions.
func (e *Engine) RoundResults(ctx context.Context, sessionID uint) (Round, []Submission, error) {
	var (
		round       Round
		submissions []Submission
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.Session(ctx, sessionID)
		if err != nil {
			return lookupError(err, "Game session not found.")
		}
		round, err = tx.Round(ctx, session.ID, session.CurrentRound)
		if err != nil {
			return lookupError(err, "Current round not found or not yet started.")
		}
		submissions, err = tx.Submissions(ctx, round.ID)
		if err != nil {
			return StoreFailure(err)
		}
		return nil
	})
	if err != nil {
		return Round{}, nil, err
	}
	return round, submissions, nil
}

// Leaderboard ranks teams by score, highest first. Equal scores keep
// insertion order. A nil sessionID ranks every team.
func (e *Engine) Leaderboard(ctx context.Context, sessionID *uint) ([]Standing, error) {
	key := leaderboardKey(sessionID)
	if e.cache != nil {
		standings, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			e.log.Warn("leaderboard cache read failed", "key", key, "error", err)
		} else if ok {
			return standings, nil
		}
	}

	gen := e.cacheGeneration()
	var standings []Standing
	err := e.store.InTx(ctx, func(tx Tx) error {
		if sessionID != nil {
			if _, err := tx.Session(ctx, *sessionID); err != nil {
				return lookupError(err, "Game session not found.")
			}
		}
		teams, err := tx.Teams(ctx, sessionID)
		if err != nil {
			return StoreFailure(err)
		}
		standings = rankTeams(teams)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.storeLeaderboard(ctx, gen, key, standings)
	}
	return standings, nil
}

func (e *Engine) cacheGeneration() uint64 {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	return e.cacheGen
}

// storeLeaderboard caches standings read at generation gen, unless an
// invalidation ran since.
func (e *Engine) storeLeaderboard(ctx context.Context, gen uint64, key string, standings []Standing) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if gen != e.cacheGen {
		return
	}
	if err := e.cache.Set(ctx, key, standings); err != nil {
		e.log.Warn("leaderboard cache write failed", "key", key, "error", err)
	}
}

func rankTeams(teams []Team) []Standing {
	standings := make([]Standing, 0, len(teams))
	for _, team := range teams {
		standings = append(standings, Standing{TeamID: team.ID, Name: team.Name, Score: team.Score})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

func leaderboardKey(sessionID *uint) string {
	if sessionID == nil {
		return "all"
	}
	return fmt.Sprintf("session:%d", *sessionID)
}

func (e *Engine) invalidateLeaderboard(ctx context.Context) {
	if e.cache == nil {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cacheGen++
	if err := e.cache.Invalidate(ctx); err != nil {
		e.log.Warn("leaderboard cache invalidation failed", "error", err)
	}
}

func (e *Engine) notifyLeaderboard(ctx context.Context) {
	e.invalidateLeaderboard(ctx)
	for _, o := range e.observers {
		o.LeaderboardChanged(ctx)
	}
}

// roundHasScores reports whether any submission of the round is scored.
func roundHasScores(ctx context.Context, tx Tx, roundID uint) (bool, error) {
	submissions, err := tx.Submissions(ctx, roundID)
	if err != nil {
		return false, StoreFailure(err)
	}
	for _, sub := range submissions {
		if sub.Score.IsScored() {
			return true, nil
		}
	}
	return false, nil
}

func recordEvent(ctx context.Context, tx Tx, event *Event) error {
	if err := tx.RecordEvent(ctx, event); err != nil {
		return StoreFailure(err)
	}
	return nil
}

// lookupError specialises a not-found error with message and wraps
// anything else as a store failure.
func lookupError(err error, message string) error {
	if IsNotFound(err) {
		return notFound(message)
	}
	return StoreFailure(err)
}
