package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	opts = append([]Option{WithSeed(7), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewEngine(store, opts...), store
}

func seedCards(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	points := 5
	if _, err := e.CreateChallengeCard(ctx, ChallengeCard{Title: "Bridge", Description: "Span a gap", BonusPoints: &points}); err != nil {
		t.Fatalf("create challenge card: %v", err)
	}
	if _, err := e.CreateChallengeCard(ctx, ChallengeCard{Title: "Tower", Description: "Build tall"}); err != nil {
		t.Fatalf("create challenge card: %v", err)
	}
	if _, err := e.CreateBonusCard(ctx, BonusCard{Name: "Recycler", Effect: "Reuse scraps", ScoringRules: "+10"}); err != nil {
		t.Fatalf("create bonus card: %v", err)
	}
}

func createSession(t *testing.T, e *Engine, rounds int, teams ...string) Session {
	t.Helper()
	session, err := e.CreateSession(context.Background(), NewSession{Name: "Sprint1", NumberOfRounds: rounds, TeamNames: teams})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestStartRoundNumbersRoundsUpToLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 3, "A", "B")
	if session.CurrentRound != 1 {
		t.Fatalf("expected current round 1, got %d", session.CurrentRound)
	}

	for want := 1; want <= 3; want++ {
		round, err := e.StartRound(ctx, session.ID)
		if err != nil {
			t.Fatalf("start round %d: %v", want, err)
		}
		if round.Number != want {
			t.Fatalf("expected round %d, got %d", want, round.Number)
		}
		if round.ChallengeCard == nil || round.BonusCard == nil {
			t.Fatalf("expected drawn cards on round %d", want)
		}
	}

	if _, err := e.StartRound(ctx, session.ID); !errors.Is(err, ErrRoundLimitExceeded) {
		t.Fatalf("expected round limit error, got %v", err)
	}

	loaded, err := e.Session(ctx, session.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.CurrentRound != 3 || len(loaded.Rounds) != 3 {
		t.Fatalf("expected 3 rounds at current round 3, got %d rounds at %d", len(loaded.Rounds), loaded.CurrentRound)
	}
	for i, round := range loaded.Rounds {
		if round.Number != i+1 {
			t.Fatalf("expected round numbers 1..3, got %d at %d", round.Number, i)
		}
	}
}

func TestStartRoundWithoutCards(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	session := createSession(t, e, 2, "A")

	if _, err := e.StartRound(ctx, session.ID); !errors.Is(err, ErrNoCardsAvailable) {
		t.Fatalf("expected no cards error, got %v", err)
	}
	if _, err := e.CreateChallengeCard(ctx, ChallengeCard{Title: "Bridge", Description: "Span a gap"}); err != nil {
		t.Fatalf("create challenge card: %v", err)
	}
	if _, err := e.StartRound(ctx, session.ID); !errors.Is(err, ErrNoCardsAvailable) {
		t.Fatalf("expected no cards error without bonus cards, got %v", err)
	}

	loaded, err := e.Session(ctx, session.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(loaded.Rounds) != 0 || loaded.CurrentRound != 1 {
		t.Fatalf("failed start must not advance the session: %+v", loaded)
	}
}

func TestStartRoundUnknownSession(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.StartRound(context.Background(), 42); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartRoundDrawIsReproducible(t *testing.T) {
	draw := func() []uint {
		e, _ := newTestEngine(t)
		seedCards(t, e)
		session := createSession(t, e, 3, "A")
		var ids []uint
		for i := 0; i < 3; i++ {
			round, err := e.StartRound(context.Background(), session.ID)
			if err != nil {
				t.Fatalf("start round: %v", err)
			}
			ids = append(ids, round.ChallengeCardID)
		}
		return ids
	}
	first, second := draw(), draw()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical draws for the same seed, got %v and %v", first, second)
		}
	}
}

func TestSubmitDesign(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 2, "A", "B")
	teamA := session.Teams[0]

	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "sketch"); !IsNotFound(err) {
		t.Fatalf("expected not found before a round starts, got %v", err)
	}
	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}

	sub, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "sketch")
	if err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if sub.Score.IsScored() {
		t.Fatalf("new submission must be unscored")
	}
	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "another sketch"); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate submission, got %v", err)
	}

	_, subs, err := e.RoundResults(ctx, session.ID)
	if err != nil {
		t.Fatalf("round results: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
}

func TestSubmitDesignValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// Validation runs before any lookup, so an unknown session still yields 400.
	if _, err := e.SubmitDesign(ctx, 99, 0, "sketch"); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error for missing team, got %v", err)
	}
	if _, err := e.SubmitDesign(ctx, 99, 1, "  "); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error for blank design, got %v", err)
	}
}

func TestSubmitDesignTeamScopedToSession(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	first := createSession(t, e, 1, "A")
	second := createSession(t, e, 1, "B")
	if _, err := e.StartRound(ctx, first.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}

	_, err := e.SubmitDesign(ctx, first.ID, second.Teams[0].ID, "sketch")
	if !IsNotFound(err) || Message(err) != "Team not found." {
		t.Fatalf("expected team not found, got %v", err)
	}
}

func TestScoreRound(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 2, "A", "B")
	teamA, teamB := session.Teams[0], session.Teams[1]

	if _, _, err := e.ScoreRound(ctx, session.ID); !IsNotFound(err) {
		t.Fatalf("expected not found before a round starts, got %v", err)
	}
	round, err := e.StartRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); !errors.Is(err, ErrNoSubmissions) {
		t.Fatalf("expected no submissions, got %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}

	_, scored, err := e.ScoreRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("score round: %v", err)
	}
	want := StandardScorer{MaterialScore: 50, CreativityScore: 30}.Score(ScoreInput{ChallengeCard: round.ChallengeCard})
	if len(scored) != 1 {
		t.Fatalf("expected one scored submission, got %d", len(scored))
	}
	if got, ok := scored[0].Score.Get(); !ok || got != want {
		t.Fatalf("expected score %d, got %v", want, scored[0].Score)
	}

	if _, _, err := e.ScoreRound(ctx, session.ID); !errors.Is(err, ErrAlreadyScored) {
		t.Fatalf("expected already scored, got %v", err)
	}

	// A late submission is scored on its own without re-crediting team A.
	if _, err := e.SubmitDesign(ctx, session.ID, teamB.ID, "late sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}

	standings, err := e.Leaderboard(ctx, &session.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, s := range standings {
		if s.Score != want {
			t.Fatalf("expected every team at %d, got %+v", want, standings)
		}
	}
}

func TestScoreRoundUsesCustomScorer(t *testing.T) {
	e, _ := newTestEngine(t, WithScorer(ScorerFunc(func(in ScoreInput) int {
		return len(in.DesignData)
	})))
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A")
	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, session.Teams[0].ID, "abcd"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	_, scored, err := e.ScoreRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("score round: %v", err)
	}
	if got, _ := scored[0].Score.Get(); got != 4 {
		t.Fatalf("expected score 4, got %d", got)
	}
}

type failingTx struct {
	Tx
	failAddScoreFor uint
}

func (f failingTx) AddTeamScore(ctx context.Context, id uint, delta int) error {
	if id == f.failAddScoreFor {
		return errors.New("connection reset")
	}
	return f.Tx.AddTeamScore(ctx, id, delta)
}

type failingStore struct {
	*MemoryStore
	failAddScoreFor uint
}

func (s *failingStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.MemoryStore.InTx(ctx, func(tx Tx) error {
		return fn(failingTx{Tx: tx, failAddScoreFor: s.failAddScoreFor})
	})
}

func TestScoreRoundRollsBackOnFailure(t *testing.T) {
	mem := NewMemoryStore()
	store := &failingStore{MemoryStore: mem}
	e := NewEngine(store, WithSeed(3), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A", "B")
	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	for _, team := range session.Teams {
		if _, err := e.SubmitDesign(ctx, session.ID, team.ID, "sketch"); err != nil {
			t.Fatalf("submit design: %v", err)
		}
	}

	store.failAddScoreFor = session.Teams[1].ID
	if _, _, err := e.ScoreRound(ctx, session.ID); KindOf(err) != KindStoreFailure {
		t.Fatalf("expected store failure, got %v", err)
	}

	_, subs, err := e.RoundResults(ctx, session.ID)
	if err != nil {
		t.Fatalf("round results: %v", err)
	}
	for _, sub := range subs {
		if sub.Score.IsScored() {
			t.Fatalf("expected every submission to stay unscored after rollback")
		}
	}
	standings, err := e.Leaderboard(ctx, &session.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, s := range standings {
		if s.Score != 0 {
			t.Fatalf("expected no team credited after rollback, got %+v", standings)
		}
	}

	store.failAddScoreFor = 0
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round after recovery: %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	session := createSession(t, e, 1, "Ten", "Thirty", "Twenty", "AlsoTen")
	scores := []int{10, 30, 20, 10}
	var overrides []ScoreOverride
	for i, team := range session.Teams {
		overrides = append(overrides, ScoreOverride{TeamID: team.ID, Score: scores[i]})
	}
	if _, err := e.UpdateSession(ctx, session.ID, SessionUpdate{Overrides: overrides}); err != nil {
		t.Fatalf("update session: %v", err)
	}

	standings, err := e.Leaderboard(ctx, nil)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	var names []string
	for _, s := range standings {
		names = append(names, s.Name)
	}
	want := []string{"Thirty", "Twenty", "Ten", "AlsoTen"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	if _, err := e.Leaderboard(ctx, new(uint)); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown session, got %v", err)
	}
}

type mapCache struct {
	entries     map[string][]Standing
	invalidated int
}

func (c *mapCache) Get(_ context.Context, key string) ([]Standing, bool, error) {
	s, ok := c.entries[key]
	return s, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, standings []Standing) error {
	c.entries[key] = standings
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.entries = map[string][]Standing{}
	c.invalidated++
	return nil
}

func TestLeaderboardCache(t *testing.T) {
	cache := &mapCache{entries: map[string][]Standing{}}
	e, _ := newTestEngine(t, WithLeaderboardCache(cache))
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A")

	if _, err := e.Leaderboard(ctx, &session.ID); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if _, ok := cache.entries[leaderboardKey(&session.ID)]; !ok {
		t.Fatalf("expected leaderboard to be cached")
	}

	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, session.Teams[0].ID, "sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	before := cache.invalidated
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}
	if cache.invalidated != before+1 || len(cache.entries) != 0 {
		t.Fatalf("expected scoring to invalidate the cache")
	}

	standings, err := e.Leaderboard(ctx, &session.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if standings[0].Score == 0 {
		t.Fatalf("expected fresh standings after invalidation, got %+v", standings)
	}
}

type recordingObserver struct {
	started, submitted, scored, changed int
	scoredSubmissions                   []Submission
}

func (o *recordingObserver) RoundStarted(context.Context, Round) { o.started++ }
func (o *recordingObserver) DesignSubmitted(context.Context, Submission) { o.submitted++ }
func (o *recordingObserver) LeaderboardChanged(context.Context) { o.changed++ }

func (o *recordingObserver) RoundScored(_ context.Context, _ uint, scored []Submission) {
	o.scored++
	o.scoredSubmissions = append(o.scoredSubmissions, scored...)
}

func TestObserverSeesCommittedChanges(t *testing.T) {
	obs := &recordingObserver{}
	e, _ := newTestEngine(t, WithObserver(obs))
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A")

	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.StartRound(ctx, session.ID); err == nil {
		t.Fatalf("expected round limit error")
	}
	if _, err := e.SubmitDesign(ctx, session.ID, session.Teams[0].ID, "sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}
	if obs.started != 1 || obs.submitted != 1 || obs.scored != 1 {
		t.Fatalf("unexpected observer counts: %+v", obs)
	}
	if obs.changed < 2 {
		t.Fatalf("expected leaderboard changes for session creation and scoring, got %d", obs.changed)
	}
}

func TestSprintScenario(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 2, "A", "B")
	teamA := session.Teams[0]

	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "bamboo bridge"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "bamboo bridge"); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate submission, got %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}

	standings, err := e.Leaderboard(ctx, nil)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(standings) != 2 || standings[0].Name != "A" || standings[0].Score <= 0 {
		t.Fatalf("expected team A to lead with a positive score, got %+v", standings)
	}
	if standings[1].Name != "B" || standings[1].Score != 0 {
		t.Fatalf("expected team B at 0, got %+v", standings)
	}

	events, err := e.Events(ctx, session.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	want := []string{EventSessionCreated, EventRoundStarted, EventDesignSubmitted, EventRoundScored}
	if len(types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, types)
		}
	}
}

func TestObserverSeesOnlyNewlyScoredSubmissions(t *testing.T) {
	obs := &recordingObserver{}
	e, _ := newTestEngine(t, WithObserver(obs))
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 2, "A", "B")

	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, session.Teams[0].ID, "sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}
	late, err := e.SubmitDesign(ctx, session.ID, session.Teams[1].ID, "late sketch")
	if err != nil {
		t.Fatalf("submit design: %v", err)
	}
	_, results, err := e.ScoreRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("score round: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both submissions in the results, got %d", len(results))
	}
	if len(obs.scoredSubmissions) != 2 {
		t.Fatalf("expected 2 scored submissions across both calls, got %d", len(obs.scoredSubmissions))
	}
	if obs.scoredSubmissions[1].ID != late.ID {
		t.Fatalf("expected second call to report only the late submission, got %+v", obs.scoredSubmissions[1])
	}
}

func TestSubmitDesignRejectedAfterFinalRoundScored(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A", "B")
	teamA, teamB := session.Teams[0], session.Teams[1]

	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := e.SubmitDesign(ctx, session.ID, teamA.ID, "sketch"); err != nil {
		t.Fatalf("submit design: %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); err != nil {
		t.Fatalf("score round: %v", err)
	}

	if _, err := e.SubmitDesign(ctx, session.ID, teamB.ID, "too late"); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected round not active after the final round was scored, got %v", err)
	}
	if _, _, err := e.ScoreRound(ctx, session.ID); !errors.Is(err, ErrAlreadyScored) {
		t.Fatalf("expected already scored, got %v", err)
	}

	standings, err := e.Leaderboard(ctx, &session.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, s := range standings {
		if s.TeamID == teamB.ID && s.Score != 0 {
			t.Fatalf("expected team B to stay at 0, got %d", s.Score)
		}
	}
}

func TestStartRoundConcurrent(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 3, "A")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int]int{}
		limited int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			round, err := e.StartRound(ctx, session.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				numbers[round.Number]++
			case errors.Is(err, ErrRoundLimitExceeded):
				limited++
			default:
				t.Errorf("start round: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(numbers) != 3 || limited != 17 {
		t.Fatalf("expected rounds 1..3 once each and 17 rejections, got %v and %d", numbers, limited)
	}
	for n := 1; n <= 3; n++ {
		if numbers[n] != 1 {
			t.Fatalf("expected round %d exactly once, got %d", n, numbers[n])
		}
	}
}

func TestSubmitDesignConcurrent(t *testing.T) {
	e, _ := newTestEngine(t)
	seedCards(t, e)
	ctx := context.Background()
	session := createSession(t, e, 1, "A")
	if _, err := e.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("start round: %v", err)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		accepted   int
		duplicates int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.SubmitDesign(ctx, session.ID, session.Teams[0].ID, "sketch")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrDuplicateSubmission):
				duplicates++
			default:
				t.Errorf("submit design: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 || duplicates != 19 {
		t.Fatalf("expected 1 accepted and 19 duplicates, got %d and %d", accepted, duplicates)
	}
	_, results, err := e.RoundResults(ctx, session.ID)
	if err != nil {
		t.Fatalf("round results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one stored submission, got %d", len(results))
	}
}

// hookStore calls during after each successful transaction body.
type hookStore struct {
	*MemoryStore
	during func()
}

func (s *hookStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.MemoryStore.InTx(ctx, func(tx Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		if s.during != nil {
			s.during()
		}
		return nil
	})
}

func TestLeaderboardSkipsCacheWriteAfterInvalidation(t *testing.T) {
	cache := &mapCache{entries: map[string][]Standing{}}
	store := &hookStore{MemoryStore: NewMemoryStore()}
	e := NewEngine(store, WithSeed(7), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithLeaderboardCache(cache))
	ctx := context.Background()
	session := createSession(t, e, 1, "A")

	store.during = func() { e.invalidateLeaderboard(ctx) }
	if _, err := e.Leaderboard(ctx, &session.ID); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if _, ok := cache.entries[leaderboardKey(&session.ID)]; ok {
		t.Fatalf("expected standings read before an invalidation not to be cached")
	}

	store.during = nil
	if _, err := e.Leaderboard(ctx, &session.ID); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if _, ok := cache.entries[leaderboardKey(&session.ID)]; !ok {
		t.Fatalf("expected a clean read to be cached")
	}
}
