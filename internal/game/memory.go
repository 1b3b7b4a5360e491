package game

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps every record in process memory. Transactions are
// serialised by a single mutex and rolled back by restoring a snapshot.
type MemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return StoreFailure(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memoryTx{state: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

type table[T any] struct {
	nextID uint
	rows   map[uint]T
}

func newTable[T any]() table[T] {
	return table[T]{nextID: 1, rows: make(map[uint]T)}
}

func (t table[T]) clone() table[T] {
	return table[T]{nextID: t.nextID, rows: maps.Clone(t.rows)}
}

func (t *table[T]) insert(build func(id uint) T) T {
	id := t.nextID
	t.nextID++
	row := build(id)
	t.rows[id] = row
	return row
}

func (t *table[T]) get(id uint) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	rows := t.list(match)
	if len(rows) == 0 {
		var zero T
		return zero, false
	}
	return rows[0], true
}

type memoryState struct {
	materials   table[MaterialCard]
	challenges  table[ChallengeCard]
	bonuses     table[BonusCard]
	sessions    table[Session]
	rounds      table[Round]
	submissions table[Submission]
	teams       table[Team]
	users       table[User]
	events      table[Event]
}

func newMemoryState() memoryState {
	return memoryState{
		materials:   newTable[MaterialCard](),
		challenges:  newTable[ChallengeCard](),
		bonuses:     newTable[BonusCard](),
		sessions:    newTable[Session](),
		rounds:      newTable[Round](),
		submissions: newTable[Submission](),
		teams:       newTable[Team](),
		users:       newTable[User](),
		events:      newTable[Event](),
	}
}

func (m memoryState) clone() memoryState {
	return memoryState{
		materials:   m.materials.clone(),
		challenges:  m.challenges.clone(),
		bonuses:     m.bonuses.clone(),
		sessions:    m.sessions.clone(),
		rounds:      m.rounds.clone(),
		submissions: m.submissions.clone(),
		teams:       m.teams.clone(),
		users:       m.users.clone(),
		events:      m.events.clone(),
	}
}

type memoryTx struct {
	state *memoryState
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

func (tx *memoryTx) CreateMaterialCard(ctx context.Context, card *MaterialCard) error {
	*card = tx.state.materials.insert(func(id uint) MaterialCard {
		row := *card
		row.ID = id
		return row
	})
	return nil
}

func (tx *memoryTx) MaterialCards(ctx context.Context) ([]MaterialCard, error) {
	return tx.state.materials.list(nil), nil
}

func (tx *memoryTx) MaterialCard(ctx context.Context, id uint) (MaterialCard, error) {
	card, ok := tx.state.materials.get(id)
	if !ok {
		return MaterialCard{}, ErrNotFound
	}
	return card, nil
}

func (tx *memoryTx) UpdateMaterialCard(ctx context.Context, card MaterialCard) error {
	if _, ok := tx.state.materials.get(card.ID); !ok {
		return ErrNotFound
	}
	tx.state.materials.rows[card.ID] = card
	return nil
}

func (tx *memoryTx) DeleteMaterialCard(ctx context.Context, id uint) error {
	if _, ok := tx.state.materials.get(id); !ok {
		return ErrNotFound
	}
	delete(tx.state.materials.rows, id)
	return nil
}

func (tx *memoryTx) CreateChallengeCard(ctx context.Context, card *ChallengeCard) error {
	*card = tx.state.challenges.insert(func(id uint) ChallengeCard {
		row := *card
		row.ID = id
		return row
	})
	return nil
}

func (tx *memoryTx) ChallengeCards(ctx context.Context) ([]ChallengeCard, error) {
	return tx.state.challenges.list(nil), nil
}

func (tx *memoryTx) ChallengeCard(ctx context.Context, id uint) (ChallengeCard, error) {
	card, ok := tx.state.challenges.get(id)
	if !ok {
		return ChallengeCard{}, ErrNotFound
	}
	return card, nil
}

func (tx *memoryTx) UpdateChallengeCard(ctx context.Context, card ChallengeCard) error {
	if _, ok := tx.state.challenges.get(card.ID); !ok {
		return ErrNotFound
	}
	tx.state.challenges.rows[card.ID] = card
	return nil
}

func (tx *memoryTx) DeleteChallengeCard(ctx context.Context, id uint) error {
	if _, ok := tx.state.challenges.get(id); !ok {
		return ErrNotFound
	}
	if _, used := tx.state.rounds.find(func(r Round) bool { return r.ChallengeCardID == id }); used {
		return ErrInUse
	}
	delete(tx.state.challenges.rows, id)
	return nil
}

func (tx *memoryTx) CreateBonusCard(ctx context.Context, card *BonusCard) error {
	*card = tx.state.bonuses.insert(func(id uint) BonusCard {
		row := *card
		row.ID = id
		return row
	})
	return nil
}

func (tx *memoryTx) BonusCards(ctx context.Context) ([]BonusCard, error) {
	return tx.state.bonuses.list(nil), nil
}

func (tx *memoryTx) BonusCard(ctx context.Context, id uint) (BonusCard, error) {
	card, ok := tx.state.bonuses.get(id)
	if !ok {
		return BonusCard{}, ErrNotFound
	}
	return card, nil
}

func (tx *memoryTx) UpdateBonusCard(ctx context.Context, card BonusCard) error {
	if _, ok := tx.state.bonuses.get(card.ID); !ok {
		return ErrNotFound
	}
	tx.state.bonuses.rows[card.ID] = card
	return nil
}

func (tx *memoryTx) DeleteBonusCard(ctx context.Context, id uint) error {
	if _, ok := tx.state.bonuses.get(id); !ok {
		return ErrNotFound
	}
	if _, used := tx.state.rounds.find(func(r Round) bool { return r.BonusCardID == id }); used {
		return ErrInUse
	}
	delete(tx.state.bonuses.rows, id)
	return nil
}

func (tx *memoryTx) CreateSession(ctx context.Context, session *Session) error {
	row := tx.state.sessions.insert(func(id uint) Session {
		row := *session
		row.ID = id
		row.CreatedAt = timeNowUTC()
		row.Teams = nil
		row.Rounds = nil
		return row
	})
	session.ID = row.ID
	session.CreatedAt = row.CreatedAt
	return nil
}

func (tx *memoryTx) Sessions(ctx context.Context) ([]Session, error) {
	return tx.state.sessions.list(nil), nil
}

func (tx *memoryTx) Session(ctx context.Context, id uint) (Session, error) {
	session, ok := tx.state.sessions.get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (tx *memoryTx) LockSession(ctx context.Context, id uint) (Session, error) {
	return tx.Session(ctx, id)
}

func (tx *memoryTx) RenameSession(ctx context.Context, id uint, name string) error {
	session, ok := tx.state.sessions.get(id)
	if !ok {
		return ErrNotFound
	}
	session.Name = name
	tx.state.sessions.rows[id] = session
	return nil
}

func (tx *memoryTx) SetCurrentRound(ctx context.Context, id uint, round int) error {
	session, ok := tx.state.sessions.get(id)
	if !ok {
		return ErrNotFound
	}
	session.CurrentRound = round
	tx.state.sessions.rows[id] = session
	return nil
}

func (tx *memoryTx) DeleteSession(ctx context.Context, id uint) error {
	if _, ok := tx.state.sessions.get(id); !ok {
		return ErrNotFound
	}
	for _, round := range tx.state.rounds.list(func(r Round) bool { return r.SessionID == id }) {
		for _, sub := range tx.state.submissions.list(func(s Submission) bool { return s.RoundID == round.ID }) {
			delete(tx.state.submissions.rows, sub.ID)
		}
		delete(tx.state.rounds.rows, round.ID)
	}
	for _, event := range tx.state.events.list(func(e Event) bool { return e.SessionID == id }) {
		delete(tx.state.events.rows, event.ID)
	}
	for _, team := range tx.state.teams.list(func(t Team) bool { return t.SessionID != nil && *t.SessionID == id }) {
		team.SessionID = nil
		tx.state.teams.rows[team.ID] = team
	}
	delete(tx.state.sessions.rows, id)
	return nil
}

func (tx *memoryTx) CreateRound(ctx context.Context, round *Round) error {
	if _, ok := tx.state.sessions.get(round.SessionID); !ok {
		return ErrNotFound
	}
	if _, ok := tx.state.challenges.get(round.ChallengeCardID); !ok {
		return ErrNotFound
	}
	if _, ok := tx.state.bonuses.get(round.BonusCardID); !ok {
		return ErrNotFound
	}
	if _, exists := tx.state.rounds.find(func(r Round) bool {
		return r.SessionID == round.SessionID && r.Number == round.Number
	}); exists {
		return ErrUniqueViolation
	}
	row := tx.state.rounds.insert(func(id uint) Round {
		row := *round
		row.ID = id
		row.CreatedAt = timeNowUTC()
		row.ChallengeCard = nil
		row.BonusCard = nil
		return row
	})
	round.ID = row.ID
	round.CreatedAt = row.CreatedAt
	return nil
}

func (tx *memoryTx) Round(ctx context.Context, sessionID uint, number int) (Round, error) {
	round, ok := tx.state.rounds.find(func(r Round) bool {
		return r.SessionID == sessionID && r.Number == number
	})
	if !ok {
		return Round{}, ErrNotFound
	}
	return round, nil
}

func (tx *memoryTx) Rounds(ctx context.Context, sessionID uint) ([]Round, error) {
	rounds := tx.state.rounds.list(func(r Round) bool { return r.SessionID == sessionID })
	slices.SortStableFunc(rounds, func(a, b Round) int { return a.Number - b.Number })
	return rounds, nil
}

func (tx *memoryTx) CreateSubmission(ctx context.Context, submission *Submission) error {
	if _, ok := tx.state.teams.get(submission.TeamID); !ok {
		return ErrNotFound
	}
	if _, ok := tx.state.rounds.get(submission.RoundID); !ok {
		return ErrNotFound
	}
	if _, exists := tx.state.submissions.find(func(s Submission) bool {
		return s.TeamID == submission.TeamID && s.RoundID == submission.RoundID
	}); exists {
		return ErrUniqueViolation
	}
	row := tx.state.submissions.insert(func(id uint) Submission {
		row := *submission
		row.ID = id
		row.CreatedAt = timeNowUTC()
		return row
	})
	*submission = row
	return nil
}

func (tx *memoryTx) Submission(ctx context.Context, teamID, roundID uint) (Submission, error) {
	submission, ok := tx.state.submissions.find(func(s Submission) bool {
		return s.TeamID == teamID && s.RoundID == roundID
	})
	if !ok {
		return Submission{}, ErrNotFound
	}
	return submission, nil
}

func (tx *memoryTx) Submissions(ctx context.Context, roundID uint) ([]Submission, error) {
	return tx.state.submissions.list(func(s Submission) bool { return s.RoundID == roundID }), nil
}

func (tx *memoryTx) SetSubmissionScore(ctx context.Context, id uint, points int) error {
	submission, ok := tx.state.submissions.get(id)
	if !ok {
		return ErrNotFound
	}
	submission.Score = Scored(points)
	tx.state.submissions.rows[id] = submission
	return nil
}

func (tx *memoryTx) RecordEvent(ctx context.Context, event *Event) error {
	row := tx.state.events.insert(func(id uint) Event {
		row := *event
		row.ID = id
		row.CreatedAt = timeNowUTC()
		return row
	})
	*event = row
	return nil
}

func (tx *memoryTx) Events(ctx context.Context, sessionID uint) ([]Event, error) {
	return tx.state.events.list(func(e Event) bool { return e.SessionID == sessionID }), nil
}

func (tx *memoryTx) CreateTeam(ctx context.Context, team *Team) error {
	if team.SessionID != nil {
		if _, ok := tx.state.sessions.get(*team.SessionID); !ok {
			return ErrNotFound
		}
	}
	if _, exists := tx.state.teams.find(func(t Team) bool { return t.Name == team.Name }); exists {
		return ErrUniqueViolation
	}
	row := tx.state.teams.insert(func(id uint) Team {
		row := *team
		row.ID = id
		row.Users = nil
		return row
	})
	team.ID = row.ID
	return nil
}

func (tx *memoryTx) withUsers(team Team) Team {
	team.Users = tx.state.users.list(func(u User) bool { return u.TeamID != nil && *u.TeamID == team.ID })
	return team
}

func (tx *memoryTx) Teams(ctx context.Context, sessionID *uint) ([]Team, error) {
	teams := tx.state.teams.list(func(t Team) bool {
		return sessionID == nil || (t.SessionID != nil && *t.SessionID == *sessionID)
	})
	for i := range teams {
		teams[i] = tx.withUsers(teams[i])
	}
	return teams, nil
}

func (tx *memoryTx) Team(ctx context.Context, id uint) (Team, error) {
	team, ok := tx.state.teams.get(id)
	if !ok {
		return Team{}, ErrNotFound
	}
	return tx.withUsers(team), nil
}

func (tx *memoryTx) SessionTeam(ctx context.Context, sessionID, teamID uint) (Team, error) {
	team, ok := tx.state.teams.get(teamID)
	if !ok || team.SessionID == nil || *team.SessionID != sessionID {
		return Team{}, ErrNotFound
	}
	return tx.withUsers(team), nil
}

func (tx *memoryTx) AddTeamScore(ctx context.Context, id uint, delta int) error {
	team, ok := tx.state.teams.get(id)
	if !ok {
		return ErrNotFound
	}
	team.Score += delta
	tx.state.teams.rows[id] = team
	return nil
}

func (tx *memoryTx) SetTeamScore(ctx context.Context, id uint, score int) error {
	team, ok := tx.state.teams.get(id)
	if !ok {
		return ErrNotFound
	}
	team.Score = score
	tx.state.teams.rows[id] = team
	return nil
}

func (tx *memoryTx) DeleteTeam(ctx context.Context, id uint) error {
	if _, ok := tx.state.teams.get(id); !ok {
		return ErrNotFound
	}
	for _, sub := range tx.state.submissions.list(func(s Submission) bool { return s.TeamID == id }) {
		delete(tx.state.submissions.rows, sub.ID)
	}
	for _, user := range tx.state.users.list(func(u User) bool { return u.TeamID != nil && *u.TeamID == id }) {
		user.TeamID = nil
		tx.state.users.rows[user.ID] = user
	}
	delete(tx.state.teams.rows, id)
	return nil
}

func (tx *memoryTx) CreateUser(ctx context.Context, user *User) error {
	if _, exists := tx.state.users.find(func(u User) bool {
		return u.Username == user.Username || u.Email == user.Email
	}); exists {
		return ErrUniqueViolation
	}
	*user = tx.state.users.insert(func(id uint) User {
		row := *user
		row.ID = id
		return row
	})
	return nil
}

func (tx *memoryTx) UserByEmail(ctx context.Context, email string) (User, error) {
	user, ok := tx.state.users.find(func(u User) bool { return u.Email == email })
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (tx *memoryTx) AssignUser(ctx context.Context, userID, teamID uint) error {
	user, ok := tx.state.users.get(userID)
	if !ok {
		return ErrNotFound
	}
	if _, ok := tx.state.teams.get(teamID); !ok {
		return ErrNotFound
	}
	user.TeamID = &teamID
	tx.state.users.rows[userID] = user
	return nil
}
