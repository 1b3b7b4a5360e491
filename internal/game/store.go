package game

import "context"

// Store runs fn inside one transaction. A non-nil error from fn rolls back
// every write made through tx; a nil error commits them together.
// Implementations return ErrNotFound for missing records and
// ErrUniqueViolation when a uniqueness constraint rejects a write.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type Tx interface {
	CardTx
	SessionTx
	TeamTx
}

type CardTx interface {
	CreateMaterialCard(ctx context.Context, card *MaterialCard) error
	MaterialCards(ctx context.Context) ([]MaterialCard, error)
	MaterialCard(ctx context.Context, id uint) (MaterialCard, error)
	UpdateMaterialCard(ctx context.Context, card MaterialCard) error
	DeleteMaterialCard(ctx context.Context, id uint) error

	CreateChallengeCard(ctx context.Context, card *ChallengeCard) error
	ChallengeCards(ctx context.Context) ([]ChallengeCard, error)
	ChallengeCard(ctx context.Context, id uint) (ChallengeCard, error)
	UpdateChallengeCard(ctx context.Context, card ChallengeCard) error
	DeleteChallengeCard(ctx context.Context, id uint) error

	CreateBonusCard(ctx context.Context, card *BonusCard) error
	BonusCards(ctx context.Context) ([]BonusCard, error)
	BonusCard(ctx context.Context, id uint) (BonusCard, error)
	UpdateBonusCard(ctx context.Context, card BonusCard) error
	DeleteBonusCard(ctx context.Context, id uint) error
}

type SessionTx interface {
	CreateSession(ctx context.Context, session *Session) error
	Sessions(ctx context.Context) ([]Session, error)
	Session(ctx context.Context, id uint) (Session, error)
	// LockSession loads the session and holds it exclusively until the
	// transaction ends.
	LockSession(ctx context.Context, id uint) (Session, error)
	RenameSession(ctx context.Context, id uint, name string) error
	SetCurrentRound(ctx context.Context, id uint, round int) error
	DeleteSession(ctx context.Context, id uint) error

	CreateRound(ctx context.Context, round *Round) error
	Round(ctx context.Context, sessionID uint, number int) (Round, error)
	Rounds(ctx context.Context, sessionID uint) ([]Round, error)

	CreateSubmission(ctx context.Context, submission *Submission) error
	Submission(ctx context.Context, teamID, roundID uint) (Submission, error)
	Submissions(ctx context.Context, roundID uint) ([]Submission, error)
	SetSubmissionScore(ctx context.Context, id uint, points int) error

	RecordEvent(ctx context.Context, event *Event) error
	Events(ctx context.Context, sessionID uint) ([]Event, error)
}

type TeamTx interface {
	CreateTeam(ctx context.Context, team *Team) error
	// Teams lists teams in insertion order, every team when sessionID is nil.
	Teams(ctx context.Context, sessionID *uint) ([]Team, error)
	Team(ctx context.Context, id uint) (Team, error)
	SessionTeam(ctx context.Context, sessionID, teamID uint) (Team, error)
	AddTeamScore(ctx context.Context, id uint, delta int) error
	SetTeamScore(ctx context.Context, id uint, score int) error
	DeleteTeam(ctx context.Context, id uint) error

	CreateUser(ctx context.Context, user *User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	AssignUser(ctx context.Context, userID, teamID uint) error
}
