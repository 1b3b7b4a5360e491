package db

import (
	"context"
	"encoding/json"
	"errors"

	"material-mastery/internal/game"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements game.Store on Postgres. Every InTx call runs in one
// database transaction; LockSession takes a row lock on the session.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) InTx(ctx context.Context, fn func(tx game.Tx) error) error {
	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx})
	})
	if err == nil {
		return nil
	}
	var domain *game.Error
	if errors.As(err, &domain) {
		return err
	}
	return translateError(err)
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type storeTx struct {
	db *gorm.DB
}

func (t *storeTx) CreateMaterialCard(ctx context.Context, card *game.MaterialCard) error {
	rec := MaterialCard{Name: card.Name, Properties: card.Properties, Uses: card.Uses}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	card.ID = rec.ID
	return nil
}

func (t *storeTx) MaterialCards(ctx context.Context) ([]game.MaterialCard, error) {
	var recs []MaterialCard
	if err := t.db.Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	cards := make([]game.MaterialCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, rec.toGame())
	}
	return cards, nil
}

func (t *storeTx) MaterialCard(ctx context.Context, id uint) (game.MaterialCard, error) {
	var rec MaterialCard
	if err := t.db.First(&rec, id).Error; err != nil {
		return game.MaterialCard{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) UpdateMaterialCard(ctx context.Context, card game.MaterialCard) error {
	return affected(t.db.Model(&MaterialCard{}).Where("id = ?", card.ID).Updates(map[string]any{
		"name":       card.Name,
		"properties": card.Properties,
		"uses":       card.Uses,
	}))
}

func (t *storeTx) DeleteMaterialCard(ctx context.Context, id uint) error {
	return affected(t.db.Delete(&MaterialCard{}, id))
}

func (t *storeTx) CreateChallengeCard(ctx context.Context, card *game.ChallengeCard) error {
	rec := ChallengeCard{
		Title:             card.Title,
		Description:       card.Description,
		KeyConsiderations: card.KeyConsiderations,
		BonusPoints:       card.BonusPoints,
	}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	card.ID = rec.ID
	return nil
}

func (t *storeTx) ChallengeCards(ctx context.Context) ([]game.ChallengeCard, error) {
	var recs []ChallengeCard
	if err := t.db.Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	cards := make([]game.ChallengeCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, rec.toGame())
	}
	return cards, nil
}

func (t *storeTx) ChallengeCard(ctx context.Context, id uint) (game.ChallengeCard, error) {
	var rec ChallengeCard
	if err := t.db.First(&rec, id).Error; err != nil {
		return game.ChallengeCard{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) UpdateChallengeCard(ctx context.Context, card game.ChallengeCard) error {
	return affected(t.db.Model(&ChallengeCard{}).Where("id = ?", card.ID).Updates(map[string]any{
		"title":              card.Title,
		"description":        card.Description,
		"key_considerations": card.KeyConsiderations,
		"bonus_points":       card.BonusPoints,
	}))
}

func (t *storeTx) DeleteChallengeCard(ctx context.Context, id uint) error {
	if err := t.cardUnused("challenge_card_id", id); err != nil {
		return err
	}
	return affected(t.db.Delete(&ChallengeCard{}, id))
}

func (t *storeTx) CreateBonusCard(ctx context.Context, card *game.BonusCard) error {
	rec := BonusCard{Name: card.Name, Effect: card.Effect, ScoringRules: card.ScoringRules}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	card.ID = rec.ID
	return nil
}

func (t *storeTx) BonusCards(ctx context.Context) ([]game.BonusCard, error) {
	var recs []BonusCard
	if err := t.db.Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	cards := make([]game.BonusCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, rec.toGame())
	}
	return cards, nil
}

func (t *storeTx) BonusCard(ctx context.Context, id uint) (game.BonusCard, error) {
	var rec BonusCard
	if err := t.db.First(&rec, id).Error; err != nil {
		return game.BonusCard{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) UpdateBonusCard(ctx context.Context, card game.BonusCard) error {
	return affected(t.db.Model(&BonusCard{}).Where("id = ?", card.ID).Updates(map[string]any{
		"name":          card.Name,
		"effect":        card.Effect,
		"scoring_rules": card.ScoringRules,
	}))
}

func (t *storeTx) DeleteBonusCard(ctx context.Context, id uint) error {
	if err := t.cardUnused("bonus_card_id", id); err != nil {
		return err
	}
	return affected(t.db.Delete(&BonusCard{}, id))
}

func (t *storeTx) cardUnused(column string, id uint) error {
	var count int64
	if err := t.db.Model(&Round{}).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return translateError(err)
	}
	if count > 0 {
		return game.ErrInUse
	}
	return nil
}

func (t *storeTx) CreateSession(ctx context.Context, session *game.Session) error {
	rec := GameSession{
		Name:           session.Name,
		NumberOfRounds: session.NumberOfRounds,
		CurrentRound:   session.CurrentRound,
	}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	session.ID = rec.ID
	session.CreatedAt = rec.CreatedAt
	return nil
}

func (t *storeTx) Sessions(ctx context.Context) ([]game.Session, error) {
	var recs []GameSession
	if err := t.db.Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	sessions := make([]game.Session, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, rec.toGame())
	}
	return sessions, nil
}

func (t *storeTx) Session(ctx context.Context, id uint) (game.Session, error) {
	var rec GameSession
	if err := t.db.First(&rec, id).Error; err != nil {
		return game.Session{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) LockSession(ctx context.Context, id uint) (game.Session, error) {
	var rec GameSession
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, id).Error; err != nil {
		return game.Session{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) RenameSession(ctx context.Context, id uint, name string) error {
	return affected(t.db.Model(&GameSession{}).Where("id = ?", id).Update("name", name))
}

func (t *storeTx) SetCurrentRound(ctx context.Context, id uint, round int) error {
	return affected(t.db.Model(&GameSession{}).Where("id = ?", id).Update("current_round", round))
}

func (t *storeTx) DeleteSession(ctx context.Context, id uint) error {
	if _, err := t.LockSession(ctx, id); err != nil {
		return err
	}
	rounds := t.db.Model(&Round{}).Select("id").Where("game_session_id = ?", id)
	if err := t.db.Where("round_id IN (?)", rounds).Delete(&DesignSubmission{}).Error; err != nil {
		return translateError(err)
	}
	if err := t.db.Where("game_session_id = ?", id).Delete(&Event{}).Error; err != nil {
		return translateError(err)
	}
	if err := t.db.Where("game_session_id = ?", id).Delete(&Round{}).Error; err != nil {
		return translateError(err)
	}
	if err := t.db.Model(&Team{}).Where("game_session_id = ?", id).Update("game_session_id", nil).Error; err != nil {
		return translateError(err)
	}
	return affected(t.db.Delete(&GameSession{}, id))
}

func (t *storeTx) CreateRound(ctx context.Context, round *game.Round) error {
	rec := Round{
		GameSessionID:   round.SessionID,
		RoundNumber:     round.Number,
		ChallengeCardID: round.ChallengeCardID,
		BonusCardID:     round.BonusCardID,
	}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	round.ID = rec.ID
	round.CreatedAt = rec.CreatedAt
	return nil
}

func (t *storeTx) Round(ctx context.Context, sessionID uint, number int) (game.Round, error) {
	var rec Round
	err := t.db.Where("game_session_id = ? AND round_number = ?", sessionID, number).First(&rec).Error
	if err != nil {
		return game.Round{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) Rounds(ctx context.Context, sessionID uint) ([]game.Round, error) {
	var recs []Round
	if err := t.db.Where("game_session_id = ?", sessionID).Order("round_number").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	rounds := make([]game.Round, 0, len(recs))
	for _, rec := range recs {
		rounds = append(rounds, rec.toGame())
	}
	return rounds, nil
}

func (t *storeTx) CreateSubmission(ctx context.Context, submission *game.Submission) error {
	rec := DesignSubmission{
		TeamID:     submission.TeamID,
		RoundID:    submission.RoundID,
		DesignData: submission.DesignData,
		Score:      submission.Score,
	}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	*submission = rec.toGame()
	return nil
}

func (t *storeTx) Submission(ctx context.Context, teamID, roundID uint) (game.Submission, error) {
	var rec DesignSubmission
	if err := t.db.Where("team_id = ? AND round_id = ?", teamID, roundID).First(&rec).Error; err != nil {
		return game.Submission{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) Submissions(ctx context.Context, roundID uint) ([]game.Submission, error) {
	var recs []DesignSubmission
	if err := t.db.Where("round_id = ?", roundID).Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	submissions := make([]game.Submission, 0, len(recs))
	for _, rec := range recs {
		submissions = append(submissions, rec.toGame())
	}
	return submissions, nil
}

func (t *storeTx) SetSubmissionScore(ctx context.Context, id uint, points int) error {
	return affected(t.db.Model(&DesignSubmission{}).Where("id = ?", id).Update("score", game.Scored(points)))
}

func (t *storeTx) RecordEvent(ctx context.Context, event *game.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return game.StoreFailure(err)
	}
	rec := Event{
		GameSessionID: event.SessionID,
		RoundID:       event.RoundID,
		TeamID:        event.TeamID,
		Type:          event.Type,
		Payload:       datatypes.JSON(payload),
	}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	event.ID = rec.ID
	event.CreatedAt = rec.CreatedAt
	return nil
}

func (t *storeTx) Events(ctx context.Context, sessionID uint) ([]game.Event, error) {
	var recs []Event
	if err := t.db.Where("game_session_id = ?", sessionID).Order("id").Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	events := make([]game.Event, 0, len(recs))
	for _, rec := range recs {
		event, err := rec.toGame()
		if err != nil {
			return nil, game.StoreFailure(err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (t *storeTx) CreateTeam(ctx context.Context, team *game.Team) error {
	rec := Team{Name: team.Name, GameSessionID: team.SessionID, Score: team.Score}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	team.ID = rec.ID
	return nil
}

func (t *storeTx) teams() *gorm.DB {
	return t.db.Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func (t *storeTx) Teams(ctx context.Context, sessionID *uint) ([]game.Team, error) {
	query := t.teams().Order("id")
	if sessionID != nil {
		query = query.Where("game_session_id = ?", *sessionID)
	}
	var recs []Team
	if err := query.Find(&recs).Error; err != nil {
		return nil, translateError(err)
	}
	teams := make([]game.Team, 0, len(recs))
	for _, rec := range recs {
		teams = append(teams, rec.toGame())
	}
	return teams, nil
}

func (t *storeTx) Team(ctx context.Context, id uint) (game.Team, error) {
	var rec Team
	if err := t.teams().First(&rec, id).Error; err != nil {
		return game.Team{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) SessionTeam(ctx context.Context, sessionID, teamID uint) (game.Team, error) {
	var rec Team
	if err := t.teams().Where("game_session_id = ?", sessionID).First(&rec, teamID).Error; err != nil {
		return game.Team{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) AddTeamScore(ctx context.Context, id uint, delta int) error {
	return affected(t.db.Model(&Team{}).Where("id = ?", id).Update("score", gorm.Expr("score + ?", delta)))
}

func (t *storeTx) SetTeamScore(ctx context.Context, id uint, score int) error {
	return affected(t.db.Model(&Team{}).Where("id = ?", id).Update("score", score))
}

func (t *storeTx) DeleteTeam(ctx context.Context, id uint) error {
	if err := t.db.Where("team_id = ?", id).Delete(&DesignSubmission{}).Error; err != nil {
		return translateError(err)
	}
	if err := t.db.Model(&User{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
		return translateError(err)
	}
	if err := t.db.Model(&Event{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
		return translateError(err)
	}
	return affected(t.db.Delete(&Team{}, id))
}

func (t *storeTx) CreateUser(ctx context.Context, user *game.User) error {
	rec := User{Username: user.Username, Email: user.Email, TeamID: user.TeamID}
	if err := t.db.Create(&rec).Error; err != nil {
		return translateError(err)
	}
	*user = rec.toGame()
	return nil
}

func (t *storeTx) UserByEmail(ctx context.Context, email string) (game.User, error) {
	var rec User
	if err := t.db.Where("email = ?", email).First(&rec).Error; err != nil {
		return game.User{}, translateError(err)
	}
	return rec.toGame(), nil
}

func (t *storeTx) AssignUser(ctx context.Context, userID, teamID uint) error {
	return affected(t.db.Model(&User{}).Where("id = ?", userID).Update("team_id", teamID))
}
