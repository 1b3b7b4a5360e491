package db

import (
	"errors"

	"material-mastery/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver and ORM errors onto the game error taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return game.ErrUniqueViolation
		case pgForeignKeyViolation:
			return game.ErrInUse
		}
	}
	return game.StoreFailure(err)
}

// affected turns a write that matched no rows into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return game.ErrNotFound
	}
	return nil
}
