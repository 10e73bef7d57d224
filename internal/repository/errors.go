package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

// ErrDuplicateID - задача с таким id уже есть в хранилище
var ErrDuplicateID = pkgerrors.New("task id already exists")

// mapError оборачивает ошибку драйвера, нарушение уникальности id превращается в ErrDuplicateID
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pkgerrors.Wrap(ErrDuplicateID, pgErr.ConstraintName)
	}

	return pkgerrors.WithStack(err)
}
