package repository

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict - условное обновление не нашло ожидаемую версию записи
	ErrVersionConflict = errors.New("version conflict")
)

func HandleNoRowsError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
