package repository

import (
	"database/sql"
	"errors"
	"strings"

	"capability-sync/internal/domain/proficiency"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// DefaultChunkSize bounds the rows per multi-row INSERT.
const DefaultChunkSize = 500

// levelRank orders a TEXT level column the same way proficiency.Level does.
const levelRank = `array_position(ARRAY['Desired','Novice','Experienced','Expert','Specialist']::text[], %s)`

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func parseLevel(s string) (proficiency.Level, error) {
	return proficiency.Parse(s)
}

func parseOptionalLevel(s *string) (*proficiency.Level, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	l, err := proficiency.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func optionalLevelText(l *proficiency.Level) *string {
	if l == nil {
		return nil
	}
	s := l.String()
	return &s
}

func chunks(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultChunkSize
	}
	out := make([][2]int, 0, n/size+1)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
