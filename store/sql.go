package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/pkg/errors"
)

const (
	// DefaultTable is the table settings are stored in
	DefaultTable = "chart_settings"

	keyColumn       = "setting_key"
	valueColumn     = "setting_value"
	updatedAtColumn = "updated_at"
)

// DB is the database handle a SQLStore queries through
//
// *sql.DB and *sql.Tx both implement it
type DB interface {
	qrm.DB
}

// SQLConfig is config struct for SQLStore
type SQLConfig struct {
	// Table is the name of the settings table
	//
	// Default: DefaultTable
	Table string

	// Placeholder is the bind var format of the database
	//
	// Default: sq.Question
	Placeholder sq.PlaceholderFormat
}

// SQLStore is a Store keeping values in a sql table
type SQLStore struct {
	db      DB
	table   string
	builder sq.StatementBuilderType
	now     func() time.Time
}

// NewSQLStore returns a SQLStore over passed database
func NewSQLStore(db DB, config SQLConfig) *SQLStore {
	if config.Table == "" {
		config.Table = DefaultTable
	}
	if config.Placeholder == nil {
		config.Placeholder = sq.Question
	}

	return &SQLStore{
		db:      db,
		table:   config.Table,
		builder: sq.StatementBuilder.PlaceholderFormat(config.Placeholder),
		now:     time.Now,
	}
}

// CreateTable creates the settings table if it does not exist
func (s *SQLStore) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT NOT NULL, %s TIMESTAMP NOT NULL)",
		s.table, keyColumn, valueColumn, updatedAtColumn,
	)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(err, "store: creating table %s", s.table)
	}

	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	query, args, err := s.builder.
		Select(valueColumn).
		From(s.table).
		Where(sq.Eq{keyColumn: key}).
		Limit(1).
		ToSql()

	if err != nil {
		return "", errors.WithStack(err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)

	if err != nil {
		return "", errors.Wrapf(err, "\n query: %s\n args: %v\n", query, args)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return "", errors.WithStack(err)
		}

		return "", ErrNotFound
	}

	var value string

	if err = rows.Scan(&value); err != nil {
		return "", errors.WithStack(err)
	}

	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query, args, err := s.builder.
		Insert(s.table).
		Columns(keyColumn, valueColumn, updatedAtColumn).
		Values(key, value, s.now().UTC()).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s",
			keyColumn, valueColumn, valueColumn, updatedAtColumn, updatedAtColumn,
		)).
		ToSql()

	if err != nil {
		return errors.WithStack(err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "\n query: %s\n args: %v\n", query, args)
	}

	return nil
}

func (s *SQLStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := s.builder.
		Delete(s.table).
		Where(sq.Eq{keyColumn: keys}).
		ToSql()

	if err != nil {
		return errors.WithStack(err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "\n query: %s\n args: %v\n", query, args)
	}

	return nil
}
