// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pgstore is a dictimport.Store backed by PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Dictionary describes a stored dictionary.
type Dictionary struct {
	Name      string
	Language  string
	Kind      format.Kind
	Headwords int64
	CreatedAt time.Time
}

// Store stores dictionaries in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ dictimport.Store = (*Store)(nil)

// NewPool connects to the database at dsn and pings it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Migrate applies the schema migrations to the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// New returns a Store using pool. The schema must already be migrated. If
// logger is nil slog.Default is used.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: logger.With("component", "pgstore"),
	}
}

// BulkInsert implements dictimport.Store.BulkInsert. The dictionary and its
// entries are written in a single transaction that replaces any dictionary
// already stored under name.
func (s *Store) BulkInsert(ctx context.Context, m *dictimport.Mapping, language, name string) error {
	values, err := m.Values()
	if err != nil {
		return fmt.Errorf("inserting %q: %w", name, err)
	}

	var n int64
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM dictionaries WHERE name = $1`, name); err != nil {
			return fmt.Errorf("deleting previous dictionary: %w", err)
		}

		var id int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO dictionaries (name, language, kind) VALUES ($1, $2, $3) RETURNING id`,
			name, language, m.Kind.String(),
		).Scan(&id); err != nil {
			return fmt.Errorf("inserting dictionary: %w", err)
		}

		rows := make([][]any, 0, len(values))
		for w, v := range values {
			rows = append(rows, []any{id, w, v})
		}
		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"dictionary_entries"},
			[]string{"dictionary_id", "headword", "value"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying entries: %w", err)
		}
		n = copied
		return nil
	})
	if err != nil {
		return fmt.Errorf("inserting %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "stored dictionary",
		"name", name,
		"language", language,
		"kind", m.Kind.String(),
		"headwords", n,
	)
	return nil
}

// DeleteDictionary implements dictimport.Store.DeleteDictionary.
func (s *Store) DeleteDictionary(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM dictionaries WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "deleted dictionary", "name", name, "found", tag.RowsAffected() > 0)
	return nil
}

// Dictionaries returns the stored dictionaries ordered by name.
func (s *Store) Dictionaries(ctx context.Context) ([]*Dictionary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.name, d.language, d.kind, d.created_at,
		       (SELECT count(*) FROM dictionary_entries e WHERE e.dictionary_id = d.id)
		FROM dictionaries d
		ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("listing dictionaries: %w", err)
	}
	defer rows.Close()

	var dicts []*Dictionary
	for rows.Next() {
		var d Dictionary
		var kind string
		if err := rows.Scan(&d.Name, &d.Language, &kind, &d.CreatedAt, &d.Headwords); err != nil {
			return nil, fmt.Errorf("scanning dictionary: %w", err)
		}
		// Unknown kinds are listed as format.Unknown.
		d.Kind, _ = format.ParseKind(kind)
		dicts = append(dicts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing dictionaries: %w", err)
	}
	return dicts, nil
}

// Values returns the stored values of the dictionary with the given name.
func (s *Store) Values(ctx context.Context, name string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT e.headword, e.value
		FROM dictionary_entries e
		JOIN dictionaries d ON d.id = e.dictionary_id
		WHERE d.name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	defer rows.Close()

	m := map[string]string{}
	for rows.Next() {
		var w, v string
		if err := rows.Scan(&w, &v); err != nil {
			return nil, fmt.Errorf("reading %q: %w", name, err)
		}
		m[w] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return m, nil
}

// inTx runs fn in a transaction. The transaction is committed if fn returns
// nil and rolled back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rolling back after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
