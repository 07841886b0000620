// Package sqlite provides a SQLite-backed vehicle repository.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/domain/repositories"
	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const defaultPageSize = 50

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	identity   TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	level      INTEGER NOT NULL CHECK (level >= 1),
	door_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists vehicle records in SQLite.
type Store struct {
	sqlDB *sql.DB
	opts  []entities.Option
	now   func() time.Time
}

// Open opens a SQLite store and ensures the schema exists. opts are applied
// to every entity the store restores.
func Open(path string, opts ...entities.Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, opts: opts, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, entity shared.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec := entities.Snapshot(entity)
	if err := entities.ValidateIdentity(rec.Identity); err != nil {
		return err
	}
	now := s.now().UTC().UnixMilli()
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO vehicles (identity, kind, level, door_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(rec.Identity),
		string(rec.Kind),
		int64(rec.Level),
		int64(rec.DoorCount),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.CodeDuplicate, fmt.Sprintf("vehicle %s already exists", rec.Identity))
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, identity shared.Identity) (shared.Entity, error) {
	return s.Load(ctx, identity, s.opts...)
}

func (s *Store) Load(ctx context.Context, identity shared.Identity, opts ...entities.Option) (shared.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT identity, kind, level, door_count FROM vehicles WHERE identity = ?`,
		string(identity),
	)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(identity)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return entities.Restore(rec, opts...)
}

// Update stores the entity's current level if it is strictly above the
// stored one. Equal or lower levels are rejected, so two writers that
// loaded the same level cannot both succeed.
func (s *Store) Update(ctx context.Context, entity shared.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec := entities.Snapshot(entity)
	affected, err := s.exec(
		ctx,
		`UPDATE vehicles SET level = ?, updated_at = ? WHERE identity = ? AND level < ?`,
		int64(rec.Level),
		s.now().UTC().UnixMilli(),
		string(rec.Identity),
		int64(rec.Level),
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if affected > 0 {
		return nil
	}

	stored, err := s.storedLevel(ctx, rec.Identity)
	if err != nil {
		return err
	}
	return rejected(rec.Identity, stored, rec.Level)
}

// UpdateLevel is a compare-and-swap on the stored level.
func (s *Store) UpdateLevel(ctx context.Context, identity shared.Identity, expected, next shared.Level) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if next <= expected {
		return rejected(identity, expected, next)
	}
	affected, err := s.exec(
		ctx,
		`UPDATE vehicles SET level = ?, updated_at = ? WHERE identity = ? AND level = ?`,
		int64(next),
		s.now().UTC().UnixMilli(),
		string(identity),
		int64(expected),
	)
	if err != nil {
		return fmt.Errorf("update vehicle level: %w", err)
	}
	if affected > 0 {
		return nil
	}

	stored, err := s.storedLevel(ctx, identity)
	if err != nil {
		return err
	}
	return errors.WithMetadata(errors.CodeConflict, "level changed concurrently", map[string]string{
		"identity": string(identity),
		"expected": strconv.Itoa(int(expected)),
		"current":  strconv.Itoa(int(stored)),
	})
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := s.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) storedLevel(ctx context.Context, identity shared.Identity) (shared.Level, error) {
	var stored int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT level FROM vehicles WHERE identity = ?`, string(identity)).Scan(&stored)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, notFound(identity)
	}
	if err != nil {
		return 0, fmt.Errorf("read vehicle level: %w", err)
	}
	return shared.Level(stored), nil
}

func (s *Store) Delete(ctx context.Context, entity shared.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	affected, err := s.exec(ctx, `DELETE FROM vehicles WHERE identity = ?`, string(entity.Identity()))
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if affected == 0 {
		return notFound(entity.Identity())
	}
	return nil
}

// Paginate lists vehicles in insertion order.
func (s *Store) Paginate(ctx context.Context, page repositories.Pagination) ([]shared.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset := int64(defaultPageSize), int64(0)
	if page != nil {
		if page.Limit() > 0 {
			limit = page.Limit()
		}
		if page.Offset() > 0 {
			offset = page.Offset()
		}
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT identity, kind, level, door_count FROM vehicles ORDER BY rowid LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	out := make([]shared.Entity, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		entity, err := entities.Restore(rec, s.opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (entities.Record, error) {
	var (
		identity, kind string
		level, doors   int64
	)
	if err := row.Scan(&identity, &kind, &level, &doors); err != nil {
		return entities.Record{}, err
	}
	return entities.Record{
		Kind:      entities.Kind(kind),
		Identity:  shared.Identity(identity),
		Level:     shared.Level(level),
		DoorCount: entities.DoorCount(doors),
	}, nil
}

func rejected(identity shared.Identity, current, proposed shared.Level) error {
	return errors.WithMetadata(errors.CodeValidationRejected, entities.ReasonNotGreater, map[string]string{
		"identity": string(identity),
		"current":  strconv.Itoa(int(current)),
		"proposed": strconv.Itoa(int(proposed)),
	})
}

func notFound(identity shared.Identity) error {
	return errors.New(errors.CodeNotFound, fmt.Sprintf("vehicle %s not found", identity))
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ repositories.VehicleRepository = (*Store)(nil)
