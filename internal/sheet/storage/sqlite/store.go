// Package sqlite provides a SQLite-backed character sheet store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/rollkeeper/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists sheets in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite sheet store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func validateOwner(owner storage.Owner) error {
	if strings.TrimSpace(owner.CommunityID) == "" {
		return fmt.Errorf("community id is required")
	}
	if strings.TrimSpace(owner.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

// CreateProfile inserts a profile, making it the default when the owner has none.
func (s *Store) CreateProfile(ctx context.Context, owner storage.Owner, name string) (storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Profile{}, err
	}
	if err := validateOwner(owner); err != nil {
		return storage.Profile{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Profile{}, fmt.Errorf("profile name is required")
	}

	now := s.now().UTC()
	profile := storage.Profile{Owner: owner, Name: name, CreatedAt: now, UpdatedAt: now}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM profiles WHERE community_id = ? AND user_id = ?`,
			owner.CommunityID, owner.UserID,
		).Scan(&existing); err != nil {
			return fmt.Errorf("count profiles: %w", err)
		}
		profile.IsDefault = existing == 0

		_, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (community_id, user_id, name, is_default, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			owner.CommunityID, owner.UserID, name, boolToInt(profile.IsDefault), toMillis(now), toMillis(now),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.Profile{}, err
	}
	return profile, nil
}

// GetProfile returns one profile by name.
func (s *Store) GetProfile(ctx context.Context, owner storage.Owner, name string) (storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Profile{}, err
	}
	return scanProfile(s.sqlDB.QueryRowContext(ctx,
		`SELECT community_id, user_id, name, is_default, created_at, updated_at
		   FROM profiles
		  WHERE community_id = ? AND user_id = ? AND name = ?`,
		owner.CommunityID, owner.UserID, strings.TrimSpace(name),
	))
}

// DefaultProfile returns the owner's default profile.
func (s *Store) DefaultProfile(ctx context.Context, owner storage.Owner) (storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Profile{}, err
	}
	return scanProfile(s.sqlDB.QueryRowContext(ctx,
		`SELECT community_id, user_id, name, is_default, created_at, updated_at
		   FROM profiles
		  WHERE community_id = ? AND user_id = ? AND is_default = 1`,
		owner.CommunityID, owner.UserID,
	))
}

// SetDefaultProfile marks name as the owner's default profile.
func (s *Store) SetDefaultProfile(ctx context.Context, owner storage.Owner, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireProfile(ctx, tx, owner, name); err != nil {
			return err
		}
		now := toMillis(s.now())
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_default = 0, updated_at = ?
			  WHERE community_id = ? AND user_id = ? AND is_default = 1`,
			now, owner.CommunityID, owner.UserID,
		); err != nil {
			return fmt.Errorf("clear default profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_default = 1, updated_at = ?
			  WHERE community_id = ? AND user_id = ? AND name = ?`,
			now, owner.CommunityID, owner.UserID, name,
		); err != nil {
			return fmt.Errorf("set default profile: %w", err)
		}
		return nil
	})
}

// ListProfiles returns the owner's profiles ordered by name.
func (s *Store) ListProfiles(ctx context.Context, owner storage.Owner) ([]storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT community_id, user_id, name, is_default, created_at, updated_at
		   FROM profiles
		  WHERE community_id = ? AND user_id = ?
		  ORDER BY name ASC`,
		owner.CommunityID, owner.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []storage.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// GetAttribute returns one attribute value.
func (s *Store) GetAttribute(ctx context.Context, owner storage.Owner, profile, name string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return getAttribute(ctx, s.sqlDB, owner, profile, name)
}

// ListAttributes returns a profile's attributes ordered by name.
func (s *Store) ListAttributes(ctx context.Context, req storage.ListAttributesRequest) ([]storage.Attribute, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := requireProfile(ctx, s.sqlDB, req.Owner, req.Profile); err != nil {
		return nil, err
	}

	query := `SELECT name, value, updated_at
	            FROM attributes
	           WHERE community_id = ? AND user_id = ? AND profile_name = ?`
	args := []any{req.Owner.CommunityID, req.Owner.UserID, req.Profile}
	if req.FilterClause != "" {
		query += " AND " + req.FilterClause
		args = append(args, req.FilterParams...)
	}
	query += " ORDER BY name ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	defer rows.Close()

	attributes := []storage.Attribute{}
	for rows.Next() {
		var attr storage.Attribute
		var updatedAt int64
		if err := rows.Scan(&attr.Name, &attr.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("list attributes: %w", err)
		}
		attr.UpdatedAt = fromMillis(updatedAt)
		attributes = append(attributes, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return attributes, nil
}

// SetAttributes upserts every value in one transaction.
func (s *Store) SetAttributes(ctx context.Context, owner storage.Owner, profile string, values map[string]int) error {
	return s.UpdateAttributes(ctx, owner, profile, func(context.Context, storage.AttributeReader) (map[string]int, error) {
		return values, nil
	})
}

// UpdateAttributes runs fn against the transaction's view of the sheet and
// writes its result before committing.
func (s *Store) UpdateAttributes(ctx context.Context, owner storage.Owner, profile string, fn storage.UpdateFunc) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("update function is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireProfile(ctx, tx, owner, profile); err != nil {
			return err
		}
		values, err := fn(ctx, txReader{tx: tx})
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}

		names := make([]string, 0, len(values))
		for name := range values {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("attribute name is required")
			}
			names = append(names, name)
		}
		sort.Strings(names)

		now := toMillis(s.now())
		for _, name := range names {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO attributes (community_id, user_id, profile_name, name, value, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (community_id, user_id, profile_name, name)
				 DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				owner.CommunityID, owner.UserID, profile, name, values[name], now,
			); err != nil {
				return fmt.Errorf("set attribute %s: %w", name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET updated_at = ? WHERE community_id = ? AND user_id = ? AND name = ?`,
			now, owner.CommunityID, owner.UserID, profile,
		); err != nil {
			return fmt.Errorf("touch profile: %w", err)
		}
		return nil
	})
}

type txReader struct {
	tx *sql.Tx
}

func (r txReader) GetAttribute(ctx context.Context, owner storage.Owner, profile, name string) (int, error) {
	return getAttribute(ctx, r.tx, owner, profile, name)
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func getAttribute(ctx context.Context, q queryer, owner storage.Owner, profile, name string) (int, error) {
	if err := requireProfile(ctx, q, owner, profile); err != nil {
		return 0, err
	}
	var value int
	err := q.QueryRowContext(ctx,
		`SELECT value FROM attributes
		  WHERE community_id = ? AND user_id = ? AND profile_name = ? AND name = ?`,
		owner.CommunityID, owner.UserID, profile, name,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("attribute %s: %w", name, storage.ErrNotFound)
		}
		return 0, fmt.Errorf("get attribute: %w", err)
	}
	return value, nil
}

func requireProfile(ctx context.Context, q queryer, owner storage.Owner, name string) error {
	var found int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM profiles WHERE community_id = ? AND user_id = ? AND name = ?`,
		owner.CommunityID, owner.UserID, name,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("profile %q: %w", name, storage.ErrNotFound)
		}
		return fmt.Errorf("get profile: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (storage.Profile, error) {
	var profile storage.Profile
	var isDefault int
	var createdAt, updatedAt int64
	err := row.Scan(
		&profile.Owner.CommunityID,
		&profile.Owner.UserID,
		&profile.Name,
		&isDefault,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Profile{}, storage.ErrNotFound
		}
		return storage.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	profile.IsDefault = isDefault == 1
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.SheetStore = (*Store)(nil)
