// Package sqlite is a save slot store backed by a SQLite file. Payloads are
// lz4-compressed and carry a blake3 checksum of the uncompressed save.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"

	"github.com/spacehole-rogue/overlord/internal/save"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS saves (
	id          TEXT PRIMARY KEY,
	slot        TEXT NOT NULL UNIQUE,
	save_name   TEXT NOT NULL DEFAULT '',
	turn_number INTEGER NOT NULL,
	saved_at    INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	checksum    TEXT NOT NULL,
	data        BLOB NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS saves_saved_at ON saves (saved_at DESC)`,
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("compress save: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress save: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", save.ErrInvalidSave, err)
	}
	return out, nil
}

// Store provides SQLite-backed persistence for save slots.
type Store struct {
	sqlDB *sql.DB
}

var _ save.Store = (*Store)(nil)

// DB returns the underlying sql.DB instance.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Open opens a SQLite store at the provided path, creating the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := sqlDB.Exec(stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put writes data to info.Slot, replacing any previous save there. A slot
// keeps its row ID across overwrites.
func (s *Store) Put(ctx context.Context, info save.SlotInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(info.Slot) == "" {
		return fmt.Errorf("slot name is required")
	}
	packed, err := compress(data)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO saves (id, slot, save_name, turn_number, saved_at, size, checksum, data)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
	save_name = excluded.save_name,
	turn_number = excluded.turn_number,
	saved_at = excluded.saved_at,
	size = excluded.size,
	checksum = excluded.checksum,
	data = excluded.data
`,
		uuid.NewString(),
		info.Slot,
		info.SaveName,
		info.TurnNumber,
		toMillis(info.SavedAt),
		len(data),
		checksum(data),
		packed,
	)
	if err != nil {
		return fmt.Errorf("put save: %w", err)
	}
	return nil
}

// Get returns the save in slot after verifying its checksum.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var (
		sum    string
		packed []byte
	)
	err := s.sqlDB.QueryRowContext(ctx, `SELECT checksum, data FROM saves WHERE slot = ?`, slot).Scan(&sum, &packed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", save.ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("get save: %w", err)
	}
	data, err := decompress(packed)
	if err != nil {
		return nil, err
	}
	if checksum(data) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch in slot %s", save.ErrInvalidSave, slot)
	}
	return data, nil
}

// List returns every slot, most recently saved first.
func (s *Store) List(ctx context.Context) ([]save.SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT slot, save_name, turn_number, saved_at, size
FROM saves
ORDER BY saved_at DESC, slot ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []save.SlotInfo
	for rows.Next() {
		var (
			info    save.SlotInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Slot, &info.SaveName, &info.TurnNumber, &savedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		info.SavedAt = fromMillis(savedAt)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return out, nil
}

// Delete removes slot.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", save.ErrSlotNotFound, slot)
	}
	return nil
}
