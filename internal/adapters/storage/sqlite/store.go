package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/phaseeng/taskdesk/internal/domain"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// dataKey and sessionKey are the two storage slots: the versioned envelope
// and the unversioned session record.
const (
	dataKey    = "taskdesk.data"
	sessionKey = "taskdesk.session"
)

// Options configures migration inputs and diagnostics for the store. The
// legacy roster and vocabularies are only consulted by the v1 to v2
// migration, which rebuilds the roster the old fixed-roster envelopes
// implied.
type Options struct {
	LegacyEmployees []domain.Employee
	LegacyTaskTypes []string
	LegacyProjects  []string
	Clock           func() time.Time
	Logger          *charmLog.Logger
}

// Store persists the versioned envelope and session in a small key-value
// table. All side effects are confined to the local database file.
type Store struct {
	db   *sql.DB
	opts Options
}

// Open opens (and if needed creates) the backing database at path.
func Open(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := newStore(db, opts)
	if err := store.migrateSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenInMemory opens a throwaway in-memory store, used by tests.
func OpenInMemory(opts Options) (*Store, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	store := newStore(db, opts)
	if err := store.migrateSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// newStore fills option defaults.
func newStore(db *sql.DB, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{db: db, opts: opts}
}

// Close closes the backing database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrateSchema ensures the key-value table exists.
func (s *Store) migrateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// storedEnvelope is the on-disk wrapper around a version-specific payload.
type storedEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Payload       json.RawMessage `json:"payload"`
}

// legacyEnvelopeV1 is the version-1 payload: assignments only, referencing
// the fixed roster that used to live in configuration.
type legacyEnvelopeV1 struct {
	Assignments []domain.Assignment `json:"assignments"`
}

// LoadEnvelope reads the stored envelope. A missing key returns nil. A
// recognized-but-old version is migrated forward; an unrecognized version is
// logged and degraded to absent data so the caller reseeds instead of
// crashing on something a future build wrote.
func (s *Store) LoadEnvelope(ctx context.Context) (*domain.Envelope, error) {
	raw, ok, err := s.get(ctx, dataKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var env storedEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.warn("stored envelope is malformed, treating as absent", "err", err)
		return nil, nil
	}

	switch env.SchemaVersion {
	case domain.SchemaVersion:
		var out domain.Envelope
		if err := json.Unmarshal(env.Payload, &out); err != nil {
			return nil, fmt.Errorf("decode envelope payload: %w", err)
		}
		return &out, nil
	case 1:
		var legacy legacyEnvelopeV1
		if err := json.Unmarshal(env.Payload, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy envelope payload: %w", err)
		}
		migrated := s.migrateV1toV2(legacy)
		return &migrated, nil
	default:
		s.warn("unsupported schema version, treating as absent", "schema_version", env.SchemaVersion)
		return nil, nil
	}
}

// migrateV1toV2 rebuilds a version-2 envelope from a legacy payload: roster
// from the configured legacy employees, snapshots re-derived, missing
// timestamps stamped now, vocabularies seeded from the legacy lists.
func (s *Store) migrateV1toV2(legacy legacyEnvelopeV1) domain.Envelope {
	now := s.opts.Clock().UTC()
	employees := append([]domain.Employee{}, s.opts.LegacyEmployees...)

	assignments := make([]domain.Assignment, 0, len(legacy.Assignments))
	for _, a := range legacy.Assignments {
		row := a.Clone()
		row.SyncSnapshot(employees)
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
		assignments = append(assignments, row)
	}

	master := domain.DefaultMasterData()
	master.TaskTypes = append([]string{}, s.opts.LegacyTaskTypes...)
	master.Projects = append([]string{}, s.opts.LegacyProjects...)

	return domain.Envelope{
		SchemaVersion: domain.SchemaVersion,
		UpdatedAt:     now,
		Employees:     employees,
		Assignments:   assignments,
		MasterData:    master,
	}
}

// SaveEnvelope persists the full envelope, stamping the save timestamp and
// overwriting any prior value (last-write-wins, single writer assumed).
func (s *Store) SaveEnvelope(ctx context.Context, env domain.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope payload: %w", err)
	}
	stored, err := json.Marshal(storedEnvelope{
		SchemaVersion: env.SchemaVersion,
		SavedAt:       s.opts.Clock().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("encode stored envelope: %w", err)
	}
	return s.put(ctx, dataKey, string(stored))
}

// ClearEnvelope removes the stored envelope entirely.
func (s *Store) ClearEnvelope(ctx context.Context) error {
	return s.del(ctx, dataKey)
}

// LoadSession reads the session record; missing or unreadable values mean
// logged out.
func (s *Store) LoadSession(ctx context.Context) (*domain.Session, error) {
	raw, ok, err := s.get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.warn("stored session is malformed, treating as logged out", "err", err)
		return nil, nil
	}
	return &sess, nil
}

// SaveSession persists the session record, unversioned.
func (s *Store) SaveSession(ctx context.Context, sess domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.put(ctx, sessionKey, string(raw))
}

// ClearSession removes the session record.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.del(ctx, sessionKey)
}

// get reads one key; ok is false when the key is absent.
func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

// put upserts one key.
func (s *Store) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// del removes one key.
func (s *Store) del(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// warn logs through the configured logger when one is present.
func (s *Store) warn(msg string, keyvals ...any) {
	if s.opts.Logger == nil {
		return
	}
	s.opts.Logger.Warn(msg, keyvals...)
}
