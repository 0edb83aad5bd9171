package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/mojifix/internal/model"
)

// FileName is the name of the SQLite file inside the database directory.
const FileName = "mojifix.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores one row per written document: the text before the fix,
// content hashes on both sides, and the summary that was reported.
//
// Design decision: We use a single database file for all target files
// rather than one per file. Listing every processed path is then one query.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunRecord is one stored run.
type RunRecord struct {
	// ID is the row ID, used by history --restore.
	ID int64 `json:"id"`

	// Path is the file that was fixed.
	Path string `json:"path"`

	// Timestamp is when the document was processed.
	Timestamp time.Time `json:"timestamp"`

	// BeforeHash is the SHA3-256 of the text before the fix.
	BeforeHash string `json:"before_hash"`

	// AfterHash is the SHA3-256 of the text written back.
	AfterHash string `json:"after_hash"`

	// Removed is the number of corrupted sequences removed or replaced.
	Removed int `json:"removed"`

	// Inserted is the number of decorative glyphs added.
	Inserted int `json:"inserted"`

	// Snapshot is the text before the fix.
	Snapshot string `json:"-"`

	// Summary is the report stored with the run.
	Summary *model.Summary `json:"summary,omitempty"`
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		before_hash TEXT NOT NULL,
		after_hash TEXT NOT NULL,
		removed INTEGER NOT NULL DEFAULT 0,
		inserted INTEGER NOT NULL DEFAULT 0,
		snapshot TEXT NOT NULL,
		report_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Hash returns the hex SHA3-256 digest of text.
func Hash(text string) string {
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SaveRun stores doc and returns the new run ID.
// The snapshot is the text as it was read, so the run can be restored.
// The path is stored absolute so a restore works from any directory.
func (hdb *HistoryDB) SaveRun(ctx context.Context, doc *model.Document) (int64, error) {
	if doc == nil {
		return 0, errors.New("document is nil")
	}

	path, err := filepath.Abs(doc.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve path %s: %w", doc.Path, err)
	}

	reportJSON, err := json.Marshal(model.NewSummary(doc))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
	INSERT INTO runs (path, timestamp, before_hash, after_hash, removed, inserted, snapshot, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		path,
		doc.DateProcessed.UTC().Format(time.RFC3339Nano),
		Hash(doc.Original),
		Hash(doc.Content),
		doc.Corruptions(),
		doc.Inserted(),
		doc.Original,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// ListPaths returns every path with at least one stored run, sorted.
func (hdb *HistoryDB) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT path FROM runs ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

// History returns the runs for path, newest first. A relative path is
// resolved against the working directory, as SaveRun does.
// An empty path returns the runs for every file.
func (hdb *HistoryDB) History(ctx context.Context, path string) ([]RunRecord, error) {
	query := `
	SELECT id, path, timestamp, before_hash, after_hash, removed, inserted, snapshot, report_json
	FROM runs
	`
	var args []any
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		query += ` WHERE path = ?`
		args = append(args, abs)
	}
	query += ` ORDER BY timestamp DESC, id DESC`

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, path, timestamp, before_hash, after_hash, removed, inserted, snapshot, report_json
	FROM runs
	WHERE id = ?
	`

	rec, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec        RunRecord
		timestamp  string
		reportJSON sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.Path,
		&timestamp,
		&rec.BeforeHash,
		&rec.AfterHash,
		&rec.Removed,
		&rec.Inserted,
		&rec.Snapshot,
		&reportJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.Timestamp = parseTimestamp(timestamp)

	if reportJSON.Valid && reportJSON.String != "" {
		var summary model.Summary
		if err := json.Unmarshal([]byte(reportJSON.String), &summary); err != nil {
			return nil, fmt.Errorf("failed to parse report: %w", err)
		}
		rec.Summary = &summary
	}

	return &rec, nil
}

// timestampFormats lists the formats a stored timestamp may come back in.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02T15:04:05Z",
}

// parseTimestamp tries each of timestampFormats and returns the zero time
// when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
