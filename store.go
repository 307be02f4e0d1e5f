package heartkit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	// SQLite driver using pure Go implementation
	_ "modernc.org/sqlite"
)

// ResultStoreConfig configures the SQLite-backed result store.
type ResultStoreConfig struct {
	// Path to the SQLite database file.
	Path string

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, etc.)
	JournalMode string

	// BusyTimeout is the timeout for acquiring locks in milliseconds.
	BusyTimeout int
}

// DefaultResultStoreConfig returns default store configuration.
func DefaultResultStoreConfig(path string) ResultStoreConfig {
	return ResultStoreConfig{
		Path:        path,
		JournalMode: "WAL",
		BusyTimeout: 5000,
	}
}

// ResultStore persists analysis runs to SQLite so external reporting tools
// can read measures with standard SQLite clients. Working data is stored as
// a snappy-compressed JSON blob alongside the flat measure map.
type ResultStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// RunInfo describes one stored analysis run.
type RunInfo struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// StoredRun is a fully loaded analysis run.
type StoredRun struct {
	RunInfo
	Measures map[string]float64
	Working  WorkingData
}

// OpenResultStore opens (and if needed creates) a result store.
func OpenResultStore(config ResultStoreConfig) (*ResultStore, error) {
	if config.Path == "" {
		return nil, errors.New("result store path is required")
	}
	if config.JournalMode == "" {
		config.JournalMode = "WAL"
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5000
	}

	dsn := fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=%d",
		config.Path, config.JournalMode, config.BusyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS analysis_runs (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		measures   TEXT NOT NULL,
		working    BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_runs_label ON analysis_runs(label);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create result store schema: %w", err)
	}

	return &ResultStore{db: db}, nil
}

// SaveResult persists one analysis run under a caller-chosen label and
// returns the generated run ID.
func (s *ResultStore) SaveResult(ctx context.Context, label string, result *AnalysisResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrStoreClosed
	}

	measuresJSON, err := json.Marshal(encodeMeasures(result.Measures()))
	if err != nil {
		return "", fmt.Errorf("encode measures: %w", err)
	}

	workingJSON, err := json.Marshal(result.Working)
	if err != nil {
		return "", fmt.Errorf("encode working data: %w", err)
	}
	workingBlob := snappy.Encode(nil, workingJSON)

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, label, created_at, measures, working) VALUES (?, ?, ?, ?, ?)`,
		id, label, time.Now().UnixNano(), string(measuresJSON), workingBlob)
	if err != nil {
		return "", fmt.Errorf("insert analysis run: %w", err)
	}
	return id, nil
}

// LoadResult retrieves a stored run by ID.
func (s *ResultStore) LoadResult(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var (
		run         StoredRun
		createdAt   int64
		measuresStr string
		workingBlob []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, measures, working FROM analysis_runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Label, &createdAt, &measuresStr, &workingBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis run: %w", err)
	}
	run.CreatedAt = time.Unix(0, createdAt)

	var encoded map[string]*float64
	if err := json.Unmarshal([]byte(measuresStr), &encoded); err != nil {
		return nil, fmt.Errorf("decode measures: %w", err)
	}
	run.Measures = decodeMeasures(encoded)

	if len(workingBlob) > 0 {
		workingJSON, err := snappy.Decode(nil, workingBlob)
		if err != nil {
			return nil, fmt.Errorf("decompress working data: %w", err)
		}
		if err := json.Unmarshal(workingJSON, &run.Working); err != nil {
			return nil, fmt.Errorf("decode working data: %w", err)
		}
	}
	return &run, nil
}

// ListRuns returns stored runs, newest first.
func (s *ResultStore) ListRuns(ctx context.Context) ([]RunInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at FROM analysis_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt int64
		if err := rows.Scan(&info.ID, &info.Label, &createdAt); err != nil {
			return nil, err
		}
		info.CreatedAt = time.Unix(0, createdAt)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Close closes the store. Further operations return ErrStoreClosed.
func (s *ResultStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// encodeMeasures maps NaN measures to null so the map stays valid JSON.
func encodeMeasures(measures map[string]float64) map[string]*float64 {
	encoded := make(map[string]*float64, len(measures))
	for k, v := range measures {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			encoded[k] = nil
			continue
		}
		value := v
		encoded[k] = &value
	}
	return encoded
}

// decodeMeasures restores NaN for measures stored as null.
func decodeMeasures(encoded map[string]*float64) map[string]float64 {
	measures := make(map[string]float64, len(encoded))
	for k, v := range encoded {
		if v == nil {
			measures[k] = math.NaN()
			continue
		}
		measures[k] = *v
	}
	return measures
}
