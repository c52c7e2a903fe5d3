// Package sqlite provides SQLite-backed persistence for raw filings,
// so ingestion can be re-run without refetching from EDGAR.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FilingStore = (*Store)(nil)

// Store is the SQLite-backed filing store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a filing store at the specified data directory.
// If dataDir is empty, defaults to ~/.finsight/data/filings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".finsight", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "filings.db")

	// WAL mode for better concurrency between fetch and ingest.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores a filing, replacing any previous version with the same ID.
func (s *Store) Put(ctx context.Context, filing domain.Filing) error {
	if err := filing.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filings (id, ticker, filing_type, filing_date, accession_no, source_url, content, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ticker = excluded.ticker,
			filing_type = excluded.filing_type,
			filing_date = excluded.filing_date,
			accession_no = excluded.accession_no,
			source_url = excluded.source_url,
			content = excluded.content,
			fetched_at = excluded.fetched_at
	`, filing.ID, filing.Ticker, string(filing.FilingType), filing.FilingDate,
		filing.AccessionNo, filing.SourceURL, filing.Content, filing.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("storing filing: %w", err)
	}
	return nil
}

// Get retrieves a filing by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.Filing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, filing_type, filing_date, accession_no, source_url, content, fetched_at
		FROM filings WHERE id = ?
	`, id)

	filing, err := scanFiling(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Filing{}, fmt.Errorf("filing %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Filing{}, fmt.Errorf("getting filing: %w", err)
	}
	return filing, nil
}

// List returns filings matching the ticker and filing type, newest first.
// Empty arguments mean "any".
func (s *Store) List(ctx context.Context, ticker string, filingType domain.FilingType) ([]domain.Filing, error) {
	query := `
		SELECT id, ticker, filing_type, filing_date, accession_no, source_url, content, fetched_at
		FROM filings WHERE 1=1`
	var args []any
	if ticker != "" {
		query += " AND ticker = ?"
		args = append(args, strings.ToUpper(ticker))
	}
	if filingType != "" {
		query += " AND filing_type = ?"
		args = append(args, string(filingType))
	}
	query += " ORDER BY filing_date DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing filings: %w", err)
	}
	defer rows.Close()

	var filings []domain.Filing
	for rows.Next() {
		filing, err := scanFiling(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning filing: %w", err)
		}
		filings = append(filings, filing)
	}
	return filings, rows.Err()
}

// Delete removes a filing. Deleting a missing filing is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM filings WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting filing: %w", err)
	}
	return nil
}

// Count returns the number of stored filings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM filings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting filings: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFiling(row scanner) (domain.Filing, error) {
	var f domain.Filing
	var filingType string
	err := row.Scan(&f.ID, &f.Ticker, &filingType, &f.FilingDate,
		&f.AccessionNo, &f.SourceURL, &f.Content, &f.FetchedAt)
	f.FilingType = domain.FilingType(filingType)
	return f, err
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
