package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"BourseWatch/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists scraped documents to a SQLite database. Each
// collection carries a uniqueness constraint on its natural key so re-runs
// overwrite in place instead of duplicating.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers can inspect the data while a scrape run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			code       TEXT PRIMARY KEY,
			title      TEXT,
			consensus  TEXT,
			potential  TEXT,
			url        TEXT,
			scraped_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS shareholders (
			company_code TEXT NOT NULL,
			name         TEXT NOT NULL,
			percentage   TEXT,
			scraped_at   INTEGER NOT NULL,
			UNIQUE(company_code, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shareholders_company ON shareholders(company_code)`,

		`CREATE TABLE IF NOT EXISTS financials (
			company_code TEXT NOT NULL,
			metric       TEXT NOT NULL,
			value_years  TEXT,
			scraped_at   INTEGER NOT NULL,
			UNIQUE(company_code, metric)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_financials_company ON financials(company_code)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertCompany(c *model.CompanyRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(`SELECT 1 FROM companies WHERE code = ?`, c.Code)
	if err != nil {
		return false, err
	}
	_, err = s.db.Exec(`INSERT INTO companies (code, title, consensus, potential, url, scraped_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(code) DO UPDATE SET
			title=excluded.title, consensus=excluded.consensus,
			potential=excluded.potential, url=excluded.url, scraped_at=excluded.scraped_at`,
		c.Code, c.Title, c.Consensus, c.Potential, c.URL, c.ScrapedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert company %s: %w", c.Code, err)
	}
	return !exists, nil
}

func (s *SQLiteStore) UpsertShareholder(sh *model.ShareholderRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(`SELECT 1 FROM shareholders WHERE company_code = ? AND name = ?`, sh.CompanyCode, sh.Name)
	if err != nil {
		return false, err
	}
	_, err = s.db.Exec(`INSERT INTO shareholders (company_code, name, percentage, scraped_at)
		VALUES (?,?,?,?)
		ON CONFLICT(company_code, name) DO UPDATE SET
			percentage=excluded.percentage, scraped_at=excluded.scraped_at`,
		sh.CompanyCode, sh.Name, sh.Percentage, sh.ScrapedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert shareholder %s/%s: %w", sh.CompanyCode, sh.Name, err)
	}
	return !exists, nil
}

func (s *SQLiteStore) UpsertFinancial(f *model.FinancialMetricRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := json.Marshal(f.Values)
	if err != nil {
		return false, fmt.Errorf("marshal values for %s/%s: %w", f.CompanyCode, f.Metric, err)
	}

	exists, err := s.exists(`SELECT 1 FROM financials WHERE company_code = ? AND metric = ?`, f.CompanyCode, f.Metric)
	if err != nil {
		return false, err
	}
	_, err = s.db.Exec(`INSERT INTO financials (company_code, metric, value_years, scraped_at)
		VALUES (?,?,?,?)
		ON CONFLICT(company_code, metric) DO UPDATE SET
			value_years=excluded.value_years, scraped_at=excluded.scraped_at`,
		f.CompanyCode, f.Metric, string(values), f.ScrapedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert financial %s/%s: %w", f.CompanyCode, f.Metric, err)
	}
	return !exists, nil
}

// Totals counts the documents in each collection.
func (s *SQLiteStore) Totals() (*Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Totals{}
	for _, q := range []struct {
		table string
		dst   *int64
	}{
		{"companies", &t.Companies},
		{"shareholders", &t.Shareholders},
		{"financials", &t.Financials},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return t, nil
}

func (s *SQLiteStore) exists(query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
