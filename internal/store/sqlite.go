package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                TEXT PRIMARY KEY,
	display_name      TEXT NOT NULL,
	name_norm         TEXT NOT NULL,
	canonical_url     TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	source            TEXT NOT NULL DEFAULT '',
	search_term       TEXT NOT NULL DEFAULT '',
	industry          TEXT NOT NULL DEFAULT '',
	extraction_method TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'pending',
	found_at          DATETIME NOT NULL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL REFERENCES leads(id),
	content    TEXT NOT NULL,
	industry   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_name_norm ON leads(name_norm);
CREATE INDEX IF NOT EXISTS idx_leads_canonical_url ON leads(canonical_url);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);
CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindByIdentity(ctx context.Context, name, url string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id FROM leads WHERE name_norm = ? OR (canonical_url <> '' AND canonical_url = ?) LIMIT 1`,
		model.NormalizedName(name), url,
	)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "sqlite: find by identity")
	}
	return id, true, nil
}

func (s *SQLiteStore) InsertLead(ctx context.Context, lead model.Lead) (string, error) {
	id := lead.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	foundAt := lead.FoundAt
	if foundAt.IsZero() {
		foundAt = now
	}
	status := lead.Status
	if status == "" {
		status = model.LeadStatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, display_name, name_norm, canonical_url, description, email, phone,
			source, search_term, industry, extraction_method, status, found_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, lead.DisplayName, model.NormalizedName(lead.DisplayName), lead.CanonicalURL,
		lead.Description, lead.Email, lead.Phone, lead.Source, lead.SearchTerm,
		lead.Industry, lead.ExtractionMethod, string(status), foundAt, now, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert lead")
	}
	return id, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int, status model.LeadStatus) ([]model.Lead, error) {
	query := `SELECT id, display_name, canonical_url, description, email, phone,
		source, search_term, industry, extraction_method, status, found_at
		FROM leads`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY found_at DESC LIMIT ?`
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.DisplayName, &l.CanonicalURL, &l.Description,
			&l.Email, &l.Phone, &l.Source, &l.SearchTerm, &l.Industry,
			&l.ExtractionMethod, &l.Status, &l.FoundAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list recent iterate")
}

// SearchLeads matches a term against name, description and the search
// term that produced the lead.
func (s *SQLiteStore) SearchLeads(ctx context.Context, term string, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + term + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, canonical_url, description, email, phone,
			source, search_term, industry, extraction_method, status, found_at
		 FROM leads
		 WHERE display_name LIKE ? OR description LIKE ? OR search_term LIKE ?
		 ORDER BY found_at DESC LIMIT ?`,
		pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.DisplayName, &l.CanonicalURL, &l.Description,
			&l.Email, &l.Phone, &l.Source, &l.SearchTerm, &l.Industry,
			&l.ExtractionMethod, &l.Status, &l.FoundAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: search leads iterate")
}

func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead status %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) CountsBySource(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, "source")
}

func (s *SQLiteStore) CountsByStatus(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, "status")
}

func (s *SQLiteStore) countsBy(ctx context.Context, column string) (map[string]int, error) {
	// column is one of two fixed identifiers, never user input.
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM leads GROUP BY `+column,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: counts by %s", column)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan count")
		}
		counts[key] = n
	}
	return counts, eris.Wrapf(rows.Err(), "sqlite: counts by %s iterate", column)
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, msg model.DraftedMessage) (string, error) {
	id := uuid.New().String()
	created := msg.Drafted
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, lead_id, content, industry, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, msg.LeadID, msg.Content, msg.Industry, created,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: save message")
	}
	return id, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, leadID string) ([]model.DraftedMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.lead_id, l.display_name, m.content, m.industry, m.created_at
		 FROM messages m JOIN leads l ON l.id = m.lead_id
		 WHERE m.lead_id = ? ORDER BY m.created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list messages")
	}
	defer rows.Close()

	var msgs []model.DraftedMessage
	for rows.Next() {
		var m model.DraftedMessage
		if err := rows.Scan(&m.LeadID, &m.LeadName, &m.Content, &m.Industry, &m.Drafted); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "sqlite: list messages iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
