package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// preparedStatements lists queries to prepare on each new connection for
// the hot path of a session: identity lookup and insert.
var preparedStatements = map[string]string{
	"find_by_identity": `SELECT id FROM leads WHERE name_norm = $1 OR (canonical_url <> '' AND canonical_url = $2) LIMIT 1`,
	"insert_lead": `INSERT INTO leads (id, display_name, name_norm, canonical_url, description, email, phone,
		source, search_term, industry, extraction_method, status, found_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
	"update_lead_status": `UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`,
	"insert_message":     `INSERT INTO messages (id, lead_id, content, industry, created_at) VALUES ($1, $2, $3, $4, $5)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
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
	found_at          TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id    TEXT NOT NULL REFERENCES leads(id),
	content    TEXT NOT NULL,
	industry   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_name_norm ON leads(name_norm);
CREATE INDEX IF NOT EXISTS idx_leads_canonical_url ON leads(canonical_url);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);
CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) FindByIdentity(ctx context.Context, name, url string) (string, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id FROM leads WHERE name_norm = $1 OR (canonical_url <> '' AND canonical_url = $2) LIMIT 1`,
		model.NormalizedName(name), url,
	)
	var id string
	err := row.Scan(&id)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "postgres: find by identity")
	}
	return id, true, nil
}

func (s *PostgresStore) InsertLead(ctx context.Context, lead model.Lead) (string, error) {
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

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (id, display_name, name_norm, canonical_url, description, email, phone,
			source, search_term, industry, extraction_method, status, found_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		id, lead.DisplayName, model.NormalizedName(lead.DisplayName), lead.CanonicalURL,
		lead.Description, lead.Email, lead.Phone, lead.Source, lead.SearchTerm,
		lead.Industry, lead.ExtractionMethod, string(status), foundAt, now, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert lead")
	}
	return id, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int, status model.LeadStatus) ([]model.Lead, error) {
	query := `SELECT id, display_name, canonical_url, description, email, phone,
		source, search_term, industry, extraction_method, status, found_at
		FROM leads`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	if limit <= 0 {
		limit = 100
	}
	if len(args) == 0 {
		query += ` ORDER BY found_at DESC LIMIT $1`
	} else {
		query += ` ORDER BY found_at DESC LIMIT $2`
	}
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.DisplayName, &l.CanonicalURL, &l.Description,
			&l.Email, &l.Phone, &l.Source, &l.SearchTerm, &l.Industry,
			&l.ExtractionMethod, &l.Status, &l.FoundAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list recent iterate")
}

// SearchLeads matches a term against name, description and the search
// term that produced the lead.
func (s *PostgresStore) SearchLeads(ctx context.Context, term string, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + term + "%"

	rows, err := s.pool.Query(ctx,
		`SELECT id, display_name, canonical_url, description, email, phone,
			source, search_term, industry, extraction_method, status, found_at
		 FROM leads
		 WHERE display_name ILIKE $1 OR description ILIKE $1 OR search_term ILIKE $1
		 ORDER BY found_at DESC LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.DisplayName, &l.CanonicalURL, &l.Description,
			&l.Email, &l.Phone, &l.Source, &l.SearchTerm, &l.Industry,
			&l.ExtractionMethod, &l.Status, &l.FoundAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: search leads iterate")
}

func (s *PostgresStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) CountsBySource(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, "source")
}

func (s *PostgresStore) CountsByStatus(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, "status")
}

func (s *PostgresStore) countsBy(ctx context.Context, column string) (map[string]int, error) {
	// column is one of two fixed identifiers, never user input.
	rows, err := s.pool.Query(ctx,
		`SELECT `+column+`, COUNT(*) FROM leads GROUP BY `+column,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: counts by %s", column)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan count")
		}
		counts[key] = n
	}
	return counts, eris.Wrapf(rows.Err(), "postgres: counts by %s iterate", column)
}

func (s *PostgresStore) SaveMessage(ctx context.Context, msg model.DraftedMessage) (string, error) {
	id := uuid.New().String()
	created := msg.Drafted
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, lead_id, content, industry, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, msg.LeadID, msg.Content, msg.Industry, created,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: save message")
	}
	return id, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, leadID string) ([]model.DraftedMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.lead_id, l.display_name, m.content, m.industry, m.created_at
		 FROM messages m JOIN leads l ON l.id = m.lead_id
		 WHERE m.lead_id = $1 ORDER BY m.created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list messages")
	}
	defer rows.Close()

	var msgs []model.DraftedMessage
	for rows.Next() {
		var m model.DraftedMessage
		if err := rows.Scan(&m.LeadID, &m.LeadName, &m.Content, &m.Industry, &m.Drafted); err != nil {
			return nil, eris.Wrap(err, "postgres: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "postgres: list messages iterate")
}

// Open selects a backend from driver config. Unknown drivers default to
// sqlite.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn, poolCfg)
	default:
		return NewSQLite(dsn)
	}
}
