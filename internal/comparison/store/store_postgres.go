package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"quotedesk/internal/comparison/models"
	"quotedesk/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists the request log in the comparison_requests table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed request log.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert writes one record. The table is insert-only.
func (s *PostgresStore) Insert(ctx context.Context, record *models.LogRecord) error {
	if record == nil {
		return nil
	}
	query := `
		INSERT INTO comparison_requests
			(id, recipient_email, cc_emails, bcc_emails, message, quotation_ids, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.RecipientEmail,
		pq.Array(nonNil(record.CCEmails)),
		pq.Array(nonNil(record.BCCEmails)),
		record.Message,
		pq.Array(nonNil(record.QuotationIDs)),
		string(record.Status),
		record.SentAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert comparison request: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert comparison request: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first. limit <= 0 returns all.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.LogRecord, error) {
	query := `
		SELECT id, recipient_email, cc_emails, bcc_emails, message, quotation_ids, status, sent_at
		FROM comparison_requests
		ORDER BY sent_at DESC, id
		LIMIT $1
	`
	// LIMIT NULL is the same as LIMIT ALL
	bound := sql.NullInt64{Int64: int64(limit), Valid: limit > 0}
	rows, err := s.db.QueryContext(ctx, query, bound)
	if err != nil {
		return nil, fmt.Errorf("list comparison requests: %w", err)
	}
	defer rows.Close()

	var out []*models.LogRecord
	for rows.Next() {
		var (
			r      models.LogRecord
			status string
		)
		if err := rows.Scan(
			&r.ID,
			&r.RecipientEmail,
			pq.Array(&r.CCEmails),
			pq.Array(&r.BCCEmails),
			&r.Message,
			pq.Array(&r.QuotationIDs),
			&status,
			&r.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan comparison request: %w", err)
		}
		r.Status = models.Status(status)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparison requests: %w", err)
	}
	return out, nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
