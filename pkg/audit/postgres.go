package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresDB is the subset of *pgxpool.Pool the Postgres writer needs.
type PostgresDB interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresTable is the append-only table created by the migrations.
const PostgresTable = "access_audit_log"

var auditColumns = []string{
	"id", "kind", "user_id", "user_role", "required_permission", "required_role",
	"resource", "action", "reason", "request_id", "user_agent", "ip", "created_at",
}

// PostgresWriter stores records with COPY and reads them back for review.
type PostgresWriter struct {
	db PostgresDB
}

func NewPostgresWriter(db PostgresDB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

func (w *PostgresWriter) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return errors.Join(fmt.Errorf("audit: record id %q", rec.ID), err)
		}
		rows = append(rows, []any{
			id, string(rec.Kind), rec.UserID, rec.UserRole, rec.RequiredPermission, rec.RequiredRole,
			rec.Resource, rec.Action, rec.Reason, rec.RequestID, rec.UserAgent, rec.IP, rec.Timestamp,
		})
	}

	n, err := w.db.CopyFrom(ctx, pgx.Identifier{PostgresTable}, auditColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("audit: copy into %s: %w", PostgresTable, err)
	}
	if n != int64(len(records)) {
		return fmt.Errorf("audit: copied %d of %d records", n, len(records))
	}
	return nil
}

// Find implements Reader.
func (w *PostgresWriter) Find(ctx context.Context, f Filter) ([]Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	query, args := buildFindQuery(f)
	rows, err := w.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query %s: %w", PostgresTable, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var (
			rec  Record
			id   uuid.UUID
			kind string
		)
		err := row.Scan(
			&id, &kind, &rec.UserID, &rec.UserRole, &rec.RequiredPermission, &rec.RequiredRole,
			&rec.Resource, &rec.Action, &rec.Reason, &rec.RequestID, &rec.UserAgent, &rec.IP, &rec.Timestamp,
		)
		rec.ID = id.String()
		rec.Kind = Kind(kind)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("audit: scan %s: %w", PostgresTable, err)
	}
	return records, nil
}

func buildFindQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.Resource != "" {
		add("resource = $%d", f.Resource)
	}
	if !f.Since.IsZero() {
		add("created_at >= $%d", f.Since)
	}
	if !f.Until.IsZero() {
		add("created_at <= $%d", f.Until)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(auditColumns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(PostgresTable)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, f.Limit)
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d", len(args))

	return b.String(), args
}
