package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vbamtools/campaignstore/internal/platform/timeouts"
	"github.com/vbamtools/campaignstore/internal/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// execer is the common statement surface of *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querier runs statements against one checked-out connection or open
// transaction, applying the per-call timeout and tracing each statement.
type querier struct {
	target  execer
	tracer  trace.Tracer
	timeout time.Duration
}

// opContext applies the configured statement timeout when the caller did
// not bring a tighter deadline of its own.
func (q querier) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := q.timeout
	if timeout <= 0 {
		timeout = timeouts.Statement
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (q querier) span(ctx context.Context, stmt string) (context.Context, trace.Span) {
	if q.tracer == nil {
		return ctx, nil
	}
	return q.tracer.Start(ctx, "sqlite."+statementVerb(stmt),
		trace.WithAttributes(attribute.String("db.system", "sqlite")),
	)
}

// Exec implements storage.Querier.
func (q querier) Exec(ctx context.Context, stmt string, args ...any) (storage.Result, error) {
	if err := ctx.Err(); err != nil {
		return storage.Result{}, classify(ctx, "exec", err)
	}
	opCtx, cancel := q.opContext(ctx)
	defer cancel()
	opCtx, span := q.span(opCtx, stmt)

	res, err := q.target.ExecContext(opCtx, stmt, args...)
	if err != nil {
		endSpan(span, err)
		return storage.Result{}, classify(opCtx, "exec", err)
	}

	var out storage.Result
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	endSpan(span, nil)
	return out, nil
}

// Query implements storage.Querier. Rows are materialized before the call
// returns so the connection is never held across caller iteration.
func (q querier) Query(ctx context.Context, stmt string, args ...any) (*storage.RowSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, "query", err)
	}
	opCtx, cancel := q.opContext(ctx)
	defer cancel()
	opCtx, span := q.span(opCtx, stmt)

	rows, err := q.target.QueryContext(opCtx, stmt, args...)
	if err != nil {
		endSpan(span, err)
		return nil, classify(opCtx, "query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		endSpan(span, err)
		return nil, classify(opCtx, "query columns", err)
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			endSpan(span, err)
			return nil, classify(opCtx, "scan row", err)
		}
		for i, v := range values {
			// The driver reuses byte buffers between rows.
			if b, ok := v.([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		endSpan(span, err)
		return nil, classify(opCtx, "read rows", err)
	}
	endSpan(span, nil)
	return storage.NewRowSet(columns, out), nil
}

func endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// statementVerb reduces a statement to its leading keyword for span names.
func statementVerb(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return "statement"
	}
	return strings.ToLower(fields[0])
}
