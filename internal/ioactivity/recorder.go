// Package ioactivity implements the Recorder contract: an append-only
// audit trail in PostgreSQL. Writes are fire-and-forget from the primary
// operation's point of view.
package ioactivity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
	"github.com/mushafdb/mushafdb/pkg/schema"
)

// recorder implements corpus.Recorder.
type recorder struct {
	operator db.Operator
}

// New creates an audit trail recorder.
func New(op db.Operator) corpus.Recorder {
	return &recorder{operator: op}
}

// Record appends one audit entry. Failures are logged and swallowed: a
// lost audit record must never fail the operation it describes.
func (r *recorder) Record(ctx context.Context, e corpus.ActivityEntry) {
	oldVals, err := marshalValues(e.OldValues)
	if err != nil {
		slog.Warn("Cannot serialize audit old values",
			"action", e.Action, "error", err)
	}
	newVals, err := marshalValues(e.NewValues)
	if err != nil {
		slog.Warn("Cannot serialize audit new values",
			"action", e.Action, "error", err)
	}

	_, err = r.operator.Pool().Exec(ctx,
		`INSERT INTO activity_records
			(actor_id, action, entity_type, entity_id,
			 old_values, new_values, remote_addr, client, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ActorID, e.Action, e.EntityType, e.EntityID,
		oldVals, newVals, e.RemoteAddr, e.Client, time.Now(),
	)
	if err != nil {
		slog.Warn("Cannot write audit record",
			"action", e.Action,
			"entity_type", e.EntityType,
			"entity_id", e.EntityID,
			"error", err)
	}
}

// marshalValues serializes a snapshot to JSON for the jsonb columns. A
// nil snapshot stays NULL.
func marshalValues(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// defaultPageSize bounds audit listings when the caller does not.
const defaultPageSize = 50

// List returns one page of the audit trail, newest first.
func (r *recorder) List(
	ctx context.Context,
	q corpus.ActivityQuery,
) (*corpus.ActivityPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	fs := &corpus.Filters{}
	if q.ActorID != 0 {
		fs.Where("actor_id", corpus.OpEq, q.ActorID)
	}
	if q.Action != "" {
		fs.Where("action", corpus.OpEq, q.Action)
	}

	clause, args, err := fs.SQL(1)
	if err != nil {
		return nil, err
	}
	var where string
	if clause != "" {
		where = " WHERE " + clause
	}

	var total int
	err = r.operator.Pool().QueryRow(ctx,
		"SELECT count(*) FROM activity_records"+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, corpus.NewStorageError("count audit records", err)
	}

	query := fmt.Sprintf(`SELECT id, actor_id, action, entity_type,
			entity_id,
			COALESCE(old_values, 'null'::jsonb),
			COALESCE(new_values, 'null'::jsonb),
			COALESCE(remote_addr, ''), COALESCE(client, ''), created_at
		FROM activity_records%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.operator.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, corpus.NewStorageError("list audit records", err)
	}
	defer rows.Close()

	var records []schema.ActivityRecord
	for rows.Next() {
		var rec schema.ActivityRecord
		err = rows.Scan(&rec.ID, &rec.ActorID, &rec.Action,
			&rec.EntityType, &rec.EntityID, &rec.OldValues,
			&rec.NewValues, &rec.RemoteAddr, &rec.Client, &rec.CreatedAt)
		if err != nil {
			return nil, corpus.NewStorageError("scan audit record", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, corpus.NewStorageError("list audit records", err)
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return &corpus.ActivityPage{
		Records: records,
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
	}, nil
}
