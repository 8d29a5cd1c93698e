package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/platform/id"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// Audit appends operational audit events alongside campaign data.
type Audit struct {
	engine storage.Engine
}

// Append records an audit event. A missing identifier or timestamp is
// filled in; attributes are marshaled once if only the map form is set.
func (r *Audit) Append(ctx context.Context, evt storage.AuditEvent) error {
	if strings.TrimSpace(evt.EventName) == "" {
		return apperrors.New(apperrors.CodeAuditEventInvalid, "audit event name is required")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return apperrors.New(apperrors.CodeAuditEventInvalid, "audit event severity is required")
	}
	if evt.ID == "" {
		generated, err := id.NewID()
		if err != nil {
			return fmt.Errorf("generate audit event id: %w", err)
		}
		evt.ID = generated
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal audit attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx,
			`INSERT INTO audit_events (id, timestamp, event_name, severity, attributes_json)
			 VALUES (?, ?, ?, ?, ?)`,
			evt.ID, toMillis(evt.Timestamp), evt.EventName, evt.Severity, evt.AttributesJSON,
		)
		return err
	})
}

// Recent returns up to limit audit events, newest first.
func (r *Audit) Recent(ctx context.Context, limit int) ([]storage.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []storage.AuditEvent
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, timestamp, event_name, severity, attributes_json
			 FROM audit_events ORDER BY timestamp DESC, id LIMIT ?`, limit)
		if err != nil {
			return err
		}
		events = make([]storage.AuditEvent, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			row := rs.Row(i)
			var evt storage.AuditEvent
			if evt.ID, err = row.Text("id"); err != nil {
				return err
			}
			if evt.Timestamp, err = row.Time("timestamp"); err != nil {
				return err
			}
			if evt.EventName, err = row.Text("event_name"); err != nil {
				return err
			}
			if evt.Severity, err = row.Text("severity"); err != nil {
				return err
			}
			payload, err := row.NullBlob("attributes_json")
			if err != nil {
				return err
			}
			evt.AttributesJSON = payload
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &evt.Attributes); err != nil {
					return fmt.Errorf("unmarshal audit attributes: %w", err)
				}
			}
			events = append(events, evt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
