package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cuddles47/electroshop/internal/events"
)

// appendOutbox writes an event row inside the caller's transaction so
// the event is committed or rolled back together with the state change.
func appendOutbox(ctx context.Context, tx *sql.Tx, topic string, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox (event_id, topic, key, payload) VALUES (?, ?, ?, ?)`,
		ev.EventID, topic, ev.OrderID, string(payload),
	)
	return err
}

func (s *Store) FetchPendingOutbox(ctx context.Context, limit int) ([]events.Record, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, event_id, topic, key, payload, created_at, sent_at
		 FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.Record
	for rows.Next() {
		var rec events.Record
		var payload string
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, err
		}
		rec.Payload = json.RawMessage(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) MarkOutboxSent(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE outbox SET sent_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
