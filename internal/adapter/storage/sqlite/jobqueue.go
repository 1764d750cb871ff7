package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

// DispatchQueue is a durable queue of accepted /process requests.
type DispatchQueue struct {
	db *sql.DB
}

func NewDispatchQueue(store *Store) *DispatchQueue {
	return &DispatchQueue{db: store.db}
}

func (q *DispatchQueue) Enqueue(ctx context.Context, msg domain.DispatchMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `INSERT INTO dispatch_queue (video_id, payload) VALUES (?, ?)`, msg.VideoID, string(payload))
	return err
}

func (q *DispatchQueue) Claim(ctx context.Context) (*domain.Delivery, error) {
	var (
		id       int64
		payload  string
		attempts int64
	)
	err := q.db.QueryRowContext(ctx, `
		UPDATE dispatch_queue
		SET status = 'running', attempts = attempts + 1, started_at = CURRENT_TIMESTAMP
		WHERE id = (SELECT id FROM dispatch_queue WHERE status = 'pending' ORDER BY id LIMIT 1)
		RETURNING id, payload, attempts`).Scan(&id, &payload, &attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var msg domain.DispatchMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, fmt.Errorf("decode delivery %d: %w", id, err)
	}
	return &domain.Delivery{ID: strconv.FormatInt(id, 10), Message: msg, Attempts: attempts - 1}, nil
}

func (q *DispatchQueue) Complete(ctx context.Context, deliveryID string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE dispatch_queue SET status = 'done', completed_at = CURRENT_TIMESTAMP WHERE id = ?`, deliveryID)
	return err
}

func (q *DispatchQueue) Fail(ctx context.Context, deliveryID string, errMsg string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE dispatch_queue SET status = 'failed', error_message = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?`, errMsg, deliveryID)
	return err
}

// ResetStalled returns deliveries left running by a previous process to pending.
func (q *DispatchQueue) ResetStalled(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `UPDATE dispatch_queue SET status = 'pending', started_at = NULL WHERE status = 'running'`)
	return err
}

var _ port.DispatchQueue = (*DispatchQueue)(nil)
