package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandreach/internal/core/domain"
)

// NotificationRepository implements port.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a new repository instance.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO notifications
		(id, recipient_id, title, message, type, related_id, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.RecipientID, n.Title, n.Message, n.Type, n.RelatedID, n.Read, n.CreatedAt)
	return err
}

// ListByRecipient returns a recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT id, recipient_id, title, message, type, related_id, is_read, created_at
		FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Notification, error) {
		var n domain.Notification
		err := row.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.Read, &n.CreatedAt)
		return n, err
	})
}

// MarkRead flips the read flag on one of the recipient's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead flips the read flag on everything the recipient has.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false`, recipientID)
	return err
}
