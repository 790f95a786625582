package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/multimart/internal/domain"
	"github.com/example/multimart/internal/notification"
)

const notificationColumns = `id, user_id, type, title, message, order_id, read, created_at`

// NotificationStore persists in-app notifications in PostgreSQL.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new notification store.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Insert(ctx context.Context, n *notification.Notification) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, type, title, message, order_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		n.UserID, n.Type, n.Title, n.Message, n.OrderID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

func (s *NotificationStore) ByUser(ctx context.Context, userID int64, page domain.Page) ([]notification.Notification, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.OrderID, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (s *NotificationStore) UnreadCount(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireRow(res, notification.ErrNotificationNotFound)
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *NotificationStore) Delete(ctx context.Context, userID, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return requireRow(res, notification.ErrNotificationNotFound)
}

func (s *NotificationStore) Clear(ctx context.Context, userID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
