package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/multimart/internal/coupon"
	"github.com/example/multimart/internal/domain"
	"github.com/example/multimart/internal/order"
)

// OrderStore persists orders in PostgreSQL. Create and Cancel are the two
// transactions that keep order rows and product stock consistent.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new order store.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create writes the order header and items and decrements stock in one
// transaction. Each decrement is guarded by a stock >= quantity predicate, so
// a concurrent order that drained the product makes this one roll back with
// ErrInsufficientStock instead of committing an oversell. The coupon usage
// increment rides in the same transaction with its own limit guard.
func (s *OrderStore) Create(ctx context.Context, o *order.Order, couponID int64) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var orderID int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, total_amount, shipping_address, payment_method,
				payment_status, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			o.UserID, o.TotalAmount, o.ShippingAddress, o.PaymentMethod,
			o.PaymentStatus, o.Status, o.Notes,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range o.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price)
				VALUES ($1, $2, $3, $4)`,
				orderID, item.ProductID, item.Quantity, item.Price,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}

			res, err := tx.ExecContext(ctx, `
				UPDATE products SET stock = stock - $1
				WHERE id = $2 AND stock >= $1`,
				item.Quantity, item.ProductID,
			)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return order.ErrInsufficientStock
			}
		}

		if couponID != 0 {
			res, err := tx.ExecContext(ctx, `
				UPDATE coupons SET usage_count = usage_count + 1
				WHERE id = $1 AND (usage_limit = 0 OR usage_count < usage_limit)`,
				couponID,
			)
			if err != nil {
				return fmt.Errorf("redeem coupon: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return coupon.ErrLimitReached
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// Cancel restores each item's stock and marks the order cancelled in one
// transaction. The status row is locked first so two concurrent cancellations,
// or a cancellation racing a shipment, cannot both proceed.
func (s *OrderStore) Cancel(ctx context.Context, orderID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return order.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if !order.Cancellable(status) {
			return order.ErrCannotCancel
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products p SET stock = p.stock + oi.quantity
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id`,
			orderID,
		)
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = $1 WHERE id = $2`,
			order.StatusCancelled, orderID,
		)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		return nil
	})
}

func (s *OrderStore) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRow(res, order.ErrOrderNotFound)
}

func (s *OrderStore) MarkPaid(ctx context.Context, orderID int64, transactionID string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, transaction_id = $2 WHERE id = $3`,
		order.PaymentPaid, transactionID, orderID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return requireRow(res, order.ErrOrderNotFound)
}

func (s *OrderStore) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var o order.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.user_id, o.total_amount, o.shipping_address, o.payment_method,
			o.payment_status, o.transaction_id, o.status, o.notes, o.created_at,
			u.full_name, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, id,
	).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress, &o.PaymentMethod,
		&o.PaymentStatus, &o.TransactionID, &o.Status, &o.Notes, &o.CreatedAt,
		&o.UserName, &o.UserEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	items, err := s.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderStore) itemsFor(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := []order.Item{}
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *OrderStore) ByUser(ctx context.Context, userID int64, status string, page domain.Page) ([]order.Order, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	where := ` WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, total_amount, shipping_address, payment_method,
			payment_status, transaction_id, status, notes, created_at
		FROM orders%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress,
			&o.PaymentMethod, &o.PaymentStatus, &o.TransactionID, &o.Status,
			&o.Notes, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := s.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

// Stats aggregates order counts and paid revenue. A non-zero vendorID scopes
// the aggregate to orders containing at least one of that vendor's products.
func (s *OrderStore) Stats(ctx context.Context, vendorID int64) (*order.Stats, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE o.status = 'pending'),
			COUNT(*) FILTER (WHERE o.status = 'processing'),
			COUNT(*) FILTER (WHERE o.status = 'shipped'),
			COUNT(*) FILTER (WHERE o.status = 'delivered'),
			COUNT(*) FILTER (WHERE o.status = 'cancelled'),
			COALESCE(SUM(o.total_amount) FILTER (WHERE o.payment_status = 'paid'), 0)
		FROM orders o`
	args := []any{}
	if vendorID != 0 {
		query += `
		WHERE EXISTS (
			SELECT 1 FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = o.id AND p.vendor_id = $1
		)`
		args = append(args, vendorID)
	}

	var st order.Stats
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&st.TotalOrders, &st.PendingOrders, &st.ProcessingOrders,
		&st.ShippedOrders, &st.DeliveredOrders, &st.CancelledOrders,
		&st.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	return &st, nil
}

// HasDeliveredOrder reports whether the user has a delivered order containing
// the product. Review eligibility hangs off this.
func (s *OrderStore) HasDeliveredOrder(ctx context.Context, userID, productID int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status = $3
		)`, userID, productID, order.StatusDelivered,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check delivered order: %w", err)
	}
	return exists, nil
}
