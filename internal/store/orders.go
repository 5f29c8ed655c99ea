package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cuddles47/electroshop/internal/events"
	"github.com/cuddles47/electroshop/internal/models"
)

// EventsTopic is the outbox topic order events are recorded under.
const EventsTopic = "order-events"

type LineItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrder persists an order, its line items, and the matching stock
// decrements as a single transaction. Stock is taken with a conditional
// update, so two concurrent checkouts cannot oversell: the later one
// sees zero affected rows and the whole order is rolled back.
//
// The submitted total is checked against prices read inside the same
// transaction; the client-side figure is never trusted.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []LineItemInput, idemKey string) (*models.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var computed int64
	for _, it := range items {
		var price int64
		err := tx.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, it.ProductID).Scan(&price)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrProductNotFound)
		}
		if err != nil {
			return nil, err
		}
		computed += price * int64(it.Quantity)
	}
	if computed != order.Total {
		return nil, ErrTotalMismatch
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.Status = models.StatusPending
	order.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customer_orders
			(id, name, lastname, phone, email, company, adress, apartment,
			 postal_code, city, country, order_notice, payment_method,
			 payment_status, status, tracking_number, total, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Name, order.Lastname, order.Phone, order.Email,
		order.Company, order.Address, order.Apartment, order.PostalCode,
		order.City, order.Country, order.OrderNotice, order.PaymentMethod,
		order.PaymentStatus, order.Status, order.TrackingNumber,
		order.Total, order.UserID, order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_products (order_id, product_id, quantity) VALUES (?, ?, ?)`,
			order.ID, it.ProductID, it.Quantity,
		)
		if err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE products SET in_stock = in_stock - ? WHERE id = ? AND in_stock >= ?`,
			it.Quantity, it.ProductID, it.Quantity,
		)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrInsufficientStock)
		}
	}

	if idemKey != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_idempotency (idempotency_key, order_id) VALUES (?, ?)`,
			idemKey, order.ID,
		)
		if isUniqueViolation(err) {
			// Lost a race against a concurrent request carrying the
			// same key; the caller replays the winner's order.
			return nil, ErrIdempotencyConflict
		}
		if err != nil {
			return nil, err
		}
	}

	ev := events.Event{
		EventID:   uuid.NewString(),
		OrderID:   order.ID,
		Type:      events.EventOrderCreated,
		CreatedAt: order.CreatedAt,
		Payload:   map[string]any{"total": order.Total, "items": len(items)},
	}
	if err := appendOutbox(ctx, tx, EventsTopic, ev); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrderByID(ctx, order.ID)
}

func (s *Store) GetOrderIDByIdempotencyKey(ctx context.Context, key string) (string, error) {
	var orderID string
	err := s.DB.QueryRowContext(ctx,
		`SELECT order_id FROM order_idempotency WHERE idempotency_key = ?`, key).Scan(&orderID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return orderID, nil
}

const orderColumns = `id, name, lastname, phone, email, company, adress, apartment,
	postal_code, city, country, order_notice, payment_method, payment_status,
	status, tracking_number, total, user_id, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.Name, &o.Lastname, &o.Phone, &o.Email,
		&o.Company, &o.Address, &o.Apartment, &o.PostalCode, &o.City,
		&o.Country, &o.OrderNotice, &o.PaymentMethod, &o.PaymentStatus,
		&o.Status, &o.TrackingNumber, &o.Total, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM customer_orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadLineItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetAllOrders returns every order, newest first.
func (s *Store) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM customer_orders ORDER BY created_at DESC`)
}

// GetOrdersByUser returns one user's orders, newest first.
func (s *Store) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM customer_orders WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadLineItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) loadLineItems(ctx context.Context, order *models.Order) error {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT op.id, op.order_id, op.product_id, op.quantity,
		       p.id, p.title, p.price, p.in_stock
		FROM order_products op
		JOIN products p ON op.product_id = p.id
		WHERE op.order_id = ?
		ORDER BY op.id`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderProduct
		var p models.Product
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&p.ID, &p.Title, &p.Price, &p.InStock); err != nil {
			return err
		}
		item.Product = &p
		order.Products = append(order.Products, item)
	}
	return rows.Err()
}

type OrderUpdate struct {
	Status         *models.OrderStatus
	PaymentStatus  *string
	TrackingNumber *string
}

// UpdateOrder applies an admin mutation. Status writes are checked
// against the fulfillment transition table and a status_changed event
// is recorded in the same transaction.
func (s *Store) UpdateOrder(ctx context.Context, id string, upd OrderUpdate) (*models.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current models.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM customer_orders WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		next := *upd.Status
		if !next.Valid() || !current.CanTransition(next) {
			return nil, fmt.Errorf("%s -> %s: %w", current, next, ErrInvalidTransition)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE customer_orders SET status = ? WHERE id = ?`, next, id); err != nil {
			return nil, err
		}
		if next != current {
			ev := events.Event{
				EventID:   uuid.NewString(),
				OrderID:   id,
				Type:      events.EventOrderStatusChanged,
				CreatedAt: time.Now().UTC(),
				Payload:   map[string]any{"from": string(current), "to": string(next)},
			}
			if err := appendOutbox(ctx, tx, EventsTopic, ev); err != nil {
				return nil, err
			}
		}
	}
	if upd.PaymentStatus != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE customer_orders SET payment_status = ? WHERE id = ?`, *upd.PaymentStatus, id); err != nil {
			return nil, err
		}
	}
	if upd.TrackingNumber != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE customer_orders SET tracking_number = ? WHERE id = ?`, *upd.TrackingNumber, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrderByID(ctx, id)
}

// DeleteOrder removes an order and everything owned by it. Line items
// go first so the referential constraints hold at every step.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_products WHERE order_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_idempotency WHERE order_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM customer_orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return tx.Commit()
}
