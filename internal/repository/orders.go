package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
)

// BeginOrderTx opens a transaction on its own pooled connection, separate
// from the connections serving catalog reads.
func (r *Repository) BeginOrderTx(ctx context.Context) (OrderTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	return &orderTx{tx: tx}, nil
}

type orderTx struct {
	tx *sql.Tx
}

func (o *orderTx) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	query := `INSERT INTO orders (customer_id, total_amount, shipping_method, payment_method,
	          recipient_name, recipient_address, recipient_phone)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	var id int64
	err := o.tx.QueryRowContext(ctx, query,
		order.CustomerID,
		order.TotalAmount,
		order.ShippingMethod,
		order.PaymentMethod,
		order.Recipient.Name,
		order.Recipient.Address,
		order.Recipient.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", classify(err))
	}
	return id, nil
}

func (o *orderTx) InsertOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error {
	stmt, err := o.tx.PrepareContext(ctx,
		`INSERT INTO order_lines (order_id, product_id, quantity, price_at_purchase) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare order line insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err := stmt.ExecContext(ctx, orderID, l.ProductID, l.Quantity, l.PriceAtPurchase); err != nil {
			return fmt.Errorf("insert order line for product %d: %w", l.ProductID, classify(err))
		}
	}
	return nil
}

func (o *orderTx) Commit() error {
	if err := o.tx.Commit(); err != nil {
		return fmt.Errorf("commit order transaction: %w", classify(err))
	}
	return nil
}

func (o *orderTx) Rollback() error {
	return o.tx.Rollback()
}

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, customer_id, order_date, total_amount, shipping_method, payment_method,
	          recipient_name, recipient_address, recipient_phone
	          FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	query := `SELECT id, customer_id, order_date, total_amount, shipping_method, payment_method,
	          recipient_name, recipient_address, recipient_phone
	          FROM orders WHERE customer_id = $1 ORDER BY order_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by customer id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *Repository) ListOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	query := `SELECT ol.order_id, ol.product_id, p.name, ol.quantity, ol.price_at_purchase
	          FROM order_lines ol JOIN products p ON p.id = ol.product_id
	          WHERE ol.order_id = $1 ORDER BY ol.product_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o       domain.Order
		ordered timestamp
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&ordered,
		&o.TotalAmount,
		&o.ShippingMethod,
		&o.PaymentMethod,
		&o.Recipient.Name,
		&o.Recipient.Address,
		&o.Recipient.Phone,
	)
	if err != nil {
		return nil, err
	}
	o.OrderDate = ordered.Time
	return &o, nil
}
