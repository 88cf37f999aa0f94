package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
)

func (r *Repository) ListShippingMethods(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM shipping_methods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query shipping methods: %w", err)
	}
	defer rows.Close()

	var methods []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan shipping method: %w", err)
		}
		methods = append(methods, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return methods, nil
}

func (r *Repository) ListPaymentRoots(ctx context.Context) ([]domain.PaymentNode, error) {
	return r.queryPaymentNodes(ctx,
		`SELECT id, name, parent_id FROM payment_methods WHERE parent_id IS NULL ORDER BY id`)
}

func (r *Repository) ListPaymentChildren(ctx context.Context, parentID int64) ([]domain.PaymentNode, error) {
	return r.queryPaymentNodes(ctx,
		`SELECT id, name, parent_id FROM payment_methods WHERE parent_id = $1 ORDER BY id`, parentID)
}

func (r *Repository) queryPaymentNodes(ctx context.Context, query string, args ...any) ([]domain.PaymentNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var nodes []domain.PaymentNode
	for rows.Next() {
		var (
			n      domain.PaymentNode
			parent sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Name, &parent); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		if parent.Valid {
			id := parent.Int64
			n.ParentID = &id
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return nodes, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, category, price, created_at
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		var created timestamp
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &created); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.CreatedAt = created.Time
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, category, price, created_at
		FROM products
		WHERE id = $1
	`

	p := &domain.Product{}
	var created timestamp
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	p.CreatedAt = created.Time
	return p, nil
}
