package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/pkg/logger"
)

type CommitRequest struct {
	CustomerID     int64
	Lines          []domain.CartLine
	Total          int64
	ShippingMethod string
	PaymentMethod  string
	Recipient      domain.Recipient
}

// OrderCommitter writes an order header and its lines in one transaction.
// It never retries; a failed commit is rolled back and returned as a
// *CommitError.
type OrderCommitter struct {
	store r.OrderStore
	log   *logger.Logger
}

func NewOrderCommitter(store r.OrderStore, log *logger.Logger) *OrderCommitter {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderCommitter{store: store, log: log}
}

func (c *OrderCommitter) Commit(ctx context.Context, req CommitRequest) (int64, error) {
	if len(req.Lines) == 0 {
		return 0, newCommitError("validate", ErrEmptyCart)
	}

	start := time.Now()
	tx, err := c.store.BeginOrderTx(ctx)
	if err != nil {
		return 0, newCommitError("begin", err)
	}

	orderID, err := tx.InsertOrder(ctx, &domain.Order{
		CustomerID:     req.CustomerID,
		TotalAmount:    req.Total,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		Recipient:      req.Recipient,
	})
	if err != nil {
		return 0, c.abort(tx, "insert order", err)
	}

	if err := tx.InsertOrderLines(ctx, orderID, domain.OrderLinesFromCart(orderID, req.Lines)); err != nil {
		return 0, c.abort(tx, "insert order lines", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, c.abort(tx, "commit", err)
	}

	c.log.Info(logger.Fields{
		CustomerID: req.CustomerID,
		OrderID:    orderID,
		Status:     "order_committed",
		DurationMS: logger.Since(start),
		Message:    fmt.Sprintf("%d lines", len(req.Lines)),
	})
	return orderID, nil
}

func (c *OrderCommitter) abort(tx r.OrderTx, stage string, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
	}
	ce := newCommitError(stage, err)
	c.log.Error(logger.Fields{
		Status: "order_rolled_back",
		Step:   stage,
		Error:  err.Error(),
	})
	return ce
}
