package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
)

// scriptedPrompter feeds canned answers and records every prompt and line
// printed.
type scriptedPrompter struct {
	inputs  []string
	prompts []string
	out     strings.Builder
}

func newPrompter(inputs ...string) *scriptedPrompter {
	return &scriptedPrompter{inputs: inputs}
}

func (s *scriptedPrompter) Prompt(_ context.Context, msg string) (string, error) {
	s.prompts = append(s.prompts, msg)
	if len(s.inputs) == 0 {
		return "", io.EOF
	}
	in := s.inputs[0]
	s.inputs = s.inputs[1:]
	return strings.TrimSpace(in), nil
}

func (s *scriptedPrompter) Printf(format string, args ...any) {
	fmt.Fprintf(&s.out, format, args...)
}

func (s *scriptedPrompter) Output() string {
	return s.out.String()
}

func parent(id int64) *int64 {
	return &id
}

// MockCatalog implements r.CatalogStore for testing
type MockCatalog struct {
	Shipping []string
	Roots    []domain.PaymentNode
	Children map[int64][]domain.PaymentNode
	Err      error

	ShippingCalls int
	RootCalls     int
	ChildCalls    int
}

func newMockCatalog() *MockCatalog {
	return &MockCatalog{
		Shipping: []string{"宅配", "超商取貨", "面交"},
		Roots: []domain.PaymentNode{
			{ID: 1, Name: "信用卡"},
			{ID: 2, Name: "ATM轉帳"},
			{ID: 3, Name: "現金"},
		},
		Children: map[int64][]domain.PaymentNode{
			1: {
				{ID: 4, Name: "Visa", ParentID: parent(1)},
				{ID: 5, Name: "Master", ParentID: parent(1)},
			},
		},
	}
}

func (m *MockCatalog) ListShippingMethods(_ context.Context) ([]string, error) {
	m.ShippingCalls++
	return m.Shipping, m.Err
}

func (m *MockCatalog) ListPaymentRoots(_ context.Context) ([]domain.PaymentNode, error) {
	m.RootCalls++
	return m.Roots, m.Err
}

func (m *MockCatalog) ListPaymentChildren(_ context.Context, parentID int64) ([]domain.PaymentNode, error) {
	m.ChildCalls++
	return m.Children[parentID], m.Err
}

type persistedOrder struct {
	order domain.Order
	lines []domain.OrderLine
}

// MockOrderStore implements r.OrderStore. Writes are staged per transaction
// and become visible in Persisted only on Commit.
type MockOrderStore struct {
	BeginErr       error
	InsertOrderErr error
	CommitErr      error
	RollbackErr    error
	// FailLineAt makes InsertOrderLines fail on the line with this index
	// after the earlier lines were staged. Negative disables it.
	FailLineAt int
	LineErr    error

	nextID    int64
	Persisted map[int64]persistedOrder
	LastTx    *MockOrderTx
}

func newMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		FailLineAt: -1,
		nextID:     100,
		Persisted:  make(map[int64]persistedOrder),
	}
}

func (m *MockOrderStore) BeginOrderTx(_ context.Context) (r.OrderTx, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.LastTx = &MockOrderTx{store: m}
	return m.LastTx, nil
}

type MockOrderTx struct {
	store      *MockOrderStore
	staged     *persistedOrder
	Committed  bool
	RolledBack bool
}

func (t *MockOrderTx) InsertOrder(_ context.Context, order *domain.Order) (int64, error) {
	if t.store.InsertOrderErr != nil {
		return 0, t.store.InsertOrderErr
	}
	t.store.nextID++
	o := *order
	o.ID = t.store.nextID
	t.staged = &persistedOrder{order: o}
	return o.ID, nil
}

func (t *MockOrderTx) InsertOrderLines(_ context.Context, orderID int64, lines []domain.OrderLine) error {
	for i, l := range lines {
		if i == t.store.FailLineAt {
			return fmt.Errorf("insert order line for product %d: %w", l.ProductID, t.store.LineErr)
		}
		l.OrderID = orderID
		t.staged.lines = append(t.staged.lines, l)
	}
	return nil
}

func (t *MockOrderTx) Commit() error {
	if t.store.CommitErr != nil {
		return t.store.CommitErr
	}
	t.Committed = true
	t.store.Persisted[t.staged.order.ID] = *t.staged
	return nil
}

func (t *MockOrderTx) Rollback() error {
	if t.Committed {
		return nil
	}
	t.RolledBack = true
	t.staged = nil
	return t.store.RollbackErr
}
