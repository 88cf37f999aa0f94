package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/internal/service"
)

type fakeCatalog struct {
	products []*domain.Product
}

func (f *fakeCatalog) ListProducts(context.Context) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, r.ErrProductNotFound
}

// fakeCheckout returns the queued results in order. A committed result
// clears the cart like the real wizard does.
type fakeCheckout struct {
	results []*service.Result
	seen    [][]domain.CartLine
}

func (f *fakeCheckout) Run(_ context.Context, cart *domain.Cart, _ int64) (*service.Result, error) {
	f.seen = append(f.seen, cart.Snapshot())
	res := f.results[0]
	f.results = f.results[1:]
	if res.Status == service.StatusCommitted {
		cart.Clear()
	}
	return res, res.Err
}

type fakeOrders struct {
	orders []*domain.Order
	lines  map[int64][]domain.OrderLine
}

func (f *fakeOrders) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, r.ErrOrderNotFound
}

func (f *fakeOrders) ListOrderLines(_ context.Context, orderID int64) ([]domain.OrderLine, error) {
	return f.lines[orderID], nil
}

func (f *fakeOrders) ListOrdersByCustomer(context.Context, int64) ([]*domain.Order, error) {
	return f.orders, nil
}

func newTestSession(input string, checkout *fakeCheckout, orders *fakeOrders) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	if orders == nil {
		orders = &fakeOrders{}
	}
	if checkout == nil {
		checkout = &fakeCheckout{}
	}
	catalog := &fakeCatalog{products: []*domain.Product{
		{ID: 1, Name: "無線滑鼠", Price: 590},
		{ID: 2, Name: "機械鍵盤", Price: 2490},
	}}
	s := NewSession(NewIO(strings.NewReader(input), &out), catalog, checkout, orders, 7, nil)
	return s, &out
}

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

func TestSession_BrowseAddsToCart(t *testing.T) {
	s, out := newTestSession(lines("1", "1 2", "2", "1", "9", "1 0", "x", "M", "0"), nil, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []domain.CartLine{
		{ProductID: 1, Name: "無線滑鼠", UnitPrice: 590, Quantity: 3},
		{ProductID: 2, Name: "機械鍵盤", UnitPrice: 2490, Quantity: 1},
	}, s.Cart().Snapshot())
	assert.Contains(t, out.String(), "Product 9 not found.")
	assert.Contains(t, out.String(), "Quantity must be at least 1.")
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestSession_CartRemovesQuantity(t *testing.T) {
	s, out := newTestSession(lines("1", "1 3", "M", "2", "1 2", "2 1", "1 5", "0"), nil, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, s.Cart().IsEmpty())
	assert.Contains(t, out.String(), "Removed 2 x 無線滑鼠.")
	assert.Contains(t, out.String(), "Product 2 is not in your cart.")
	assert.Contains(t, out.String(), "Removed 1 x 無線滑鼠.")
	assert.Contains(t, out.String(), "Your cart is empty.")
}

func TestSession_CheckoutCommittedReturnsToMenu(t *testing.T) {
	checkout := &fakeCheckout{results: []*service.Result{{Status: service.StatusCommitted, OrderID: 1}}}
	s, out := newTestSession(lines("1", "2 1", "M", "2", "++", "0"), checkout, nil)

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, checkout.seen, 1)
	assert.Equal(t, int64(2), checkout.seen[0][0].ProductID)
	assert.True(t, s.Cart().IsEmpty())
	assert.Contains(t, out.String(), "View cart (0 items)")
}

func TestSession_CheckoutBackToCartReshowsCart(t *testing.T) {
	checkout := &fakeCheckout{results: []*service.Result{
		{Status: service.StatusCancelled, ReturnTo: service.ReturnToCart},
		{Status: service.StatusCancelled, ReturnTo: service.ReturnToMenu},
	}}
	s, out := newTestSession(lines("1", "1", "M", "2", "++", "++", "0"), checkout, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Len(t, checkout.seen, 2)
	assert.Equal(t, 1, s.Cart().Len())
	assert.Equal(t, 2, strings.Count(out.String(), "=== Cart ==="))
}

func TestSession_CheckoutFailureKeepsCart(t *testing.T) {
	failure := &service.CommitError{Stage: "commit", Err: errors.New("boom")}
	checkout := &fakeCheckout{results: []*service.Result{{Status: service.StatusFailed, Err: failure}}}
	s, _ := newTestSession(lines("1", "1", "M", "2", "++", "M", "0"), checkout, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, s.Cart().Len())
}

func TestSession_MyOrdersListsLines(t *testing.T) {
	orders := &fakeOrders{
		orders: []*domain.Order{{
			ID:             12,
			OrderDate:      time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
			TotalAmount:    1180,
			ShippingMethod: "宅配",
			PaymentMethod:  "Visa",
			Recipient:      domain.Recipient{Name: "王小明"},
		}},
		lines: map[int64][]domain.OrderLine{
			12: {{OrderID: 12, ProductID: 1, ProductName: "無線滑鼠", Quantity: 2, PriceAtPurchase: 590}},
		},
	}
	s, out := newTestSession(lines("3", "0"), nil, orders)

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "Order #12  2024-05-01 10:30  $1180")
	assert.Contains(t, out.String(), "- 無線滑鼠 x 2 @ $590")
}

func TestSession_NoOrders(t *testing.T) {
	s, out := newTestSession(lines("3", "0"), nil, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "You have no orders yet.")
}

func TestSession_EndOfInputQuits(t *testing.T) {
	s, _ := newTestSession("1\n1\n", nil, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, s.Cart().Len())
}

func TestIO_PromptTrimsAndReportsEOF(t *testing.T) {
	var out bytes.Buffer
	c := NewIO(strings.NewReader("  hello  \n"), &out)

	got, err := c.Prompt(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "> ", out.String())

	_, err = c.Prompt(context.Background(), "> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestIO_PromptHonoursCancelledContext(t *testing.T) {
	c := NewIO(strings.NewReader("x\n"), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Prompt(ctx, "> ")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIDQty(t *testing.T) {
	tests := []struct {
		in     string
		id     int64
		qty    int
		wantOK bool
	}{
		{"3", 3, 1, true},
		{"3 4", 3, 4, true},
		{" 3   4 ", 3, 4, true},
		{"", 0, 0, false},
		{"a", 0, 0, false},
		{"3 b", 0, 0, false},
		{"1 2 3", 0, 0, false},
	}
	for _, tt := range tests {
		id, qty, ok := parseIDQty(tt.in, 1)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.id, id, tt.in)
			assert.Equal(t, tt.qty, qty, tt.in)
		}
	}
}
