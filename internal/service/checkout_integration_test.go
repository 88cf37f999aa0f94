package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
)

func setupSQLite(t *testing.T) *r.Repository {
	repo, err := r.NewRepository(&r.Credentials{
		Driver: r.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "checkout.db"),
	})
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCheckout_SQLiteRoundTrip(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	mouse, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	cable, err := repo.GetProduct(ctx, 3)
	require.NoError(t, err)

	cart := domain.NewCart()
	cart.Add(*mouse, 2)
	cart.Add(*cable, 1)

	p := newPrompter("1", "1", "2", "王小明", "台北市信義區市府路1號", "0912345678", "Y")
	wizard := NewCheckoutWizard(repo, NewOrderCommitter(repo, nil), p, DefaultPaymentPolicy(), nil)

	res, err := wizard.Run(ctx, cart, 5)
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, res.Status)
	assert.True(t, cart.IsEmpty())

	order, err := repo.GetOrderByID(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.CustomerID)
	assert.Equal(t, int64(590*2+290), order.TotalAmount)
	assert.Equal(t, "宅配", order.ShippingMethod)
	assert.Equal(t, "Master", order.PaymentMethod)
	assert.Equal(t, "王小明", order.Recipient.Name)

	lines, err := repo.ListOrderLines(ctx, res.OrderID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(590), lines[0].PriceAtPurchase)
	assert.Equal(t, int64(3), lines[1].ProductID)
	assert.Equal(t, int64(290), lines[1].PriceAtPurchase)
}

func TestCheckout_SQLiteFailedLineLeavesNothing(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	cart := domain.NewCart()
	cart.Add(domain.Product{ID: 1, Name: "無線滑鼠", Price: 590}, 1)
	cart.Add(domain.Product{ID: 2, Name: "機械鍵盤", Price: -1}, 1)

	p := newPrompter("2", "2", "n", "a", "p", "Y")
	wizard := NewCheckoutWizard(repo, NewOrderCommitter(repo, nil), p, DefaultPaymentPolicy(), nil)

	res, err := wizard.Run(ctx, cart, 6)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 2, cart.Len())

	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "insert order lines", ce.Stage)
	assert.True(t, ce.Constraint)

	orders, err := repo.ListOrdersByCustomer(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
