package cache

import (
	"context"
	"errors"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
)

// CatalogCache holds the product listing shown by the browse screen.
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]*domain.Product, error)
	SetProducts(ctx context.Context, products []*domain.Product) error
	Invalidate(ctx context.Context) error
}

var (
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) GetProducts(context.Context) ([]*domain.Product, error) { return nil, ErrCacheMiss }

func (Noop) SetProducts(context.Context, []*domain.Product) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
