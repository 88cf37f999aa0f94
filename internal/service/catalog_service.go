package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lk26129226creator/Shopmenu2/internal/cache"
	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/pkg/logger"
)

// CatalogService serves the product listing for the browse screen through
// a read-through cache.
type CatalogService struct {
	repo  r.ProductStore
	cache cache.CatalogCache
	sfg   singleflight.Group
	log   *logger.Logger
}

func NewCatalogService(repo r.ProductStore, c cache.CatalogCache, log *logger.Logger) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogService{repo: repo, cache: c, log: log}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		products, err := s.cache.GetProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Error(logger.Fields{Status: "cache_get_failed", Error: err.Error()})
		}

		products, err = s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if errSet := s.cache.SetProducts(setCtx, products); errSet != nil {
			s.log.Error(logger.Fields{Status: "cache_set_failed", Error: errSet.Error()})
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Product), nil
}

// GetProduct always reads the store so the price added to the cart is
// current.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Error(logger.Fields{Status: "cache_invalidate_failed", Error: err.Error()})
	}
}
