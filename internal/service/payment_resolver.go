package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
)

// PaymentPolicy pairs the in-person shipping method with the cash payment
// roots. In-person handoff accepts cash only; every other shipping method
// excludes cash.
type PaymentPolicy struct {
	InPersonShipping string
	CashMethods      []string
}

func DefaultPaymentPolicy() PaymentPolicy {
	return PaymentPolicy{
		InPersonShipping: "面交",
		CashMethods:      []string{"現金", "cash"},
	}
}

func (p PaymentPolicy) IsCash(name string) bool {
	for _, c := range p.CashMethods {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}

func (p PaymentPolicy) Allows(shippingMethod string, root domain.PaymentNode) bool {
	return p.IsCash(root.Name) == (shippingMethod == p.InPersonShipping)
}

// Resolution is either a concrete payment method name or a request to go
// back to shipping selection.
type Resolution struct {
	Method    string
	Cancelled bool
}

// PaymentResolver walks the two-level payment tree. Lookups are cached for
// the resolver's lifetime, which is one checkout run.
type PaymentResolver struct {
	catalog r.CatalogStore
	io      Prompter
	policy  PaymentPolicy

	roots    []domain.PaymentNode
	loaded   bool
	children map[int64][]domain.PaymentNode
}

func NewPaymentResolver(catalog r.CatalogStore, io Prompter, policy PaymentPolicy) *PaymentResolver {
	return &PaymentResolver{
		catalog:  catalog,
		io:       io,
		policy:   policy,
		children: make(map[int64][]domain.PaymentNode),
	}
}

// RootsFor returns the root payment nodes selectable for shippingMethod.
func (pr *PaymentResolver) RootsFor(ctx context.Context, shippingMethod string) ([]domain.PaymentNode, error) {
	if !pr.loaded {
		roots, err := pr.catalog.ListPaymentRoots(ctx)
		if err != nil {
			return nil, fmt.Errorf("list payment roots: %w", err)
		}
		pr.roots = roots
		pr.loaded = true
	}

	var allowed []domain.PaymentNode
	for _, n := range pr.roots {
		if pr.policy.Allows(shippingMethod, n) {
			allowed = append(allowed, n)
		}
	}
	return allowed, nil
}

func (pr *PaymentResolver) childrenOf(ctx context.Context, parentID int64) ([]domain.PaymentNode, error) {
	if c, ok := pr.children[parentID]; ok {
		return c, nil
	}
	c, err := pr.catalog.ListPaymentChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list payment children of %d: %w", parentID, err)
	}
	pr.children[parentID] = c
	return c, nil
}

func (pr *PaymentResolver) Resolve(ctx context.Context, shippingMethod string) (Resolution, error) {
	roots, err := pr.RootsFor(ctx, shippingMethod)
	if err != nil {
		return Resolution{}, err
	}
	if len(roots) == 0 {
		pr.io.Printf("No payment method is available, please contact the administrator.\n")
		return Resolution{}, fmt.Errorf("%w: %s", ErrNoPaymentMethods, shippingMethod)
	}

	idx, back, err := choose(ctx, pr.io, menu{
		title:     "Select a payment method:",
		options:   names(roots),
		backKey:   "B",
		backLabel: "Back",
		prompt:    "Enter option: ",
	})
	if err != nil {
		return Resolution{}, err
	}
	if back {
		return Resolution{Cancelled: true}, nil
	}

	picked := roots[idx]
	children, err := pr.childrenOf(ctx, picked.ID)
	if err != nil {
		return Resolution{}, err
	}
	if len(children) == 0 {
		return Resolution{Method: picked.Name}, nil
	}

	idx, back, err = choose(ctx, pr.io, menu{
		title:     fmt.Sprintf("Select %s type:", picked.Name),
		options:   names(children),
		backKey:   "B",
		backLabel: "Back",
		prompt:    "Enter option: ",
	})
	if err != nil {
		return Resolution{}, err
	}
	if back {
		return Resolution{Cancelled: true}, nil
	}
	return Resolution{Method: children[idx].Name}, nil
}

func names(nodes []domain.PaymentNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
