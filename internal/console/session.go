package console

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/internal/service"
	"github.com/lk26129226creator/Shopmenu2/pkg/logger"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type Checkout interface {
	Run(ctx context.Context, cart *domain.Cart, customerID int64) (*service.Result, error)
}

// Session is one logged-in customer at the shop menu. It owns the cart for
// as long as the session lives.
type Session struct {
	io         service.Prompter
	catalog    Catalog
	checkout   Checkout
	orders     r.OrderReader
	customerID int64
	cart       *domain.Cart
	log        *logger.Logger
}

func NewSession(p service.Prompter, catalog Catalog, checkout Checkout, orders r.OrderReader, customerID int64, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		io:         p,
		catalog:    catalog,
		checkout:   checkout,
		orders:     orders,
		customerID: customerID,
		cart:       domain.NewCart(),
		log:        log,
	}
}

func (s *Session) Cart() *domain.Cart {
	return s.cart
}

// Run shows the main menu until the user quits or the input ends.
func (s *Session) Run(ctx context.Context) error {
	err := s.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) mainMenu(ctx context.Context) error {
	for {
		s.io.Printf("\n=== Shop menu ===\n")
		s.io.Printf("1. Browse products\n")
		s.io.Printf("2. View cart (%d items)\n", s.cart.Len())
		s.io.Printf("3. My orders\n")
		s.io.Printf("0. Quit\n")

		input, err := s.io.Prompt(ctx, "Enter option: ")
		if err != nil {
			return err
		}

		switch input {
		case "1":
			err = s.browse(ctx)
		case "2":
			err = s.cartScreen(ctx)
		case "3":
			err = s.myOrders(ctx)
		case "0":
			s.io.Printf("Goodbye.\n")
			return nil
		default:
			s.io.Printf("Invalid option.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) browse(ctx context.Context) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.io.Printf("Unable to load products: %v\n", err)
		return nil
	}

	s.io.Printf("\n=== Products ===\n")
	for _, p := range products {
		s.io.Printf("%d. %s $%d\n", p.ID, p.Name, p.Price)
	}

	for {
		input, err := s.io.Prompt(ctx, "\nEnter product ID and quantity (e.g. 2 3), or M to return: ")
		if err != nil {
			return err
		}
		if strings.EqualFold(input, "M") {
			return nil
		}

		id, qty, ok := parseIDQty(input, 1)
		if !ok {
			s.io.Printf("Invalid input, enter a product ID and an optional quantity.\n")
			continue
		}
		if qty < 1 {
			s.io.Printf("Quantity must be at least 1.\n")
			continue
		}

		p, err := s.catalog.GetProduct(ctx, id)
		if errors.Is(err, r.ErrProductNotFound) {
			s.io.Printf("Product %d not found.\n", id)
			continue
		}
		if err != nil {
			s.io.Printf("Unable to load product %d: %v\n", id, err)
			continue
		}

		s.cart.Add(*p, qty)
		s.io.Printf("Added %s x %d to cart.\n", p.Name, qty)
	}
}

func (s *Session) cartScreen(ctx context.Context) error {
	for {
		if s.cart.IsEmpty() {
			s.io.Printf("\nYour cart is empty.\n")
			return nil
		}

		s.io.Printf("\n=== Cart ===\n")
		for l := range s.cart.Lines() {
			s.io.Printf("%d. %s x %d = $%d\n", l.ProductID, l.Name, l.Quantity, l.Subtotal())
		}
		s.io.Printf("Total: $%d\n", s.cart.Total())

		input, err := s.io.Prompt(ctx, "\nEnter product ID and quantity to remove, ++ to check out, or M to return: ")
		if err != nil {
			return err
		}

		switch {
		case strings.EqualFold(input, "M"):
			return nil
		case input == "++":
			res, err := s.checkout.Run(ctx, s.cart, s.customerID)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return err
				}
				s.log.Error(logger.Fields{CustomerID: s.customerID, Status: "checkout_failed", Error: err.Error()})
				continue
			}
			if res.Status == service.StatusCancelled && res.ReturnTo == service.ReturnToCart {
				continue
			}
			return nil
		default:
			id, qty, ok := parseIDQty(input, 0)
			if !ok || qty < 1 {
				s.io.Printf("Invalid input, enter a product ID and the quantity to remove.\n")
				continue
			}
			line, found := s.cart.RemoveQuantity(id, qty)
			if !found {
				s.io.Printf("Product %d is not in your cart.\n", id)
				continue
			}
			s.io.Printf("Removed %d x %s.\n", min(qty, line.Quantity), line.Name)
		}
	}
}

func (s *Session) myOrders(ctx context.Context) error {
	orders, err := s.orders.ListOrdersByCustomer(ctx, s.customerID)
	if err != nil {
		s.io.Printf("Unable to load orders: %v\n", err)
		return nil
	}
	if len(orders) == 0 {
		s.io.Printf("\nYou have no orders yet.\n")
		return nil
	}

	s.io.Printf("\n=== My orders ===\n")
	for _, o := range orders {
		s.io.Printf("\nOrder #%d  %s  $%d\n", o.ID, o.OrderDate.Format("2006-01-02 15:04"), o.TotalAmount)
		s.io.Printf("  %s / %s, to %s\n", o.ShippingMethod, o.PaymentMethod, o.Recipient.Name)

		lines, err := s.orders.ListOrderLines(ctx, o.ID)
		if err != nil {
			s.io.Printf("  Unable to load lines: %v\n", err)
			continue
		}
		for _, l := range lines {
			s.io.Printf("  - %s x %d @ $%d\n", l.ProductName, l.Quantity, l.PriceAtPurchase)
		}
	}
	return nil
}

// parseIDQty accepts "<id>" or "<id> <qty>". A missing quantity yields
// defaultQty.
func parseIDQty(input string, defaultQty int) (int64, int, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	qty := defaultQty
	if len(fields) == 2 {
		qty, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, false
		}
	}
	return id, qty, true
}
