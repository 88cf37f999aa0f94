package service

import (
	"context"
	"time"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
	"github.com/lk26129226creator/Shopmenu2/pkg/logger"
)

type Committer interface {
	Commit(ctx context.Context, req CommitRequest) (int64, error)
}

type CheckoutWizard struct {
	catalog   r.CatalogStore
	committer Committer
	io        Prompter
	policy    PaymentPolicy
	log       *logger.Logger
}

func NewCheckoutWizard(catalog r.CatalogStore, committer Committer, io Prompter, policy PaymentPolicy, log *logger.Logger) *CheckoutWizard {
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutWizard{
		catalog:   catalog,
		committer: committer,
		io:        io,
		policy:    policy,
		log:       log,
	}
}

// checkoutRun owns the state of a single Run call. The resolver, and with it
// the payment tree cache, is discarded together with the run.
type checkoutRun struct {
	w        *CheckoutWizard
	cc       *CheckoutContext
	resolver *PaymentResolver
}

type stepFunc func(run *checkoutRun, ctx context.Context) (Step, error)

var transitions = map[Step]stepFunc{
	StepSelectShipping:        (*checkoutRun).selectShipping,
	StepSelectPayment:         (*checkoutRun).selectPayment,
	StepEnterRecipientName:    (*checkoutRun).enterRecipientName,
	StepEnterRecipientAddress: (*checkoutRun).enterRecipientAddress,
	StepEnterRecipientPhone:   (*checkoutRun).enterRecipientPhone,
	StepConfirm:               (*checkoutRun).confirm,
}

// Run drives one checkout for cart. The cart is cleared only after the
// order has been committed; every other outcome leaves it untouched.
func (w *CheckoutWizard) Run(ctx context.Context, cart *domain.Cart, customerID int64) (*Result, error) {
	if cart == nil || cart.IsEmpty() {
		w.io.Printf("Your cart is empty, nothing to check out.\n")
		return w.failed(nil, ErrEmptyCart)
	}
	if customerID <= 0 {
		w.io.Printf("No customer is logged in, please log in again.\n")
		return w.failed(nil, ErrNoCustomer)
	}

	run := &checkoutRun{
		w:        w,
		cc:       newCheckoutContext(customerID, cart),
		resolver: NewPaymentResolver(w.catalog, w.io, w.policy),
	}
	cc := run.cc
	w.log.Info(logger.Fields{
		SessionID:  cc.SessionID,
		CustomerID: cc.CustomerID,
		Status:     "checkout_started",
	})
	w.printLines(cc)

	for !cc.Step.IsTerminal() {
		handler := transitions[cc.Step]
		next, err := handler(run, ctx)
		if err != nil {
			return w.failed(cc, err)
		}
		if next != cc.Step {
			w.log.Debug(logger.Fields{
				SessionID: cc.SessionID,
				Step:      cc.Step.String(),
				Message:   "-> " + next.String(),
			})
		}
		cc.Step = next
	}

	if cc.Step == StepCancelled {
		w.log.Info(logger.Fields{SessionID: cc.SessionID, Status: "checkout_cancelled"})
		return &Result{Status: StatusCancelled, ReturnTo: cc.returnTo, Total: cc.Total}, nil
	}

	start := time.Now()
	orderID, err := w.committer.Commit(ctx, cc.commitRequest())
	if err != nil {
		w.io.Printf("Order processing failed, the order was not placed. Your cart has been kept.\n")
		return w.failed(cc, err)
	}
	cart.Clear()
	w.log.Info(logger.Fields{
		SessionID:  cc.SessionID,
		CustomerID: cc.CustomerID,
		OrderID:    orderID,
		Status:     "checkout_committed",
		DurationMS: logger.Since(start),
	})
	w.io.Printf("\nThank you for your purchase! Order #%d has been placed.\n", orderID)
	return &Result{Status: StatusCommitted, OrderID: orderID, Total: cc.Total}, nil
}

func (w *CheckoutWizard) failed(cc *CheckoutContext, err error) (*Result, error) {
	f := logger.Fields{Status: "checkout_failed", Error: err.Error()}
	res := &Result{Status: StatusFailed, Err: err}
	if cc != nil {
		f.SessionID = cc.SessionID
		f.CustomerID = cc.CustomerID
		f.Step = cc.Step.String()
		res.Total = cc.Total
	}
	w.log.Error(f)
	return res, err
}

func (w *CheckoutWizard) printLines(cc *CheckoutContext) {
	w.io.Printf("\n=== Checkout ===\n")
	for _, l := range cc.Lines {
		w.io.Printf("%d. %s x %d = $%d\n", l.ProductID, l.Name, l.Quantity, l.Subtotal())
	}
	w.io.Printf("Total: $%d\n", cc.Total)
}

func (run *checkoutRun) selectShipping(ctx context.Context) (Step, error) {
	methods, err := run.w.catalog.ListShippingMethods(ctx)
	if err != nil {
		return run.cc.Step, err
	}
	if len(methods) == 0 {
		run.w.io.Printf("No shipping method is available, please contact the administrator.\n")
		return run.cc.Step, ErrNoShippingMethods
	}

	idx, back, err := choose(ctx, run.w.io, menu{
		title:     "Select a shipping method:",
		options:   methods,
		backKey:   "M",
		backLabel: "Return to main menu",
		prompt:    "Enter option: ",
	})
	if err != nil {
		return run.cc.Step, err
	}
	if back {
		run.cc.returnTo = ReturnToMenu
		return StepCancelled, nil
	}

	run.cc.ShippingMethod = methods[idx]
	run.cc.PaymentMethod = ""
	return StepSelectPayment, nil
}

func (run *checkoutRun) selectPayment(ctx context.Context) (Step, error) {
	res, err := run.resolver.Resolve(ctx, run.cc.ShippingMethod)
	if err != nil {
		return run.cc.Step, err
	}
	if res.Cancelled {
		return StepSelectShipping, nil
	}
	run.cc.PaymentMethod = res.Method
	return StepEnterRecipientName, nil
}

func (run *checkoutRun) enterRecipientName(ctx context.Context) (Step, error) {
	return run.textField(ctx, "\nRecipient name (B to change payment method): ",
		&run.cc.Recipient.Name, StepSelectPayment, StepEnterRecipientAddress)
}

func (run *checkoutRun) enterRecipientAddress(ctx context.Context) (Step, error) {
	return run.textField(ctx, "Recipient address, or meeting place for in-person handoff (B to go back): ",
		&run.cc.Recipient.Address, StepEnterRecipientName, StepEnterRecipientPhone)
}

func (run *checkoutRun) enterRecipientPhone(ctx context.Context) (Step, error) {
	return run.textField(ctx, "Contact phone (B to go back): ",
		&run.cc.Recipient.Phone, StepEnterRecipientAddress, StepConfirm)
}

func (run *checkoutRun) textField(ctx context.Context, prompt string, field *string, prev, next Step) (Step, error) {
	input, err := run.w.io.Prompt(ctx, prompt)
	if err != nil {
		return run.cc.Step, err
	}
	if isKey(input, "B") {
		return prev, nil
	}
	if input == "" {
		run.w.io.Printf("This field is required.\n")
		return run.cc.Step, nil
	}
	*field = input
	return next, nil
}

func (run *checkoutRun) confirm(ctx context.Context) (Step, error) {
	cc := run.cc
	io := run.w.io
	io.Printf("\n=== Order summary (please confirm) ===\n")
	io.Printf("Total: $%d\n", cc.Total)
	io.Printf("Payment method: %s\n", cc.PaymentMethod)
	io.Printf("Shipping method: %s\n", cc.ShippingMethod)
	io.Printf("Recipient: %s\n", cc.Recipient.Name)
	io.Printf("Address: %s\n", cc.Recipient.Address)
	io.Printf("Phone: %s\n", cc.Recipient.Phone)

	for {
		input, err := io.Prompt(ctx, "\nY place order / N re-enter details / B back to cart: ")
		if err != nil {
			return cc.Step, err
		}
		switch {
		case isKey(input, "Y"):
			return StepCommitted, nil
		case isKey(input, "N"):
			cc.Recipient = domain.Recipient{}
			return StepEnterRecipientName, nil
		case isKey(input, "B"):
			cc.returnTo = ReturnToCart
			return StepCancelled, nil
		default:
			io.Printf("Please enter Y, N or B.\n")
		}
	}
}
