package service

import (
	"github.com/google/uuid"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
)

type Step int

const (
	StepSelectShipping Step = iota
	StepSelectPayment
	StepEnterRecipientName
	StepEnterRecipientAddress
	StepEnterRecipientPhone
	StepConfirm
	StepCommitted
	StepCancelled
)

var stepNames = map[Step]string{
	StepSelectShipping:        "SELECT_SHIPPING",
	StepSelectPayment:         "SELECT_PAYMENT",
	StepEnterRecipientName:    "ENTER_RECIPIENT_NAME",
	StepEnterRecipientAddress: "ENTER_RECIPIENT_ADDRESS",
	StepEnterRecipientPhone:   "ENTER_RECIPIENT_PHONE",
	StepConfirm:               "CONFIRM",
	StepCommitted:             "COMMITTED",
	StepCancelled:             "CANCELLED",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

func (s Step) IsTerminal() bool {
	return s == StepCommitted || s == StepCancelled
}

type Status string

const (
	StatusCommitted Status = "COMMITTED"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
)

// ReturnTo tells the session layer which screen a cancelled checkout goes
// back to.
type ReturnTo int

const (
	ReturnNone ReturnTo = iota
	ReturnToMenu
	ReturnToCart
)

type Result struct {
	Status   Status
	ReturnTo ReturnTo
	OrderID  int64
	Total    int64
	Err      error
}

// CheckoutContext is the working state of exactly one checkout run.
// Total is fixed when the run starts.
type CheckoutContext struct {
	SessionID      string
	CustomerID     int64
	Lines          []domain.CartLine
	ShippingMethod string
	PaymentMethod  string
	Recipient      domain.Recipient
	Step           Step
	Total          int64

	returnTo ReturnTo
}

func newCheckoutContext(customerID int64, cart *domain.Cart) *CheckoutContext {
	return &CheckoutContext{
		SessionID:  uuid.NewString(),
		CustomerID: customerID,
		Lines:      cart.Snapshot(),
		Step:       StepSelectShipping,
		Total:      cart.Total(),
	}
}

func (c *CheckoutContext) commitRequest() CommitRequest {
	return CommitRequest{
		CustomerID:     c.CustomerID,
		Lines:          c.Lines,
		Total:          c.Total,
		ShippingMethod: c.ShippingMethod,
		PaymentMethod:  c.PaymentMethod,
		Recipient:      c.Recipient,
	}
}
