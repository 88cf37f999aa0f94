package service

import (
	"errors"
	"fmt"

	r "github.com/lk26129226creator/Shopmenu2/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrNoCustomer        = errors.New("no logged-in customer for checkout")
	ErrNoShippingMethods = errors.New("no shipping methods available")
	ErrNoPaymentMethods  = errors.New("no payment methods available for shipping method")
	ErrCommitFailed      = errors.New("order commit failed")
)

// CommitError reports which stage of the order write failed. The
// transaction has always been rolled back by the time it is returned.
type CommitError struct {
	Stage      string
	Constraint bool
	Err        error
}

func newCommitError(stage string, err error) *CommitError {
	return &CommitError{
		Stage:      stage,
		Constraint: errors.Is(err, r.ErrConstraintViolation),
		Err:        err,
	}
}

func (e *CommitError) Error() string {
	if e.Constraint {
		return fmt.Sprintf("order commit failed at %s (constraint violation): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("order commit failed at %s: %v", e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}
