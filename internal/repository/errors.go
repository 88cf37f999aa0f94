package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlitedrv "modernc.org/sqlite"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrConstraintViolation = errors.New("constraint violation")
)

const sqliteConstraint = 19

// classify tags integrity errors from either driver with
// ErrConstraintViolation while keeping the driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConstraint(err) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}

func isConstraint(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	var liteErr *sqlitedrv.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqliteConstraint
	}
	return false
}
