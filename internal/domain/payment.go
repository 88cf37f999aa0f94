package domain

// PaymentNode is one entry of the payment method forest. Roots have no
// parent; a root without children is itself a payable method.
type PaymentNode struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (n PaymentNode) IsRoot() bool {
	return n.ParentID == nil
}
