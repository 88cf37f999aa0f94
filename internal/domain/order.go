package domain

import "time"

type Recipient struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (r Recipient) Complete() bool {
	return r.Name != "" && r.Address != "" && r.Phone != ""
}

// Order is the persisted header. ID and OrderDate are assigned by the store.
type Order struct {
	ID             int64
	CustomerID     int64
	OrderDate      time.Time
	TotalAmount    int64
	ShippingMethod string
	PaymentMethod  string
	Recipient      Recipient
}

// OrderLine freezes the unit price at the moment of purchase.
type OrderLine struct {
	OrderID         int64  `json:"order_id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name,omitempty"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
}

// OrderLinesFromCart copies cart lines into order lines for orderID.
func OrderLinesFromCart(orderID int64, lines []CartLine) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			OrderID:         orderID,
			ProductID:       l.ProductID,
			ProductName:     l.Name,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.UnitPrice,
		})
	}
	return out
}
