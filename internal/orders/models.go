package orders

import "time"

// Order is the aggregate root. ID is assigned by the database on commit and
// is never visible to readers before all items are durably written.
type Order struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	TotalAmount float64       `json:"total_amount"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Items       []ReceiptItem `json:"items"`
}

// OrderItem is a line item as written at commit time. Price is a snapshot of
// the unit price and must never be re-derived from the menu item, which may
// be repriced later.
type OrderItem struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ReceiptItem is a line item as read back for receipts: the current menu
// item name joined at read time, with the snapshotted price and quantity.
type ReceiptItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateOrderRequest is the client-submitted cart. Everything in it is
// untrusted until validated.
type CreateOrderRequest struct {
	UserID      int64      `json:"userId"`
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type LineItem struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
