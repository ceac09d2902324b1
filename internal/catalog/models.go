package catalog

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// MenuItem carries the authoritative unit price. Client-supplied prices are
// only ever verified against this record, never trusted.
type MenuItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	IsVeg        bool    `json:"is_veg"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
}

// PopularItem is a menu item ranked by how often it has been ordered.
type PopularItem struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image"`
	IsVeg      bool    `json:"is_veg"`
	OrderCount int64   `json:"order_count"`
}
