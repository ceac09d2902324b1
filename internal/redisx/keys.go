package redisx

import "time"

const (
	// Full menu listing: menu:all -> JSON array of items with category names
	KeyMenuAll = "menu:all"

	// Menu per category: menu:category:{category_id} -> JSON array
	KeyMenuByCategory = "menu:category:%d"

	// Category listing: categories -> JSON array
	KeyCategories = "categories"

	// Order receipt: order_receipt:{order_id} -> JSON order with items
	KeyOrderReceipt = "order_receipt:%d"

	// Most ordered items: popular_items -> JSON array
	KeyPopularItems = "popular_items"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLMenuCache    = 10 * time.Minute
	TTLReceiptCache = 30 * time.Minute
	TTLPopularCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
