package orders

import (
	"fmt"
	"math"
)

// TotalTolerance is the maximum accepted drift between the client-claimed
// total and the server-side recomputation, in currency units.
const TotalTolerance = 0.01

// ComputeTotal recomputes the authoritative order total from the submitted
// line items.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// ValidateCreateOrder checks the cart shape and the total-consistency
// invariant. It is pure: no storage is touched, so a rejected cart costs
// zero writes.
func ValidateCreateOrder(req *CreateOrderRequest) error {
	if req.UserID <= 0 {
		return ValidationError{Field: "userId", Message: "user id is required"}
	}
	if len(req.Items) == 0 {
		return ValidationError{Field: "items", Message: "items cannot be empty"}
	}
	for i, it := range req.Items {
		if it.ID <= 0 {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: "item id is required",
			}
		}
		if it.Quantity <= 0 {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than 0",
			}
		}
		if it.Price < 0 {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "price must not be negative",
			}
		}
	}
	if math.Abs(ComputeTotal(req.Items)-req.TotalAmount) > TotalTolerance {
		return ValidationError{
			Field:   "totalAmount",
			Message: "total does not match the sum of item prices",
		}
	}
	return nil
}
