// Package stock derives availability tiers from raw inventory counts. Both the
// HTTP product payloads and the shopping assistant's tool results go through
// this package so the two channels never disagree about availability.
package stock

import "fmt"

// Status is the availability tier for a product.
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// LowStockThreshold is the highest count still reported as low stock.
const LowStockThreshold = 2

// Classify maps a stock count to its availability tier. A nil count means the
// inventory field is absent from the document and is treated as sold out.
func Classify(count *int64) Status {
	switch {
	case count == nil || *count <= 0:
		return StatusOutOfStock
	case *count <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Message produces the customer-facing availability text for a stock count.
func Message(count *int64) string {
	switch Classify(count) {
	case StatusOutOfStock:
		return "Currently sold out"
	case StatusLowStock:
		if *count == 1 {
			return "Only 1 left in stock"
		}
		return fmt.Sprintf("Only %d left in stock", *count)
	default:
		return "In stock"
	}
}
