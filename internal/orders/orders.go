// Package orders reads a customer's order history from the content store.
// Orders are written by the back office; the storefront only presents them.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/pkg/logger"
)

// Status is an order's fulfilment state. The empty string means the order
// has no recorded status yet.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known filter value. The empty string
// counts as "no filter".
func ValidStatus(s string) bool {
	switch Status(s) {
	case "", StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Display renders the status for customer-facing text.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "⏳ Pending"
	case StatusPaid:
		return "✅ Paid"
	case StatusShipped:
		return "📦 Shipped"
	case StatusDelivered:
		return "🎉 Delivered"
	case StatusCancelled:
		return "❌ Cancelled"
	default:
		return "Unknown"
	}
}

// Order is the customer-facing projection of an order document.
type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      Status    `json:"status"`
	ItemNames   []string  `json:"itemNames"`
	Total       int64     `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FormattedTotal is the order total in display currency form.
func (o Order) FormattedTotal() string {
	return catalog.FormatPrice(o.Total)
}

// queryRunner is the slice of the catalog client the order reader needs.
type queryRunner interface {
	Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) error
}

// Service reads orders for signed-in customers.
type Service struct {
	runner queryRunner
	log    logger.Logger
}

// NewService wraps a content query runner, typically the catalog client.
func NewService(runner queryRunner, log logger.Logger) *Service {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Service{runner: runner, log: log}
}

const orderProjection = `{
  "id": _id,
  "orderNumber": orderNumber,
  "status": status,
  "itemNames": items[].product->name,
  "total": total,
  "createdAt": _createdAt
}`

// BuildOrdersQuery returns the GROQ query and parameters listing a user's
// orders, newest first, optionally narrowed to one status. The status
// clause short-circuits when no filter is set so a single query text
// serves both cases.
func BuildOrdersQuery(userID string, status Status) (string, map[string]interface{}) {
	query := fmt.Sprintf(
		`*[_type == "order" && clerkUserId == $userId && ($status == "" || status == $status)] | order(_createdAt desc) %s`,
		orderProjection,
	)
	params := map[string]interface{}{
		"userId": userID,
		"status": string(status),
	}
	return query, params
}

// ForUser lists the user's orders, newest first. A status narrows the
// result; unknown statuses are rejected before hitting the content store.
func (s *Service) ForUser(ctx context.Context, userID string, status Status) ([]Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidStatus(string(status)) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	query, params := BuildOrdersQuery(userID, status)

	var orders []Order
	if err := s.runner.Query(ctx, query, params, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	s.log.Info("Order history loaded", map[string]interface{}{
		"operation": "orders_for_user",
		"status":    string(status),
		"count":     len(orders),
	})
	return orders, nil
}

// Summarize renders an order list as customer-facing text, one order per
// block, for chat responses.
func Summarize(orders []Order) string {
	if len(orders) == 0 {
		return "You have no orders yet."
	}

	var b strings.Builder
	for i, o := range orders {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Order %s — %s\n", o.OrderNumber, o.Status.Display())
		if len(o.ItemNames) > 0 {
			fmt.Fprintf(&b, "Items: %s\n", strings.Join(o.ItemNames, ", "))
		}
		fmt.Fprintf(&b, "Total: %s\n", o.FormattedTotal())
		fmt.Fprintf(&b, "Placed: %s", o.CreatedAt.Format("2 Jan 2006"))
	}
	return b.String()
}
