package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/internal/orders"
	"github.com/rideright/storefront/internal/stock"
	"github.com/rideright/storefront/pkg/logger"
)

// Tool is a function the model can call during a chat turn. Parameters is
// a JSON Schema object describing the arguments; Execute receives the raw
// argument JSON and returns a value serialized back to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Execute     func(ctx context.Context, args json.RawMessage) (interface{}, error)
}

// productSearcher is the slice of the catalog client the search tool needs.
type productSearcher interface {
	SearchProducts(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
}

type searchArgs struct {
	Query        string `json:"query"`
	Category     string `json:"category"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission"`
	Origin       string `json:"origin"`
	MinPrice     int64  `json:"minPrice"`
	MaxPrice     int64  `json:"maxPrice"`
}

// searchProduct is the per-car payload handed back to the model. Pointer
// fields stay null when the source document omits them, so the model never
// sees fabricated zeroes.
type searchProduct struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description,omitempty"`
	Price          *int64  `json:"price"`
	PriceFormatted *string `json:"priceFormatted"`
	Category       string  `json:"category,omitempty"`
	CategorySlug   string  `json:"categorySlug,omitempty"`
	Make           string  `json:"make,omitempty"`
	Year           *int    `json:"year"`
	FuelType       string  `json:"fuelType,omitempty"`
	Engine         string  `json:"engine,omitempty"`
	Transmission   string  `json:"transmission,omitempty"`
	Location       string  `json:"location,omitempty"`
	Mileage        *int64  `json:"mileage"`
	HorsePower     *int64  `json:"horsePower"`
	Torque         *int64  `json:"torque"`
	StockCount     int64   `json:"stockCount"`
	StockStatus    string  `json:"stockStatus"`
	StockMessage   string  `json:"stockMessage"`
	Featured       bool    `json:"featured"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	ProductURL     string  `json:"productUrl,omitempty"`
}

type searchResult struct {
	Found        bool            `json:"found"`
	Message      string          `json:"message"`
	TotalResults int             `json:"totalResults,omitempty"`
	Products     []searchProduct `json:"products"`
	Error        string          `json:"error,omitempty"`
	Filters      searchArgs      `json:"filters"`
}

// NewSearchProductsTool builds the inventory search tool. Failures are
// reported inside the result payload so the model can apologize and move
// on instead of the whole turn erroring out.
func NewSearchProductsTool(searcher productSearcher, log logger.Logger) Tool {
	if log == nil {
		log = logger.NoOp{}
	}

	return Tool{
		Name: "searchProducts",
		Description: "Search for cars in the dealership. Can search by name, make, or description, " +
			"and filter by body type, fuel type, transmission, and price range. " +
			"Returns car details including availability.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search term to find cars by name, make, or description (e.g., 'Toyota', 'Land Cruiser', 'SUV')",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Filter by body type slug (e.g., 'suv', 'sedan', 'hatchback', 'coupe', 'pickup')",
				},
				"fuelType": map[string]interface{}{
					"type":        "string",
					"enum":        append([]string{""}, catalog.Values(catalog.FuelTypes)...),
					"description": "Filter by fuel type",
				},
				"transmission": map[string]interface{}{
					"type":        "string",
					"enum":        append([]string{""}, catalog.Values(catalog.Transmissions)...),
					"description": "Filter by transmission type",
				},
				"origin": map[string]interface{}{
					"type":        "string",
					"enum":        append([]string{""}, catalog.Values(catalog.Origins)...),
					"description": "Filter by origin (e.g., 'locally_used', 'foreign_used', 'brand_new')",
				},
				"minPrice": map[string]interface{}{
					"type":        "number",
					"description": "Minimum price in KES (e.g., 1000000)",
				},
				"maxPrice": map[string]interface{}{
					"type":        "number",
					"description": "Maximum price in KES (e.g., 10000000). Use 0 for no maximum.",
				},
			},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args searchArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return searchResult{
						Found:   false,
						Message: "An error occurred while searching for cars.",
						Error:   err.Error(),
					}, nil
				}
			}

			log.Info("Agent searching inventory", map[string]interface{}{
				"operation": "agent_search_products",
				"query":     args.Query,
				"category":  args.Category,
			})

			filter := catalog.Filter{
				Query:        args.Query,
				Category:     args.Category,
				FuelType:     args.FuelType,
				Transmission: args.Transmission,
				Origin:       args.Origin,
				MinPrice:     args.MinPrice,
				MaxPrice:     args.MaxPrice,
				Sort:         catalog.SortRelevance,
			}
			filter = filter.Normalize()

			products, err := searcher.SearchProducts(ctx, filter)
			if err != nil {
				log.Error("Agent inventory search failed", map[string]interface{}{
					"operation": "agent_search_products",
					"error":     err.Error(),
				})
				return searchResult{
					Found:    false,
					Message:  "An error occurred while searching for cars.",
					Products: []searchProduct{},
					Error:    err.Error(),
					Filters:  args,
				}, nil
			}

			if len(products) == 0 {
				return searchResult{
					Found:    false,
					Message:  "No cars found matching your criteria. Try different search terms or filters.",
					Products: []searchProduct{},
					Filters:  args,
				}, nil
			}

			formatted := make([]searchProduct, 0, len(products))
			for _, p := range products {
				formatted = append(formatted, presentProduct(p))
			}

			plural := "s"
			if len(products) == 1 {
				plural = ""
			}
			return searchResult{
				Found:        true,
				Message:      fmt.Sprintf("Found %d car%s matching your search.", len(products), plural),
				TotalResults: len(products),
				Products:     formatted,
				Filters:      args,
			}, nil
		},
	}
}

func presentProduct(p catalog.Product) searchProduct {
	result := searchProduct{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		Year:         p.Year,
		FuelType:     p.FuelType,
		Engine:       p.Engine,
		Transmission: p.Transmission,
		Location:     p.Location,
		Mileage:      p.Mileage,
		HorsePower:   p.HorsePower,
		Torque:       p.Torque,
		StockStatus:  string(stock.Classify(p.Stock)),
		StockMessage: stock.Message(p.Stock),
		Featured:     p.Featured,
		ImageURL:     p.ImageURL,
	}
	if p.Price != nil {
		s := catalog.FormatPrice(*p.Price)
		result.PriceFormatted = &s
	}
	if p.Stock != nil {
		result.StockCount = *p.Stock
	}
	if p.Category != nil {
		result.Category = p.Category.Title
		result.CategorySlug = p.Category.Slug
		// The catalog models make as the category document's title.
		result.Make = p.Category.Title
	}
	if p.Slug != "" {
		result.ProductURL = "/products/" + p.Slug
	}
	return result
}

type ordersArgs struct {
	Status string `json:"status"`
}

type ordersResult struct {
	Found   bool           `json:"found"`
	Message string         `json:"message"`
	Orders  []presentOrder `json:"orders"`
	Error   string         `json:"error,omitempty"`
}

type presentOrder struct {
	ID             string   `json:"id"`
	OrderNumber    string   `json:"orderNumber"`
	Status         string   `json:"status"`
	StatusDisplay  string   `json:"statusDisplay"`
	ItemNames      []string `json:"itemNames"`
	Total          int64    `json:"total"`
	TotalFormatted string   `json:"totalFormatted"`
	Date           string   `json:"date"`
}

// orderReader is the slice of the orders service the tool needs.
type orderReader interface {
	ForUser(ctx context.Context, userID string, status orders.Status) ([]orders.Order, error)
}

// NewOrdersTool builds the order history tool bound to one user. It
// returns nil for anonymous sessions: the tool must not exist at all
// when there is no user to look up.
func NewOrdersTool(reader orderReader, userID string, log logger.Logger) *Tool {
	if userID == "" {
		return nil
	}
	if log == nil {
		log = logger.NoOp{}
	}

	return &Tool{
		Name:        "getMyOrders",
		Description: "Get the signed-in user's order history and status. Optionally filter by order status.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"", "pending", "paid", "shipped", "delivered", "cancelled"},
					"description": "Optional status filter. Empty returns all orders.",
				},
			},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args ordersArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return ordersResult{Found: false, Message: "Could not read the status filter.", Error: err.Error()}, nil
				}
			}

			list, err := reader.ForUser(ctx, userID, orders.Status(args.Status))
			if err != nil {
				log.Error("Agent order lookup failed", map[string]interface{}{
					"operation": "agent_get_orders",
					"error":     err.Error(),
				})
				return ordersResult{
					Found:   false,
					Message: "An error occurred while loading your orders.",
					Orders:  []presentOrder{},
					Error:   err.Error(),
				}, nil
			}

			if len(list) == 0 {
				return ordersResult{
					Found:   false,
					Message: "You have no orders yet.",
					Orders:  []presentOrder{},
				}, nil
			}

			presented := make([]presentOrder, 0, len(list))
			for _, o := range list {
				presented = append(presented, presentOrder{
					ID:             o.ID,
					OrderNumber:    o.OrderNumber,
					Status:         string(o.Status),
					StatusDisplay:  o.Status.Display(),
					ItemNames:      o.ItemNames,
					Total:          o.Total,
					TotalFormatted: o.FormattedTotal(),
					Date:           o.CreatedAt.Format("2 Jan 2006"),
				})
			}

			return ordersResult{
				Found:   true,
				Message: fmt.Sprintf("Found %d orders.", len(list)),
				Orders:  presented,
			}, nil
		},
	}
}
