package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rideright/storefront/internal/cart"
	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/internal/orders"
	"github.com/rideright/storefront/internal/stock"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "healthy"})
}

// productView decorates a catalog product with derived display fields.
type productView struct {
	catalog.Product
	PriceFormatted string `json:"priceFormatted,omitempty"`
	StockStatus    string `json:"stockStatus"`
	StockMessage   string `json:"stockMessage"`
}

func presentCatalogProduct(p catalog.Product) productView {
	view := productView{
		Product:      p,
		StockStatus:  string(stock.Classify(p.Stock)),
		StockMessage: stock.Message(p.Stock),
	}
	if p.Price != nil {
		view.PriceFormatted = catalog.FormatPrice(*p.Price)
	}
	return view
}

// searchResponse carries the product list plus two supersede markers: the
// client's request token echoed back, and a server-issued per-session
// sequence number. The UI discards any response older than the newest one
// it has rendered.
type searchResponse struct {
	Products []productView  `json:"products"`
	Total    int            `json:"total"`
	Filter   catalog.Filter `json:"filter"`
	Token    string         `json:"token,omitempty"`
	Seq      int64          `json:"seq"`
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	query := r.URL.Query()
	filter := catalog.FilterFromValues(query).Normalize()

	products, err := s.opts.Catalog.SearchProducts(r.Context(), filter)
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "SEARCH_FAILED",
			Message:  "Could not search the catalog.",
			Category: CategoryServiceError,
		})
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, presentCatalogProduct(p))
	}

	writeData(w, searchResponse{
		Products: views,
		Total:    len(views),
		Filter:   filter,
		Token:    query.Get("token"),
		Seq:      s.nextSearchSeq(session),
	})
}

func (s *Server) handleProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	product, err := s.opts.Catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "PRODUCT_LOOKUP_FAILED",
			Message:  "Could not load the product.",
			Category: CategoryServiceError,
		})
		return
	}
	if product == nil {
		writeError(w, s.log, &APIError{
			Code:     "PRODUCT_NOT_FOUND",
			Message:  "No product with that slug.",
			Category: CategoryNotFound,
			Details:  map[string]string{"slug": slug},
		})
		return
	}

	writeData(w, presentCatalogProduct(*product))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.opts.Catalog.Categories(r.Context())
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "CATEGORIES_FAILED",
			Message:  "Could not load categories.",
			Category: CategoryServiceError,
		})
		return
	}
	writeData(w, categories)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]interface{}{
		"fuelTypes":     catalog.FuelTypes,
		"transmissions": catalog.Transmissions,
		"origins":       catalog.Origins,
		"sortOptions":   catalog.SortOptions,
	})
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	store := s.opts.Carts.Get(sessionID(w, r))
	writeData(w, store.Snapshot())
}

type addItemRequest struct {
	cart.Item
	Quantity int64 `json:"quantity"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, &APIError{
			Code:     "INVALID_PAYLOAD",
			Message:  "Could not parse the cart item.",
			Category: CategoryInputError,
		})
		return
	}
	if req.ID == "" {
		writeError(w, s.log, &APIError{
			Code:     "MISSING_PRODUCT_ID",
			Message:  "A product ID is required.",
			Category: CategoryInputError,
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	store := s.opts.Carts.Get(sessionID(w, r))
	store.AddItem(req.Item, req.Quantity)
	writeData(w, store.Snapshot())
}

type updateItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, &APIError{
			Code:     "INVALID_PAYLOAD",
			Message:  "Could not parse the quantity update.",
			Category: CategoryInputError,
		})
		return
	}

	store := s.opts.Carts.Get(sessionID(w, r))
	store.UpdateQuantity(r.PathValue("id"), req.Quantity)
	writeData(w, store.Snapshot())
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	store := s.opts.Carts.Get(sessionID(w, r))
	store.RemoveItem(r.PathValue("id"))
	writeData(w, store.Snapshot())
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	store := s.opts.Carts.Get(sessionID(w, r))
	store.Clear()
	writeData(w, store.Snapshot())
}

func (s *Server) handleCartDrawer(w http.ResponseWriter, r *http.Request) {
	store := s.opts.Carts.Get(sessionID(w, r))
	switch {
	case strings.HasSuffix(r.URL.Path, "/open"):
		store.OpenCart()
	case strings.HasSuffix(r.URL.Path, "/close"):
		store.CloseCart()
	default:
		store.ToggleCart()
	}
	writeData(w, store.Snapshot())
}

type checkoutResponse struct {
	WhatsAppURL string `json:"whatsappUrl"`
	Message     string `json:"message"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	store := s.opts.Carts.Get(sessionID(w, r))
	items := store.Items()
	if len(items) == 0 {
		writeError(w, s.log, &APIError{
			Code:     "EMPTY_CART",
			Message:  "The cart has no items to check out.",
			Category: CategoryInputError,
		})
		return
	}

	s.log.Info("Checkout initiated", map[string]interface{}{
		"operation":   "cart_checkout",
		"item_count":  len(items),
		"total_price": store.TotalPrice(),
	})

	writeData(w, checkoutResponse{
		WhatsAppURL: cart.CheckoutLink(items, s.opts.Checkout),
		Message:     cart.CheckoutMessage(items, s.checkoutBaseURL()),
	})
}

func (s *Server) checkoutBaseURL() string {
	if s.opts.Checkout.BaseURL != "" {
		return s.opts.Checkout.BaseURL
	}
	return cart.DefaultCheckoutOptions.BaseURL
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	identity := s.identity(r)
	if !identity.Authenticated() {
		writeError(w, s.log, &APIError{
			Code:     "SIGN_IN_REQUIRED",
			Message:  "Sign in to view your orders.",
			Category: CategoryAuthError,
		})
		return
	}
	if s.opts.Orders == nil {
		writeError(w, s.log, &APIError{
			Code:     "ORDERS_UNAVAILABLE",
			Message:  "Order history is not available.",
			Category: CategoryServiceError,
		})
		return
	}

	status := r.URL.Query().Get("status")
	if !orders.ValidStatus(status) {
		writeError(w, s.log, &APIError{
			Code:     "INVALID_STATUS",
			Message:  "Unknown order status filter.",
			Category: CategoryInputError,
			Details:  map[string]string{"status": status},
		})
		return
	}

	list, err := s.opts.Orders.ForUser(r.Context(), identity.UserID, orders.Status(status))
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "ORDERS_FAILED",
			Message:  "Could not load your orders.",
			Category: CategoryServiceError,
		})
		return
	}
	writeData(w, list)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.opts.Agent == nil {
		writeError(w, s.log, &APIError{
			Code:     "CHAT_UNAVAILABLE",
			Message:  "The shopping assistant is not configured.",
			Category: CategoryServiceError,
		})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, &APIError{
			Code:     "INVALID_PAYLOAD",
			Message:  "Could not parse the chat message.",
			Category: CategoryInputError,
		})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, s.log, &APIError{
			Code:     "EMPTY_MESSAGE",
			Message:  "A message is required.",
			Category: CategoryInputError,
		})
		return
	}

	reply, err := s.opts.Agent.Chat(r.Context(), sessionID(w, r), req.Message, s.identity(r))
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "CHAT_FAILED",
			Message:  "The shopping assistant could not answer.",
			Category: CategoryServiceError,
		})
		return
	}
	writeData(w, reply)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sitemap == nil {
		http.NotFound(w, r)
		return
	}

	body, err := s.opts.Sitemap.XML(r.Context())
	if err != nil {
		writeError(w, s.log, &APIError{
			Code:     "SITEMAP_FAILED",
			Message:  "Could not generate the sitemap.",
			Category: CategoryServiceError,
		})
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(body)
}
