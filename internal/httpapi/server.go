// Package httpapi exposes the storefront over HTTP: catalog browsing,
// session carts, WhatsApp checkout, order history, the shopping
// assistant and the sitemap.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rideright/storefront/internal/agent"
	"github.com/rideright/storefront/internal/auth"
	"github.com/rideright/storefront/internal/cart"
	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/internal/orders"
	"github.com/rideright/storefront/internal/seo"
	"github.com/rideright/storefront/pkg/logger"
)

// catalogAPI is the slice of the catalog client the handlers use.
type catalogAPI interface {
	SearchProducts(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

// orderAPI is the slice of the orders service the handlers use.
type orderAPI interface {
	ForUser(ctx context.Context, userID string, status orders.Status) ([]orders.Order, error)
}

// chatAPI is the slice of the agent the chat handler uses.
type chatAPI interface {
	Chat(ctx context.Context, sessionID, message string, identity auth.Identity) (*agent.Reply, error)
}

// Options wire the server's collaborators.
type Options struct {
	Catalog  catalogAPI
	Orders   orderAPI
	Agent    chatAPI
	Carts    *cart.Registry
	Checkout cart.CheckoutOptions
	Verifier *auth.Verifier
	Sitemap  *seo.Generator

	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	Logger       logger.Logger
}

// Server is the storefront HTTP server.
type Server struct {
	opts       Options
	httpServer *http.Server
	log        logger.Logger

	seqMu      sync.Mutex
	searchSeqs map[string]int64
}

// NewServer builds the server and its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if opts.Carts == nil {
		opts.Carts = cart.NewRegistry(0)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{opts: opts, log: opts.Logger, searchSeqs: make(map[string]int64)}

	handler := corsMiddleware(opts.CORSOrigins)(
		loggingMiddleware(opts.Logger)(s.routes()),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      otelhttp.NewHandler(handler, "storefront"),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/products", s.handleSearchProducts)
	mux.HandleFunc("GET /api/products/{slug}", s.handleProductBySlug)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/filters", s.handleFilterOptions)

	mux.HandleFunc("GET /api/cart", s.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", s.handleAddCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", s.handleUpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleRemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", s.handleClearCart)
	mux.HandleFunc("POST /api/cart/open", s.handleCartDrawer)
	mux.HandleFunc("POST /api/cart/close", s.handleCartDrawer)
	mux.HandleFunc("POST /api/cart/toggle", s.handleCartDrawer)
	mux.HandleFunc("POST /api/cart/checkout", s.handleCheckout)

	mux.HandleFunc("GET /api/orders", s.handleOrders)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	return mux
}

// Start runs the server until ListenAndServe returns.
func (s *Server) Start() error {
	s.log.Info("Storefront server starting", map[string]interface{}{
		"operation": "server_start",
		"addr":      s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Storefront server stopping", map[string]interface{}{
		"operation": "server_stop",
	})
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// nextSearchSeq issues a per-session monotonically increasing sequence
// number for search responses. Clients discard any response carrying a
// lower sequence than the newest they have rendered, which fixes the
// stale-result flicker when rapid filter changes race.
func (s *Server) nextSearchSeq(sessionID string) int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.searchSeqs[sessionID]++
	return s.searchSeqs[sessionID]
}

// identity resolves the optional signed-in user. Without a verifier every
// request is anonymous.
func (s *Server) identity(r *http.Request) auth.Identity {
	if s.opts.Verifier == nil {
		return auth.Identity{}
	}
	return s.opts.Verifier.IdentityFromRequest(r)
}
