package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rideright/storefront/pkg/logger"
)

// Client reads product and category documents from the content API's query
// endpoint. It only depends on the query/response contract: a GROQ string plus
// named parameters in, a JSON result out.
type Client struct {
	projectID  string
	dataset    string
	apiVersion string
	token      string
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// ClientOptions configures the catalog client.
type ClientOptions struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	// Token enables access to private datasets. Optional for public reads.
	Token string
	// UseCDN routes queries through the cached edge endpoint.
	UseCDN bool
	// BaseURL overrides the derived API host, used in tests.
	BaseURL string
	Timeout time.Duration
	Logger  logger.Logger
}

// NewClient creates a catalog client. Outbound requests carry trace context
// via the otelhttp transport.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" && opts.ProjectID == "" {
		return nil, fmt.Errorf("catalog project ID is required")
	}
	if opts.Dataset == "" {
		opts.Dataset = "production"
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "2024-01-01"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		host := "api.sanity.io"
		if opts.UseCDN {
			host = "apicdn.sanity.io"
		}
		baseURL = fmt.Sprintf("https://%s.%s", opts.ProjectID, host)
	}

	return &Client{
		projectID:  opts.ProjectID,
		dataset:    opts.Dataset,
		apiVersion: opts.APIVersion,
		token:      opts.Token,
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: opts.Logger,
	}, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

type apiError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Query executes a GROQ query with named parameters and decodes the result
// into out. Parameters are sent as $name URL values, JSON-encoded per the
// query API contract.
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) error {
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Content API request failed", map[string]interface{}{
			"operation": "catalog_query",
			"error":     err.Error(),
		})
		return fmt.Errorf("content API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read content API response: %w", err)
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to parse content API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("Content API returned error", map[string]interface{}{
			"operation":   "catalog_query",
			"status_code": resp.StatusCode,
		})
		if decoded.Error != nil {
			return fmt.Errorf("content API error (%s): %s", decoded.Error.Type, decoded.Error.Description)
		}
		return fmt.Errorf("content API returned status %d", resp.StatusCode)
	}

	if out != nil && len(decoded.Result) > 0 {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return fmt.Errorf("failed to decode query result: %w", err)
		}
	}

	c.log.Debug("Content API query completed", map[string]interface{}{
		"operation":   "catalog_query",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// SearchProducts runs the shared filter query and returns projected products.
func (c *Client) SearchProducts(ctx context.Context, f Filter) ([]Product, error) {
	query, params := BuildSearchQuery(f)

	var products []Product
	if err := c.Query(ctx, query, params, &products); err != nil {
		return nil, err
	}

	c.log.Info("Product search completed", map[string]interface{}{
		"operation": "product_search",
		"query":     f.Query,
		"category":  f.Category,
		"count":     len(products),
	})
	return products, nil
}

// ProductBySlug fetches a single product, nil when no document matches.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	query, params := BuildProductBySlugQuery(slug)

	var product *Product
	if err := c.Query(ctx, query, params, &product); err != nil {
		return nil, err
	}
	return product, nil
}

// Categories lists all categories for the filter UI and sitemap.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.Query(ctx, AllCategoriesQuery, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SitemapProducts lists product slugs with update times for the sitemap.
func (c *Client) SitemapProducts(ctx context.Context) ([]SitemapEntry, error) {
	var entries []SitemapEntry
	if err := c.Query(ctx, SitemapProductsQuery, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
