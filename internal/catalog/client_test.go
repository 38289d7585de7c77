package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseURL:    server.URL,
		Dataset:    "production",
		APIVersion: "2024-01-01",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
}

func TestQuerySendsJSONEncodedParams(t *testing.T) {
	var gotQuery, gotParam string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotParam = r.URL.Query().Get("$slug")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": nil})
	})

	require.NoError(t, client.Query(context.Background(),
		`*[slug.current == $slug][0]`,
		map[string]interface{}{"slug": "test-car"},
		nil,
	))

	assert.Equal(t, `*[slug.current == $slug][0]`, gotQuery)
	assert.Equal(t, `"test-car"`, gotParam, "string params must be JSON-encoded")
}

func TestSearchProductsDecodesProjection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]interface{}{
				{
					"id":       "prod-1",
					"name":     "2023 Toyota Land Cruiser V8",
					"slug":     "2023-toyota-land-cruiser-v8",
					"price":    9000000,
					"year":     2023,
					"fuelType": "petrol",
					"stock":    1,
					"category": map[string]interface{}{"title": "Toyota", "slug": "toyota"},
				},
			},
		})
	})

	products, err := client.SearchProducts(context.Background(), Filter{Query: "land cruiser"})
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "2023 Toyota Land Cruiser V8", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(9000000), *p.Price)
	require.NotNil(t, p.Stock)
	assert.Equal(t, int64(1), *p.Stock)
	require.NotNil(t, p.Category)
	assert.Equal(t, "toyota", p.Category.Slug)
}

func TestQuerySurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"type":        "queryParseError",
				"description": "unexpected token",
			},
		})
	})

	err := client.Query(context.Background(), "*[", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queryParseError")
}

func TestProductBySlugMissingDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": nil})
	})

	product, err := client.ProductBySlug(context.Background(), "ghost-car")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]string{
				{"id": "cat-1", "title": "Toyota", "slug": "toyota"},
				{"id": "cat-2", "title": "BMW", "slug": "bmw"},
			},
		})
	})

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "toyota", categories[0].Slug)
}
