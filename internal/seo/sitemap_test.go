package seo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideright/storefront/internal/catalog"
)

type fakeSource struct {
	products   []catalog.SitemapEntry
	categories []catalog.Category
	err        error
}

func (f *fakeSource) SitemapProducts(context.Context) ([]catalog.SitemapEntry, error) {
	return f.products, f.err
}

func (f *fakeSource) Categories(context.Context) ([]catalog.Category, error) {
	return f.categories, f.err
}

func TestEntriesCoverAllPageKinds(t *testing.T) {
	source := &fakeSource{
		products: []catalog.SitemapEntry{
			{Slug: "2023-toyota-land-cruiser-v8", UpdatedAt: "2026-08-01T12:00:00Z"},
			{Slug: ""},
		},
		categories: []catalog.Category{
			{ID: "cat-1", Title: "SUV", Slug: "suv"},
		},
	}
	g := NewGenerator("", source, nil)

	urls, err := g.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, urls, 3, "home + one product (blank slug skipped) + one category")

	home := urls[0]
	assert.Equal(t, "https://rideright.ke", home.Loc)
	assert.Equal(t, "daily", home.ChangeFreq)
	assert.Equal(t, "1.0", home.Priority)

	product := urls[1]
	assert.Equal(t, "https://rideright.ke/products/2023-toyota-land-cruiser-v8", product.Loc)
	assert.Equal(t, "2026-08-01T12:00:00Z", product.LastMod)
	assert.Equal(t, "weekly", product.ChangeFreq)
	assert.Equal(t, "0.8", product.Priority)

	category := urls[2]
	assert.Equal(t, "https://rideright.ke/?category=suv", category.Loc)
	assert.Equal(t, "0.7", category.Priority)
}

func TestEntriesCustomSiteURL(t *testing.T) {
	source := &fakeSource{products: []catalog.SitemapEntry{{Slug: "demio"}}}
	g := NewGenerator("https://staging.rideright.ke", source, nil)

	urls, err := g.Entries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://staging.rideright.ke/products/demio", urls[1].Loc)
}

func TestEntriesPropagatesErrors(t *testing.T) {
	g := NewGenerator("", &fakeSource{err: errors.New("boom")}, nil)
	_, err := g.Entries(context.Background())
	require.Error(t, err)
}

func TestXMLDocument(t *testing.T) {
	source := &fakeSource{products: []catalog.SitemapEntry{{Slug: "demio"}}}
	g := NewGenerator("", source, nil)

	body, err := g.XML(context.Background())
	require.NoError(t, err)

	doc := string(body)
	assert.True(t, strings.HasPrefix(doc, xmlHeaderPrefix))
	assert.Contains(t, doc, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, doc, "<loc>https://rideright.ke/products/demio</loc>")
}

const xmlHeaderPrefix = `<?xml version="1.0" encoding="UTF-8"?>`
