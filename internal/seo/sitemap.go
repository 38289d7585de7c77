// Package seo generates the storefront's sitemap from the live catalog.
package seo

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/pkg/logger"
)

// DefaultSiteURL is the production storefront origin.
const DefaultSiteURL = "https://rideright.ke"

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// catalogSource is the slice of the catalog client the sitemap needs.
type catalogSource interface {
	SitemapProducts(ctx context.Context) ([]catalog.SitemapEntry, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

// Generator builds sitemaps.
type Generator struct {
	siteURL string
	source  catalogSource
	log     logger.Logger
}

// NewGenerator creates a sitemap generator. An empty siteURL falls back
// to the production origin.
func NewGenerator(siteURL string, source catalogSource, log logger.Logger) *Generator {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if log == nil {
		log = logger.NoOp{}
	}
	return &Generator{siteURL: siteURL, source: source, log: log}
}

// Entries lists every sitemap URL: the home page, one page per product,
// and one pre-filtered listing page per category.
func (g *Generator) Entries(ctx context.Context) ([]URL, error) {
	products, err := g.source.SitemapProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for sitemap: %w", err)
	}
	categories, err := g.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for sitemap: %w", err)
	}

	urls := []URL{{
		Loc:        g.siteURL,
		ChangeFreq: "daily",
		Priority:   "1.0",
	}}

	for _, p := range products {
		if p.Slug == "" {
			continue
		}
		urls = append(urls, URL{
			Loc:        fmt.Sprintf("%s/products/%s", g.siteURL, p.Slug),
			LastMod:    p.UpdatedAt,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	for _, c := range categories {
		if c.Slug == "" {
			continue
		}
		urls = append(urls, URL{
			Loc:        fmt.Sprintf("%s/?category=%s", g.siteURL, url.QueryEscape(c.Slug)),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	g.log.Info("Sitemap generated", map[string]interface{}{
		"operation":  "sitemap_generate",
		"products":   len(products),
		"categories": len(categories),
		"total_urls": len(urls),
	})
	return urls, nil
}

// XML renders the full sitemap document.
func (g *Generator) XML(ctx context.Context) ([]byte, error) {
	urls, err := g.Entries(ctx)
	if err != nil {
		return nil, err
	}

	doc := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
