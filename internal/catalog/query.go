package catalog

import (
	"regexp"
	"strings"
)

// "7-seater" and "7 seat" should find the same cars. The stored descriptions
// use "seat", so the query side folds "seater" down before matching.
var seaterWord = regexp.MustCompile(`(?i)\bseater\b`)

func foldSynonyms(q string) string {
	return seaterWord.ReplaceAllString(q, "seat")
}

// productProjection flattens a product document into the shape the rest of the
// service consumes: dereferenced category, first image URL, current slug.
const productProjection = `{
  "id": _id,
  name,
  "slug": slug.current,
  description,
  price,
  year,
  fuelType,
  engine,
  transmission,
  origin,
  location,
  mileage,
  horsePower,
  torque,
  stock,
  featured,
  "imageUrl": images[0].asset->url,
  "category": category->{title, "slug": slug.current},
  "updatedAt": _updatedAt
}`

// BuildSearchQuery translates a filter into a parameterized GROQ query. It is
// pure: no I/O, no defaults beyond Normalize. Unset parameters short-circuit
// to true inside the query so they never constrain the result set, which also
// means minPrice > maxPrice yields an empty set rather than being corrected.
func BuildSearchQuery(f Filter) (string, map[string]interface{}) {
	f = f.Normalize()

	conds := []string{
		`_type == "product"`,
		`($q == "" || name match $q || description match $q || category->title match $q)`,
		`($category == "" || category->slug.current == $category)`,
		`($fuelType == "" || fuelType == $fuelType)`,
		`($transmission == "" || transmission == $transmission)`,
		`($origin == "" || origin == $origin)`,
		`($minPrice == 0 || price >= $minPrice)`,
		`($maxPrice == 0 || price <= $maxPrice)`,
	}
	if f.InStock {
		conds = append(conds, `stock > 0`)
	}

	query := "*[" + strings.Join(conds, "\n  && ") + "] " + productProjection + orderClause(f.Sort)

	params := map[string]interface{}{
		"q":            matchTerm(f.Query),
		"category":     f.Category,
		"fuelType":     f.FuelType,
		"transmission": f.Transmission,
		"origin":       f.Origin,
		"minPrice":     f.MinPrice,
		"maxPrice":     f.MaxPrice,
	}
	return query, params
}

// matchTerm prepares the text query for GROQ match: synonym fold, then
// wildcards on both sides for substring semantics. Empty stays empty so the
// clause short-circuits.
func matchTerm(q string) string {
	q = strings.TrimSpace(foldSynonyms(q))
	if q == "" {
		return ""
	}
	return "*" + q + "*"
}

func orderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return ` | order(price asc)`
	case SortPriceDesc:
		return ` | order(price desc)`
	case SortYearDesc:
		return ` | order(year desc)`
	case SortRelevance:
		// Defer to the content API's text ranking.
		return ``
	default:
		return ` | order(name asc)`
	}
}

// BuildProductBySlugQuery fetches a single product by its URL slug.
func BuildProductBySlugQuery(slug string) (string, map[string]interface{}) {
	query := `*[_type == "product" && slug.current == $slug][0] ` + productProjection
	return query, map[string]interface{}{"slug": slug}
}

// AllCategoriesQuery lists every category with a slug, for the filter UI and
// the sitemap's category filter pages.
const AllCategoriesQuery = `*[_type == "category" && defined(slug.current)] | order(title asc) {
  "id": _id,
  title,
  "slug": slug.current
}`

// SitemapProductsQuery lists product slugs with their last update time.
const SitemapProductsQuery = `*[_type == "product" && defined(slug.current)] {
  "slug": slug.current,
  "updatedAt": _updatedAt
}`
