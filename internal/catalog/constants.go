// Package catalog talks to the headless content API that stores the vehicle
// inventory. It owns the shared filter vocabulary, the GROQ query builder, and
// the read-only HTTP client, so the filter UI, the sitemap generator, and the
// shopping assistant all search the same way.
package catalog

// Option pairs a machine value with its display label. The same list feeds the
// filter UI, the agent tool schema, and the content-schema option lists.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FuelTypes enumerates valid fuel type values.
var FuelTypes = []Option{
	{Value: "petrol", Label: "Petrol"},
	{Value: "diesel", Label: "Diesel"},
	{Value: "electric", Label: "Electric"},
	{Value: "hybrid", Label: "Hybrid"},
}

// Transmissions enumerates valid transmission values.
var Transmissions = []Option{
	{Value: "automatic", Label: "Automatic"},
	{Value: "manual", Label: "Manual"},
}

// Origins enumerates vehicle condition/origin values.
var Origins = []Option{
	{Value: "locally_used", Label: "Locally Used"},
	{Value: "foreign_used", Label: "Foreign Used"},
	{Value: "brand_new", Label: "Brand New"},
}

// Sort keys understood by the query builder.
const (
	SortName      = "name"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortYearDesc  = "year_desc"
	SortRelevance = "relevance"
)

// SortOptions enumerates the supported orderings.
var SortOptions = []Option{
	{Value: SortName, Label: "Name (A-Z)"},
	{Value: SortPriceAsc, Label: "Price: Low to High"},
	{Value: SortPriceDesc, Label: "Price: High to Low"},
	{Value: SortYearDesc, Label: "Year: Newest First"},
	{Value: SortRelevance, Label: "Relevance"},
}

// Values extracts the value column from an option list, for enum validation.
func Values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

func isValidValue(v string, opts []Option) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// ValidFuelType reports whether v is a known fuel type ("" counts as unset).
func ValidFuelType(v string) bool { return v == "" || isValidValue(v, FuelTypes) }

// ValidTransmission reports whether v is a known transmission ("" counts as unset).
func ValidTransmission(v string) bool { return v == "" || isValidValue(v, Transmissions) }

// ValidOrigin reports whether v is a known origin ("" counts as unset).
func ValidOrigin(v string) bool { return v == "" || isValidValue(v, Origins) }

// ValidSort reports whether v is a known sort key.
func ValidSort(v string) bool { return isValidValue(v, SortOptions) }
