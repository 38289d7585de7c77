package catalog

import (
	"net/url"
	"strconv"
)

// URL query parameter names shared between the filter UI, the sitemap layer,
// and the shopping assistant. These exact keys are part of the public contract.
const (
	ParamQuery        = "q"
	ParamCategory     = "category"
	ParamFuelType     = "fuelType"
	ParamTransmission = "transmission"
	ParamOrigin       = "origin"
	ParamMinPrice     = "minPrice"
	ParamMaxPrice     = "maxPrice"
	ParamSort         = "sort"
	ParamInStock      = "inStock"
)

// Filter is the structured search descriptor. Zero values mean "no filter".
type Filter struct {
	Query        string `json:"query"`
	Category     string `json:"category"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission"`
	Origin       string `json:"origin"`
	MinPrice     int64  `json:"minPrice"`
	MaxPrice     int64  `json:"maxPrice"`
	Sort         string `json:"sort"`
	InStock      bool   `json:"inStock"`
}

// Normalize clamps out-of-range or unknown values back to unset. Malformed
// input never produces an error, it just stops constraining results.
func (f Filter) Normalize() Filter {
	if !ValidFuelType(f.FuelType) {
		f.FuelType = ""
	}
	if !ValidTransmission(f.Transmission) {
		f.Transmission = ""
	}
	if !ValidOrigin(f.Origin) {
		f.Origin = ""
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
	if f.MaxPrice < 0 {
		f.MaxPrice = 0
	}
	if f.Sort == "" || !ValidSort(f.Sort) {
		f.Sort = SortName
	}
	return f
}

// FilterFromValues parses a filter from URL query parameters using the shared
// key vocabulary. Unparseable numbers and unknown enum values are clamped to
// unset rather than rejected.
func FilterFromValues(values url.Values) Filter {
	f := Filter{
		Query:        values.Get(ParamQuery),
		Category:     values.Get(ParamCategory),
		FuelType:     values.Get(ParamFuelType),
		Transmission: values.Get(ParamTransmission),
		Origin:       values.Get(ParamOrigin),
		Sort:         values.Get(ParamSort),
		InStock:      values.Get(ParamInStock) == "true",
	}
	if raw := values.Get(ParamMinPrice); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.MinPrice = n
		}
	}
	if raw := values.Get(ParamMaxPrice); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.MaxPrice = n
		}
	}
	return f.Normalize()
}

// Values renders the filter back into URL query parameters, omitting unset
// fields so generated links stay clean.
func (f Filter) Values() url.Values {
	values := url.Values{}
	set := func(key, val string) {
		if val != "" {
			values.Set(key, val)
		}
	}
	set(ParamQuery, f.Query)
	set(ParamCategory, f.Category)
	set(ParamFuelType, f.FuelType)
	set(ParamTransmission, f.Transmission)
	set(ParamOrigin, f.Origin)
	if f.MinPrice > 0 {
		values.Set(ParamMinPrice, strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		values.Set(ParamMaxPrice, strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.Sort != "" && f.Sort != SortName {
		values.Set(ParamSort, f.Sort)
	}
	if f.InStock {
		values.Set(ParamInStock, "true")
	}
	return values
}
