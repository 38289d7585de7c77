package catalog

import "strconv"

// CategoryRef is the make/category reference embedded in a product projection.
type CategoryRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Category is a standalone category document, used by the filter UI and sitemap.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Product is the projected vehicle document returned by catalog queries.
// Optional document fields are pointers so absent data stays distinguishable
// from zero values.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Price        *int64       `json:"price"`
	Year         *int         `json:"year"`
	FuelType     string       `json:"fuelType"`
	Engine       string       `json:"engine"`
	Transmission string       `json:"transmission"`
	Origin       string       `json:"origin"`
	Location     string       `json:"location"`
	Mileage      *int64       `json:"mileage"`
	HorsePower   *int64       `json:"horsePower"`
	Torque       *int64       `json:"torque"`
	Stock        *int64       `json:"stock"`
	Featured     bool         `json:"featured"`
	ImageURL     string       `json:"imageUrl"`
	Category     *CategoryRef `json:"category"`
	UpdatedAt    string       `json:"updatedAt"`
}

// SitemapEntry is the minimal product projection for sitemap generation.
type SitemapEntry struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updatedAt"`
}

// FormatPrice renders an amount as a customer-facing KES price, e.g.
// "KES 4,500,000". Prices are whole shillings.
func FormatPrice(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	formatted := "KES " + string(out)
	if neg {
		formatted = "KES -" + string(out)
	}
	return formatted
}
