package cart

import (
	"fmt"
	"net/url"
	"strings"
)

// CheckoutOptions configure the WhatsApp handoff. Phone is the dealership's
// number in international format without the leading plus; BaseURL is the
// public site origin used to build product links.
type CheckoutOptions struct {
	Phone   string
	BaseURL string
}

// DefaultCheckoutOptions point at the dealership's sales line and the
// production site.
var DefaultCheckoutOptions = CheckoutOptions{
	Phone:   "254741535521",
	BaseURL: "https://rideright.ke",
}

// CheckoutMessage renders the order enquiry text sent to the dealership:
// a greeting followed by each item's name and product page link.
func CheckoutMessage(items []Item, baseURL string) string {
	var b strings.Builder
	b.WriteString("Hi I'm interested in the ")
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Name)
		b.WriteString("\nLink: ")
		b.WriteString(fmt.Sprintf("%s/products/%s\n", baseURL, item.Slug))
	}
	return b.String()
}

// CheckoutLink builds the WhatsApp deep link that opens a chat with the
// dealership, pre-filled with the order enquiry for the given items.
func CheckoutLink(items []Item, opts CheckoutOptions) string {
	if opts.Phone == "" {
		opts.Phone = DefaultCheckoutOptions.Phone
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCheckoutOptions.BaseURL
	}

	params := url.Values{}
	params.Set("phone", opts.Phone)
	params.Set("text", CheckoutMessage(items, opts.BaseURL))
	params.Set("type", "phone_number")
	params.Set("app_absent", "0")

	return "https://api.whatsapp.com/send/?" + params.Encode()
}
