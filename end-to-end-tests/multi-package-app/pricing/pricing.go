package pricing

import "fmt"

// Total returns the total price in cents for n items at unit price cents.
func Total(n, cents int) int {
	return n * cents
}

// Format renders a price in cents as a dollar string.
//
// Deprecated: render prices with golang.org/x/text/currency instead.
func Format(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
