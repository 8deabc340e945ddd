package main

import (
	"fmt"
	"log"
	"net/http"
)

type catalog struct {
	prices map[string]int
}

// NewCatalog returns a catalog seeded with a few items.
func NewCatalog() *catalog {
	return &catalog{prices: map[string]int{"widget": 5, "gadget": 9}}
}

// Lookup returns the price of an item in cents.
//
// Deprecated: use PriceOf, which reports missing items.
func (c *catalog) Lookup(item string) int {
	return c.prices[item]
}

// PriceOf returns the price of an item in cents and whether it is stocked.
func (c *catalog) PriceOf(item string) (int, bool) {
	price, ok := c.prices[item]
	return price, ok
}

// Deprecated: format prices with PriceOf and fmt directly.
func formatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func main() {
	c := NewCatalog()

	http.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		item := r.URL.Query().Get("item")
		fmt.Fprintln(w, formatPrice(c.Lookup(item)))
	})

	log.Fatal(http.ListenAndServe(":8000", nil))
}
