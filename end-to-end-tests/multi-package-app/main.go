package main

import (
	"fmt"
	"multi-package-app/inventory"
	"multi-package-app/pricing"
)

func main() {
	fmt.Println("Running multi package test app")
	store := inventory.NewStore()
	store.Add("widget", 3)
	count := store.Count("widget")
	fmt.Printf("widgets in stock: %d\n", count)

	total := pricing.Total(count, 599)
	fmt.Println(pricing.Format(total))
}
