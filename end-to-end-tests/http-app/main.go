package main

import (
	"log"
	"net/http"
)

func main() {
	http.HandleFunc("/", index)
	http.HandleFunc("/greet", greet)

	log.Fatal(http.ListenAndServe(":8000", nil))
}
