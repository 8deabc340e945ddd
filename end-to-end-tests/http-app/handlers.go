package main

import (
	"fmt"
	"io"
	"net/http"
)

func index(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "hello world")
}

// greet responds with a greeting for the caller.
//
// Deprecated: greetings moved to the v2 API.
func greet(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "stranger"
	}
	fmt.Fprintf(w, "hello %s\n", name)
}
