package main

import (
	"log"

	"github.com/deprecation-tools/go-deprecation-instrumentation/cmd"
)

func main() {
	log.Default().SetFlags(0)
	cmd.Execute()
}
