package main

import (
	"fmt"
	"os"

	"pdfinbox/internal/log"
)

var version = "dev"

// Entry point for the application
func main() {
	a := newApp()
	err := a.command().Execute()
	if err != nil {
		log.LogError(err, "command failed")
	}
	a.close()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
