package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/promptress"
)

func main() {
	if err := promptress.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "promptress: %v\n", err)
		os.Exit(promptress.ExitStatus(err))
	}
}
