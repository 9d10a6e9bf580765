package main

import (
	"os"

	"librarynet/internal/config"
)

func main() {
	config.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
