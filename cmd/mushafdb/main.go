// Package main provides the mushafdb CLI application.
// mushafdb manages the lifecycle of the Quran corpus PostgreSQL
// database: schema, population, annotations and bulk exchange.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
