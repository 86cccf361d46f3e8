// Package main is the entrypoint for archivecrawler.
//
// All wiring (config load, logging, storage, fetcher, parser, scheduler,
// signal handling) lives in internal/cli; main only translates a returned
// error into a process exit code.
//
// Example:
//
//	go run ./cmd/archivecrawler --config configs/crawl.yaml
package main

import (
	"fmt"
	"os"

	cmd "github.com/dariuskan/archivecrawler/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
