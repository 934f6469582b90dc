package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shaderopt/internal/packscan"
)

// scanPack runs a pack scan with the persistent flags applied.
func scanPack(cmd *cobra.Command, dir string) (*packscan.Result, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	var cache *packscan.Cache
	if !noCache {
		// A cache that fails to open only costs speed, not correctness.
		cache, _ = packscan.OpenCache("shaderopt")
	}

	result, err := packscan.Scan(context.Background(), dir, packscan.Options{
		Jobs:  jobs,
		Cache: cache,
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return result, nil
}
