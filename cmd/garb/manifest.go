package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/garb/internal/config"
	"github.com/ZebulonRouseFrantzich/garb/internal/platform"
)

// loadManifest reads, parses, and validates the Lua manifest at path.
// An empty path selects the default garb.lua in the current directory.
func loadManifest(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultManifestName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest %s not found\nRun 'garb init' to create a starter manifest", path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	parser := config.NewParser(platform.NewDetector())
	cfg, err := parser.ParseString(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %s", path, config.FormatError(err, false))
	}

	return cfg, nil
}
