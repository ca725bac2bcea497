package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/garb/internal/platform"
)

// runPlatform handles the `garb platform` subcommand
func runPlatform(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			fmt.Println("Usage: garb platform")
			fmt.Println()
			fmt.Println("Print the detected host platform: OS, architecture, and the")
			fmt.Println("macOS release. The same values are exposed to manifests through")
			fmt.Println("the Lua 'platform' table.")
			return nil
		default:
			return fmt.Errorf("unknown option: %s", arg)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	fmt.Printf("OS:           %s\n", info.OS)
	fmt.Printf("Architecture: %s (raw: %s)\n", info.Arch, info.ArchRaw)
	fmt.Printf("Java arch:    %s\n", info.JavaArch())
	if info.IsMacOS() {
		if info.Version != "" {
			fmt.Printf("Release:      macOS %s (%s)\n", info.Version, info.Release)
		}
		fmt.Println("Bundling:     supported (osacompile host)")
	} else {
		if info.Version != "" {
			fmt.Printf("Version:      %s\n", info.Version)
		}
		fmt.Println("Bundling:     unsupported (macOS required for the skeleton phase)")
	}

	return nil
}
