package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/garb/internal/service"
)

// runClean handles the `garb clean` subcommand
func runClean(args []string) error {
	// Parse flags
	showHelp := false
	all := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			showHelp = true
		case "--all", "-a":
			all = true
		case "--config", "-c":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a path")
			}
			i++
			configPath = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'garb clean --help' for usage", args[i])
		}
	}

	if showHelp {
		printCleanHelp()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadManifest(ctx, configPath)
	if err != nil {
		return err
	}

	result, err := service.NewCleanService(cfg).Execute(ctx, service.CleanRequest{All: all})
	if err != nil {
		return fmt.Errorf("clean workdir: %w", err)
	}

	if len(result.Removed) == 0 {
		fmt.Println("Nothing to remove.")
		return nil
	}

	fmt.Println("Removed:")
	for _, path := range result.Removed {
		fmt.Printf("  ✓ %s\n", path)
	}

	return nil
}

// printCleanHelp prints help for the clean command
func printCleanHelp() {
	fmt.Println("Usage: garb clean [options]")
	fmt.Println()
	fmt.Println("Remove what install runs leave in the working directory: staging")
	fmt.Println("trees, cached archives, and cached signature files. The assembled")
	fmt.Println("bundle and the install receipt are kept unless --all is given.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help         Show this help message")
	fmt.Println("  -a, --all          Also remove the bundle and the receipt")
	fmt.Println("  -c, --config path  Manifest describing the workdir (default: garb.lua)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  garb clean          Reclaim cache and staging space")
	fmt.Println("  garb clean --all    Return the workdir to a pre-install state")
}
