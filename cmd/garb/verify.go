package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"

	"github.com/ZebulonRouseFrantzich/garb/internal/service"
)

// runVerify handles the `garb verify` subcommand
// Returns an exit code (0 = installation matches, 1 = divergence) and an error
func runVerify(args []string) (int, error) {
	// Parse flags
	showHelp := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			showHelp = true
		case "--config", "-c":
			if i+1 >= len(args) {
				return 1, fmt.Errorf("--config requires a path")
			}
			i++
			configPath = args[i]
		default:
			return 1, fmt.Errorf("unknown option: %s\nRun 'garb verify --help' for usage", args[i])
		}
	}

	if showHelp {
		printVerifyHelp()
		return 0, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadManifest(ctx, configPath)
	if err != nil {
		return 1, err
	}

	report, err := service.NewVerifyService(cfg).Execute(ctx, service.VerifyRequest{})
	if err != nil {
		return 1, fmt.Errorf("verify installation: %w", err)
	}

	fmt.Printf("Verifying %s against %s\n\n", cfg.Bundle.Name, manifestLabel(configPath))
	for _, check := range report.Checks {
		line := fmt.Sprintf("%s %s", check.Status.Symbol(), check.Name)
		if check.Detail != "" {
			line += ": " + check.Detail
		}
		switch check.Status {
		case service.CheckOK:
			color.Green.Println(line)
		case service.CheckMissing:
			color.Red.Println(line)
		default:
			color.Yellow.Println(line)
		}
	}

	if report.Diverged() {
		fmt.Println()
		fmt.Println("Installation diverges from the manifest.")
		fmt.Println("Run 'garb install' to bring it back in line.")
		return 1, nil
	}

	fmt.Println()
	fmt.Println("Installation matches the manifest.")
	return 0, nil
}

func manifestLabel(configPath string) string {
	if configPath == "" {
		return "garb.lua"
	}
	return configPath
}

// printVerifyHelp prints help for the verify command
func printVerifyHelp() {
	fmt.Println("Usage: garb verify [options]")
	fmt.Println()
	fmt.Println("Compare an existing installation against the manifest: cached")
	fmt.Println("archive digests, bundle presence, installed trees, launcher")
	fmt.Println("executable bits, and the install receipt. Nothing is modified.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help         Show this help message")
	fmt.Println("  -c, --config path  Manifest to verify against (default: garb.lua)")
	fmt.Println()
	fmt.Println("Check symbols:")
	fmt.Println("  ✓  item matches the manifest")
	fmt.Println("  ✗  item is missing")
	fmt.Println("  ⚠  item exists but is stale (bad digest, lost permission, old receipt)")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  Installation matches the manifest")
	fmt.Println("  1  One or more checks diverged")
}
