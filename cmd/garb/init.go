package main

import (
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/garb/internal/config"
)

// runInit handles the `garb init` subcommand
func runInit(args []string) error {
	// Parse flags
	showHelp := false
	force := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--force", "-f":
			force = true
		default:
			return fmt.Errorf("unknown option: %s\nRun 'garb init --help' for usage", arg)
		}
	}

	if showHelp {
		printInitHelp()
		return nil
	}

	manifestPath := config.DefaultManifestName

	// Refuse to clobber an existing manifest unless forced
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists\nUse --force to overwrite it", manifestPath)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("check manifest: %w", err)
	}

	starter := config.StarterConfig()

	// Write the starter manifest
	generator := config.NewGenerator()
	if err := os.WriteFile(manifestPath, []byte(generator.Starter()), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("✓ Created %s\n", manifestPath)

	// Create the workdir so the operator has a place for the applet
	if err := os.MkdirAll(starter.Workdir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	fmt.Printf("✓ Created %s/\n", starter.Workdir)

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Place your applet script at %s/%s\n", starter.Workdir, starter.Bundle.Applet)
	fmt.Printf("  2. Review the pinned releases in %s\n", manifestPath)
	fmt.Println("  3. Run: garb install")

	return nil
}

// printInitHelp prints help for the init command
func printInitHelp() {
	fmt.Println("Usage: garb init [options]")
	fmt.Println()
	fmt.Println("Write a starter garb.lua manifest into the current directory and")
	fmt.Println("create the working directory it declares. The starter pins known")
	fmt.Println("OpenJDK and Ghidra releases with their SHA-256 digests.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help   Show this help message")
	fmt.Println("  -f, --force  Overwrite an existing garb.lua")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  garb init           Create garb.lua and the workdir")
	fmt.Println("  garb init --force   Replace an edited garb.lua with the starter")
}
