package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/garb/internal/artifact"
	"github.com/ZebulonRouseFrantzich/garb/internal/platform"
	"github.com/ZebulonRouseFrantzich/garb/internal/run"
	"github.com/ZebulonRouseFrantzich/garb/internal/service"
)

// runInstall handles the `garb install` subcommand
func runInstall(args []string) error {
	// Parse flags
	showHelp := false
	skipBuild := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			showHelp = true
		case "--skip-build":
			skipBuild = true
		case "--config", "-c":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a path")
			}
			i++
			configPath = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'garb install --help' for usage", args[i])
		}
	}

	if showHelp {
		printInstallHelp()
		return nil
	}

	// Ctrl-C cancels the pipeline and unwinds as a fatal error
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()

	cfg, err := loadManifest(ctx, configPath)
	if err != nil {
		return err
	}

	term := newUI()

	// The bundling tool and bundle layout are macOS-specific. The run
	// still proceeds elsewhere and fails naturally at the skeleton phase
	// when osacompile is absent.
	if info, err := platform.NewDetector().Detect(ctx); err == nil && info.OS != "darwin" {
		term.Warnf("Host is %s/%s; %s bundles are assembled for macOS", info.OS, info.Arch, cfg.Bundle.Name)
	}

	svc := service.NewInstallService(
		cfg,
		artifact.NewDownloader(term.Progress),
		run.ExecRunner{},
		service.RealClock{},
		term,
		Version,
	)

	result, err := svc.Execute(ctx, service.InstallRequest{SkipBuild: skipBuild})
	if err != nil {
		return err
	}

	fmt.Println()
	term.Successf("%s installation completed successfully!", cfg.Application.Name)
	term.Infof("Bundle:  %s", result.BundlePath)
	if result.ReceiptPath != "" {
		term.Infof("Receipt: %s", result.ReceiptPath)
	}
	term.Infof("Move %s to /Applications to finish", result.BundlePath)

	return nil
}

// printInstallHelp prints help for the install command
func printInstallHelp() {
	fmt.Println("Usage: garb install [options]")
	fmt.Println()
	fmt.Println("Assemble the application bundle the manifest declares: compile the")
	fmt.Println("applet into a bundle skeleton, download and verify the runtime and")
	fmt.Println("application archives, install both into the bundle, build native")
	fmt.Println("binaries, and mark the launchers executable.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help         Show this help message")
	fmt.Println("  -c, --config path  Manifest to install from (default: garb.lua)")
	fmt.Println("  --skip-build       Skip the native build phase")
	fmt.Println()
	fmt.Println("Re-runs are incremental: verified archives are served from the")
	fmt.Println("cache, and an existing bundle skeleton is kept. A cached archive")
	fmt.Println("that fails verification is discarded and fetched once more.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  garb install                      Full install from ./garb.lua")
	fmt.Println("  garb install --skip-build         Skip the gradle phase")
	fmt.Println("  garb install --config pin.lua     Install from another manifest")
}
