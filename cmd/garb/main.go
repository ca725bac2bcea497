package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("garb %s\n", Version)
			fmt.Println("Ghidra App & Runtime Bundler")
			return
		case "init":
			// Handle garb init subcommand
			if err := runInit(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "install":
			// Handle garb install subcommand
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "verify":
			// Handle garb verify subcommand
			exitCode, err := runVerify(os.Args[2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return
		case "clean":
			// Handle garb clean subcommand
			if err := runClean(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "platform":
			// Handle garb platform subcommand
			if err := runPlatform(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			fmt.Fprintln(os.Stderr, "Run 'garb help' for usage")
			os.Exit(1)
		}
	}

	// Default: show help
	printUsage()
}

func printUsage() {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║  GARB - Ghidra App & Runtime Bundler                      ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("garb assembles a self-contained Ghidra.app from a Lua manifest:")
	fmt.Println("it downloads the pinned Java runtime and Ghidra release, verifies")
	fmt.Println("their checksums, and packs both into an application bundle.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  garb init [--force]                 Write a starter garb.lua and create the workdir")
	fmt.Println("  garb install [options]              Assemble the bundle from the manifest")
	fmt.Println("  garb verify [--config path]         Compare the installed bundle against the manifest")
	fmt.Println("  garb clean [--config path] [--all]  Remove staging trees and cached archives")
	fmt.Println("  garb platform                       Show detected platform details")
	fmt.Println("  garb version                        Show version information")
	fmt.Println("  garb help                           Show this help message")
	fmt.Println()
	fmt.Println("Run 'garb <command> --help' for command options.")
}
