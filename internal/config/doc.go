// Package config provides secure Lua manifest parsing, validation, and
// generation for garb's declarative install configuration.
//
// # Overview
//
// The config package lets operators describe an installation in a Lua
// manifest (garb.lua) instead of editing hardcoded constants. It provides:
//   - Bidirectional conversion between Lua manifests and Go structs
//   - Platform-aware conditional values (per-OS/arch artifact URLs)
//   - Sandboxed execution of manifest code
//   - Fail-closed integrity validation (every artifact needs a digest)
//
// # Architecture
//
// The package uses gopher-lua, a pure Go Lua 5.1 VM, for safe sandboxed
// execution of user manifests. Platform information from the platform
// package is injected as a read-only table, enabling per-platform values.
//
// Key components:
//   - Parser: Lua → Go struct conversion with platform detection
//   - Generator: Go struct → Lua code generation (the `garb init` starter)
//   - Sandbox: Restricted Lua VM preventing dangerous operations
//   - Validator: Config.Validate, the fail-closed integrity gate
//
// # Security Model
//
// ## Sandboxing
//
// Manifest code runs in a restricted sandbox that prevents:
//   - System command execution (os.execute, os.exit, etc.)
//   - Filesystem access (io.open, io.popen, etc.)
//   - External code loading (require, dofile, loadfile, load, loadstring)
//   - Sandbox introspection via the debug library
//
// Safe operations preserved:
//   - String manipulation (string library)
//   - Table operations (table library)
//   - Math operations (math library)
//   - Basic utilities (type, tostring, tonumber, pairs, ipairs)
//
// ## Input Validation
//
// Validate enforces, before any network or filesystem work happens:
//   - Artifact URLs: must parse and use https:// or http://
//   - Digests: 64-character hex SHA-256, mandatory for both artifacts;
//     a missing digest is a validation error, never a skipped check
//   - keyring: required whenever signature is set
//   - Launcher paths: relative, no parent-directory traversal
//   - workdir, bundle.name, bundle.applet: non-empty
//
// # Usage
//
// ## Basic Parsing
//
// Parse a Lua manifest string into a Go struct:
//
//	parser := config.NewParser(platformDetector)
//	cfg, err := parser.ParseString(ctx, luaCode)
//	if err != nil {
//	    log.Fatalf("Parse error: %v", err)
//	}
//
// ## Generating Manifests
//
// Generate the `garb init` starter:
//
//	gen := config.NewGenerator()
//	lua := gen.Starter()
//
// ## Platform Conditionals
//
// Manifests can pick values per platform:
//
//	garb = {
//	  runtime = {
//	    url = platform.is_arm64
//	      and "https://example.com/jdk_macos-aarch64.tar.gz"
//	      or  "https://example.com/jdk_macos-x64.tar.gz",
//	    sha256 = platform.is_arm64 and "aaaa..." or "bbbb...",
//	  },
//	}
//
// ## Structured Logging
//
// Add logging to track manifest operations:
//
//	parser := config.NewParser(detector).WithLogger(myLogger)
//	cfg, err := parser.ParseString(ctx, luaCode)
//
// # Configuration Schema
//
// Lua manifest structure (absent fields keep their defaults):
//
//	garb = {
//	  workdir = "ghidra_install",
//	  bundle = {
//	    name = "Ghidra.app",
//	    applet = "Ghidra-OSX-Launcher-Script.scpt",
//	  },
//	  runtime = {
//	    name = "OpenJDK",
//	    url = "https://...",
//	    sha256 = "b3d5...",
//	    home = "Contents/Home",       -- JAVA_HOME subpath
//	    -- signature = "https://....sig", keyring = "keys/publisher.asc",
//	  },
//	  application = {
//	    name = "Ghidra",
//	    url = "https://...",
//	    sha256 = "795a...",
//	  },
//	  build = { enabled = true, target = "buildNatives" },
//	  launchers = { "support/launch.sh", "ghidraRun" },
//	}
//
// # Thread Safety
//
// Parser and Generator instances hold no mutable state between operations
// and are safe for concurrent use; each parse runs in its own Lua state.
//
// # Error Types
//
//	type ParseError struct {
//	    Message string  // User-friendly message
//	    Detail  string  // Technical details (raw Lua error)
//	}
//
//	type ValidationError struct {
//	    Field   string  // Field that failed validation
//	    Message string  // Error description
//	}
//
// # Design Decisions
//
// ## Why Lua for the manifest?
//
//   - Programmatic: platform conditionals replace URL/digest matrices
//   - Familiar config surface (Neovim, Hammerspoon use Lua)
//   - Easy to generate programmatically for `garb init`
//
// ## Why fail-closed digests?
//
// The installer exists to produce a trustworthy bundle. A manifest entry
// without a digest would silently disable integrity checking, so validation
// rejects it instead.
//
// # Related Packages
//
//   - internal/platform: platform detection for conditionals
//   - internal/artifact: consumes the validated artifact declarations
//
// # References
//
//   - gopher-lua: https://github.com/yuin/gopher-lua
//   - Lua 5.1 manual: https://www.lua.org/manual/5.1/
package config
