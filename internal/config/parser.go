package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/garb/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser represents a Lua manifest parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new manifest parser with the given platform detector.
// A nil detector skips platform injection (no `platform` table in Lua).
func NewParser(detector platform.Detector) *Parser {
	return &Parser{
		detector: detector,
		logger:   defaultLogger(),
	}
}

// WithLogger sets the logger used for parse diagnostics and returns the
// parser for chaining.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ParseString parses a Lua manifest from a string.
// This is useful for testing and in-memory manifest generation.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	p.logger.Debug("parsing manifest", "bytes", len(luaCode))

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	// Detect platform and inject platform table
	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	// Execute Lua code
	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	// Extract config from the Lua state
	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("manifest parsed",
		"bundle", cfg.Bundle.Name,
		"runtime", cfg.Runtime.Name,
		"application", cfg.Application.Name)

	return cfg, nil
}

// ParseError represents a manifest parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig extracts the config from a Lua state.
// It expects a global "garb" table; absent fields keep their defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	garbTable := L.GetGlobal(luaGlobalGarb)
	if garbTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'garb' table",
			Detail:  fmt.Sprintf("expected table, got %s", garbTable.Type()),
		}
	}

	config := Default()
	table := garbTable.(*lua.LTable)

	// Extract workdir
	if workdirVal := table.RawGetString(luaFieldWorkdir); workdirVal.Type() == lua.LTString {
		config.Workdir = workdirVal.String()
	}

	// Extract bundle
	if bundleVal := table.RawGetString(luaFieldBundle); bundleVal.Type() == lua.LTTable {
		extractBundle(bundleVal.(*lua.LTable), &config.Bundle)
	}

	// Extract runtime
	if runtimeVal := table.RawGetString(luaFieldRuntime); runtimeVal.Type() == lua.LTTable {
		rt := runtimeVal.(*lua.LTable)
		extractArtifact(rt, &config.Runtime.ArtifactConfig)
		if homeVal := rt.RawGetString(luaFieldHome); homeVal.Type() == lua.LTString {
			config.Runtime.Home = homeVal.String()
		}
	}

	// Extract application
	if appVal := table.RawGetString(luaFieldApplication); appVal.Type() == lua.LTTable {
		extractArtifact(appVal.(*lua.LTable), &config.Application)
	}

	// Extract build
	if buildVal := table.RawGetString(luaFieldBuild); buildVal.Type() == lua.LTTable {
		extractBuild(buildVal.(*lua.LTable), &config.Build)
	}

	// Extract launchers
	if launchersVal := table.RawGetString(luaFieldLaunchers); launchersVal.Type() == lua.LTTable {
		config.Launchers = extractLaunchers(launchersVal.(*lua.LTable))
	}

	// Validate the extracted config
	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractBundle extracts the bundle section from a Lua table.
func extractBundle(table *lua.LTable, bundle *BundleConfig) {
	if nameVal := table.RawGetString(luaFieldName); nameVal.Type() == lua.LTString {
		bundle.Name = nameVal.String()
	}
	if appletVal := table.RawGetString(luaFieldApplet); appletVal.Type() == lua.LTString {
		bundle.Applet = appletVal.String()
	}
}

// extractArtifact extracts one artifact declaration from a Lua table.
func extractArtifact(table *lua.LTable, art *ArtifactConfig) {
	if nameVal := table.RawGetString(luaFieldName); nameVal.Type() == lua.LTString {
		art.Name = nameVal.String()
	}
	if urlVal := table.RawGetString(luaFieldURL); urlVal.Type() == lua.LTString {
		art.URL = urlVal.String()
	}
	if shaVal := table.RawGetString(luaFieldSHA256); shaVal.Type() == lua.LTString {
		art.SHA256 = shaVal.String()
	}
	if sigVal := table.RawGetString(luaFieldSignature); sigVal.Type() == lua.LTString {
		art.Signature = sigVal.String()
	}
	if keyVal := table.RawGetString(luaFieldKeyring); keyVal.Type() == lua.LTString {
		art.Keyring = keyVal.String()
	}
}

// extractBuild extracts the build section from a Lua table.
func extractBuild(table *lua.LTable, build *BuildConfig) {
	if enabledVal := table.RawGetString(luaFieldEnabled); enabledVal.Type() == lua.LTBool {
		build.Enabled = bool(enabledVal.(lua.LBool))
	}
	if targetVal := table.RawGetString(luaFieldTarget); targetVal.Type() == lua.LTString {
		build.Target = targetVal.String()
	}
}

// extractLaunchers extracts the launchers array from a Lua table.
// It filters out nil values from platform conditionals.
func extractLaunchers(table *lua.LTable) []string {
	var launchers []string

	// Iterate over array elements
	table.ForEach(func(key, value lua.LValue) {
		// Skip nil values (from conditionals like: platform.when(platform.is_macos, "ghidraRun"))
		if value.Type() == lua.LTNil {
			return
		}

		// Skip non-string values
		if value.Type() != lua.LTString {
			return
		}

		// Keep all strings, even empty ones (validation will catch them later)
		launchers = append(launchers, value.String())
	})

	return launchers
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		// Extract the most relevant part of the error
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
