package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator generates Lua manifest code from Go structs.
type Generator struct {
	indent string // Indentation string (default: two spaces)
}

// NewGenerator creates a new Lua manifest generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ", // Two spaces
	}
}

// Generate generates Lua code from a Config struct.
// The output is formatted and human-readable.
func (g *Generator) Generate(config *Config) (string, error) {
	var buf bytes.Buffer

	// Write header comment
	buf.WriteString("-- garb manifest\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(time.Now().Format(time.RFC3339))
	buf.WriteString("\n\n")

	g.writeConfig(&buf, config)

	return buf.String(), nil
}

// Starter returns the manifest written by `garb init`: the defaults plus
// pinned runtime and application releases, ready to install or edit.
func (g *Generator) Starter() string {
	var buf bytes.Buffer

	buf.WriteString("-- garb manifest\n")
	buf.WriteString("-- Declares what `garb install` downloads and how the bundle is assembled.\n")
	buf.WriteString("--\n")
	buf.WriteString("-- Digests pin exact release bytes. When changing a url, take the new\n")
	buf.WriteString("-- sha256 from the publisher's checksum listing.\n\n")

	g.writeConfig(&buf, StarterConfig())

	return buf.String()
}

// StarterConfig returns the defaults seeded with the pinned runtime and
// application releases.
func StarterConfig() *Config {
	cfg := Default()
	cfg.Runtime.URL = starterRuntimeURL
	cfg.Runtime.SHA256 = starterRuntimeSHA256
	cfg.Application.URL = starterApplicationURL
	cfg.Application.SHA256 = starterApplicationSHA256
	return cfg
}

// writeConfig writes the garb table to the buffer.
func (g *Generator) writeConfig(buf *bytes.Buffer, config *Config) {
	buf.WriteString("garb = {\n")

	buf.WriteString(g.indent)
	buf.WriteString("workdir = ")
	buf.WriteString(g.quoteLuaString(config.Workdir))
	buf.WriteString(",\n\n")

	g.writeBundle(buf, config.Bundle)
	g.writeArtifact(buf, luaFieldRuntime, config.Runtime.ArtifactConfig, config.Runtime.Home)
	g.writeArtifact(buf, luaFieldApplication, config.Application, "")
	g.writeBuild(buf, config.Build)
	g.writeLaunchers(buf, config.Launchers)

	buf.WriteString("}\n")
}

// writeBundle writes the bundle section to the buffer.
func (g *Generator) writeBundle(buf *bytes.Buffer, bundle BundleConfig) {
	buf.WriteString(g.indent)
	buf.WriteString("bundle = {\n")

	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("name = ")
	buf.WriteString(g.quoteLuaString(bundle.Name))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("applet = ")
	buf.WriteString(g.quoteLuaString(bundle.Applet))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeArtifact writes one artifact section to the buffer. home is written
// only when non-empty (the runtime's JAVA_HOME subpath).
func (g *Generator) writeArtifact(buf *bytes.Buffer, field string, art ArtifactConfig, home string) {
	buf.WriteString(g.indent)
	buf.WriteString(field)
	buf.WriteString(" = {\n")

	if art.Name != "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("name = ")
		buf.WriteString(g.quoteLuaString(art.Name))
		buf.WriteString(",\n")
	}

	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("url = ")
	buf.WriteString(g.quoteLuaString(art.URL))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("sha256 = ")
	buf.WriteString(g.quoteLuaString(art.SHA256))
	buf.WriteString(",\n")

	if art.Signature != "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("signature = ")
		buf.WriteString(g.quoteLuaString(art.Signature))
		buf.WriteString(",\n")
	}
	if art.Keyring != "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("keyring = ")
		buf.WriteString(g.quoteLuaString(art.Keyring))
		buf.WriteString(",\n")
	}

	if home != "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("home = ")
		buf.WriteString(g.quoteLuaString(home))
		buf.WriteString(",\n")
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeBuild writes the build section to the buffer.
func (g *Generator) writeBuild(buf *bytes.Buffer, build BuildConfig) {
	buf.WriteString(g.indent)
	buf.WriteString("build = {\n")

	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(fmt.Sprintf("enabled = %t,\n", build.Enabled))

	if build.Target != "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("target = ")
		buf.WriteString(g.quoteLuaString(build.Target))
		buf.WriteString(",\n")
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeLaunchers writes the launchers section to the buffer.
func (g *Generator) writeLaunchers(buf *bytes.Buffer, launchers []string) {
	buf.WriteString(g.indent)
	buf.WriteString("launchers = {\n")

	for _, launcher := range launchers {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString(g.quoteLuaString(launcher))
		buf.WriteString(",\n")
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	// Use double quotes and escape special characters
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"") // Escape double quotes
	s = strings.ReplaceAll(s, "\n", "\\n")  // Escape newlines
	s = strings.ReplaceAll(s, "\r", "\\r")  // Escape carriage returns
	s = strings.ReplaceAll(s, "\t", "\\t")  // Escape tabs
	return "\"" + s + "\""
}
