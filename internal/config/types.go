// Package config provides Lua manifest parsing, validation, and generation
// for garb's declarative install configuration.
//
// It uses gopher-lua for safe, sandboxed Lua execution with platform
// detection integration. The manifest declares the artifacts to install and
// the bundle layout to assemble them into.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the complete garb configuration.
// This matches the Lua schema of garb.lua.
type Config struct {
	// Workdir holds cached archives, staging trees, the applet, the
	// receipt, and the bundle itself
	Workdir string `json:"workdir"`

	// Bundle describes the application bundle to assemble
	Bundle BundleConfig `json:"bundle"`

	// Runtime is the Java runtime artifact provisioned into the bundle
	Runtime RuntimeConfig `json:"runtime"`

	// Application is the application release artifact
	Application ArtifactConfig `json:"application"`

	// Build controls the native build phase
	Build BuildConfig `json:"build"`

	// Launchers are entry-point scripts made executable after install,
	// relative to the installed application directory
	Launchers []string `json:"launchers,omitempty"`
}

// BundleConfig describes the application bundle skeleton.
type BundleConfig struct {
	// Name of the bundle directory ("Ghidra.app")
	Name string `json:"name"`

	// Applet is the AppleScript source compiled into the skeleton,
	// relative to the workdir unless absolute
	Applet string `json:"applet"`
}

// ArtifactConfig describes one remote archive to fetch and verify.
type ArtifactConfig struct {
	// Name labels the artifact in status output
	Name string `json:"name,omitempty"`

	// URL of the archive
	URL string `json:"url"`

	// SHA256 is the expected hex digest. Mandatory: validation fails
	// closed when it is absent or malformed.
	SHA256 string `json:"sha256"`

	// Signature optionally locates a detached PGP signature (.sig/.asc)
	Signature string `json:"signature,omitempty"`

	// Keyring is the local public key used to check Signature.
	// Required when Signature is set.
	Keyring string `json:"keyring,omitempty"`
}

// RuntimeConfig is the runtime artifact plus the home subpath inside its
// installed tree (the JAVA_HOME of macOS JDK archives is Contents/Home).
type RuntimeConfig struct {
	ArtifactConfig

	Home string `json:"home,omitempty"`
}

// BuildConfig controls the native build phase.
type BuildConfig struct {
	// Enabled runs the build phase when true (the default)
	Enabled bool `json:"enabled"`

	// Target is the gradle task to invoke
	Target string `json:"target,omitempty"`
}

// Default returns a Config carrying the defaults that reproduce the
// original installer layout. Artifact URLs and digests have no defaults:
// they must come from the manifest.
func Default() *Config {
	return &Config{
		Workdir: DefaultWorkdir,
		Bundle: BundleConfig{
			Name:   DefaultBundleName,
			Applet: DefaultApplet,
		},
		Runtime: RuntimeConfig{
			ArtifactConfig: ArtifactConfig{Name: DefaultRuntimeName},
			Home:           DefaultRuntimeHome,
		},
		Application: ArtifactConfig{Name: DefaultApplicationName},
		Build: BuildConfig{
			Enabled: true,
			Target:  DefaultBuildTarget,
		},
		Launchers: []string{"support/launch.sh", "ghidraRun"},
	}
}

// Validate checks a Config for consistency. Integrity settings fail
// closed: an artifact without a well-formed digest is rejected rather
// than installed unverified.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workdir) == "" {
		return &ValidationError{Field: "workdir", Message: "cannot be empty"}
	}

	if strings.TrimSpace(c.Bundle.Name) == "" {
		return &ValidationError{Field: "bundle.name", Message: "cannot be empty"}
	}
	if strings.TrimSpace(c.Bundle.Applet) == "" {
		return &ValidationError{Field: "bundle.applet", Message: "cannot be empty"}
	}

	if err := validateArtifact(c.Runtime.ArtifactConfig); err != nil {
		return prefixField("runtime", err)
	}
	if err := validateArtifact(c.Application); err != nil {
		return prefixField("application", err)
	}

	if c.Build.Enabled && strings.TrimSpace(c.Build.Target) == "" {
		return &ValidationError{Field: "build.target", Message: "cannot be empty when the build is enabled"}
	}

	for i, launcher := range c.Launchers {
		if err := validateLauncherPath(launcher); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("launchers[%d]", i),
				Message: err.Error(),
			}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// prefixField qualifies a nested ValidationError with its parent field.
func prefixField(parent string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		field := parent
		if ve.Field != "" {
			field = parent + "." + ve.Field
		}
		return &ValidationError{Field: field, Message: ve.Message}
	}
	return err
}

// digestPattern matches a 64-character hex SHA-256 digest.
var digestPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// validateArtifact checks one artifact declaration.
func validateArtifact(a ArtifactConfig) error {
	if strings.TrimSpace(a.URL) == "" {
		return &ValidationError{Field: "url", Message: "cannot be empty"}
	}
	if err := validateArtifactURL(a.URL); err != nil {
		return &ValidationError{Field: "url", Message: err.Error()}
	}

	digest := strings.TrimSpace(a.SHA256)
	digest = strings.TrimPrefix(digest, "sha256:")
	if digest == "" {
		return &ValidationError{Field: "sha256", Message: "digest is required (integrity checks fail closed)"}
	}
	if !digestPattern.MatchString(digest) {
		return &ValidationError{
			Field:   "sha256",
			Message: fmt.Sprintf("not a 64-character hex digest: %q", a.SHA256),
		}
	}

	if a.Signature != "" {
		if err := validateArtifactURL(a.Signature); err != nil {
			return &ValidationError{Field: "signature", Message: err.Error()}
		}
		if strings.TrimSpace(a.Keyring) == "" {
			return &ValidationError{Field: "keyring", Message: "required when signature is set"}
		}
	}

	return nil
}

// validateArtifactURL accepts http and https URLs only. Embedded
// credentials are rejected: URLs end up in receipts and status output.
func validateArtifactURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", raw)
	}
	if u.User != nil {
		return fmt.Errorf("URL must not embed credentials")
	}
	return nil
}

// validateLauncherPath checks that a launcher path stays inside the
// installed application directory.
func validateLauncherPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("path must be relative: %s", path)
	}

	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}

	return nil
}
