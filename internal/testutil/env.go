// Package testutil provides utilities for testing garb in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points tool-sensitive environment variables at per-test
// locations. Install runs hand the ambient environment to the gradle
// phase, so tests isolate:
//   - JAVA_HOME and GRADLE_USER_HOME: never read or fill the operator's
//     real JDK or gradle caches
//   - proxy variables: downloads in tests stay on loopback httptest servers
//
// The cleanup is handled by t.TempDir() and t.Setenv(), so callers don't
// need to restore anything.
func SetupTestEnv(t *testing.T) {
	t.Helper()

	// Create temp directory (auto-cleaned by testing framework)
	tmpDir := t.TempDir()

	javaHome := filepath.Join(tmpDir, "java_home")
	gradleHome := filepath.Join(tmpDir, "gradle_home")

	t.Setenv("JAVA_HOME", javaHome)
	t.Setenv("GRADLE_USER_HOME", gradleHome)
	t.Setenv("GRADLE_OPTS", "")

	// Keep test downloads off any configured proxy
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("NO_PROXY", "*")

	// Create the directories
	for _, dir := range []string{javaHome, gradleHome} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
}
