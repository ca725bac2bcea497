package config

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ZebulonRouseFrantzich/garb/internal/platform"
)

// concurrentTestManifest is a small valid manifest shared by the
// concurrency tests.
var concurrentTestManifest = `
	garb = {
		runtime = {
			url = "https://example.com/jdk.tar.gz",
			sha256 = "` + strings.Repeat("ab", 32) + `",
		},
		application = {
			url = "https://example.com/ghidra.zip",
			sha256 = "` + strings.Repeat("cd", 32) + `",
		},
	}
`

// TestParser_Concurrent tests that the parser is safe for concurrent use.
// Each parse gets its own Lua state.
func TestParser_Concurrent(t *testing.T) {
	parser := NewParser(nil)

	const numGoroutines = 100
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := parser.ParseString(context.Background(), concurrentTestManifest)
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	// Check for any errors
	for err := range errors {
		t.Errorf("Concurrent parse failed: %v", err)
	}
}

// TestGenerator_Concurrent tests that the generator is safe for concurrent use.
func TestGenerator_Concurrent(t *testing.T) {
	gen := NewGenerator()
	config := validTestConfig()

	const numGoroutines = 100
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gen.Generate(config)
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	// Check for any errors
	for err := range errors {
		t.Errorf("Concurrent generation failed: %v", err)
	}
}

// TestParser_ConcurrentWithPlatform tests concurrent parsing with platform
// detection and conditionals in the manifest.
func TestParser_ConcurrentWithPlatform(t *testing.T) {
	detector := &mockDetector{
		info: &platform.Info{
			OS:      "darwin",
			Arch:    "arm64",
			ArchRaw: "arm64",
		},
	}
	parser := NewParser(detector)
	luaCode := `
		garb = {
			runtime = {
				url = "https://example.com/jdk.tar.gz",
				sha256 = "` + strings.Repeat("ab", 32) + `",
			},
			application = {
				url = "https://example.com/ghidra.zip",
				sha256 = "` + strings.Repeat("cd", 32) + `",
			},
			launchers = {
				"ghidraRun",
				platform.is_macos and "support/launch.sh" or nil,
			},
		}
	`

	const numGoroutines = 50
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			config, err := parser.ParseString(context.Background(), luaCode)
			if err != nil {
				errors <- err
				return
			}
			// Verify the conditional resolved on every parse
			if len(config.Launchers) != 2 {
				errors <- &ValidationError{Message: "expected 2 launchers"}
			}
		}()
	}

	wg.Wait()
	close(errors)

	// Check for any errors
	for err := range errors {
		t.Errorf("Concurrent parse with platform failed: %v", err)
	}
}
