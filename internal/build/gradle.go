// Package build invokes the application's bundled Gradle wrapper to
// compile platform-native helper binaries.
//
// The build phase is deliberately forgiving: upstream releases often ship
// prebuilt natives, so a missing wrapper or a failed build is reported to
// the caller as a typed condition rather than aborting the install.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/garb/internal/artifact"
	"github.com/ZebulonRouseFrantzich/garb/internal/run"
)

// DefaultTarget is the gradle task that compiles the native helpers.
const DefaultTarget = "buildNatives"

// gradle wrapper location beneath the installed application directory.
const (
	gradleSubdir = "support/gradle"
	wrapperName  = "gradlew"
)

// ErrGradleMissing reports that the application ships no gradle wrapper
// at the expected location. Callers treat it as a warning, not a failure
// of the installation.
var ErrGradleMissing = errors.New("gradle wrapper not found")

// BuildError reports a gradle run that started but exited nonzero. The
// captured output is carried so the operator can see what broke.
type BuildError struct {
	Target   string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("gradle %s failed with exit code %d", e.Target, e.ExitCode)
}

// Output renders the captured build output for display, labeling the
// streams the way the operator would see them when running gradle by
// hand.
func (e *BuildError) Output() string {
	var b strings.Builder
	if out := strings.TrimSpace(e.Stdout); out != "" {
		b.WriteString("stdout:\n")
		b.WriteString(out)
		b.WriteString("\n")
	}
	if out := strings.TrimSpace(e.Stderr); out != "" {
		b.WriteString("stderr:\n")
		b.WriteString(out)
		b.WriteString("\n")
	}
	return b.String()
}

// Invoker runs the native build through a Runner.
type Invoker struct {
	runner run.Runner
}

// NewInvoker creates an invoker backed by the given runner.
func NewInvoker(runner run.Runner) *Invoker {
	return &Invoker{runner: runner}
}

// Invoke compiles the native helpers of the application installed at
// appDir, using the Java runtime rooted at javaHome. An empty target
// means DefaultTarget.
//
// The wrapper is located at <appDir>/support/gradle/gradlew and made
// executable before the run; the working directory is the gradle
// directory itself. Returns ErrGradleMissing when the tooling is absent
// and *BuildError when gradle exits nonzero.
func (i *Invoker) Invoke(ctx context.Context, appDir, javaHome, target string) error {
	if target == "" {
		target = DefaultTarget
	}

	gradleDir := filepath.Join(appDir, filepath.FromSlash(gradleSubdir))
	if info, err := os.Stat(gradleDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrGradleMissing, gradleDir)
	}

	wrapper := filepath.Join(gradleDir, wrapperName)
	if _, err := os.Stat(wrapper); err != nil {
		return fmt.Errorf("%w: %s", ErrGradleMissing, wrapper)
	}

	if err := artifact.SetExecutable(wrapper); err != nil {
		return fmt.Errorf("make wrapper executable: %w", err)
	}

	res, err := i.runner.Run(ctx, run.Invocation{
		Path: "./" + wrapperName,
		Args: []string{target},
		Dir:  gradleDir,
		Env:  Environment(os.Environ(), javaHome),
	})
	if err != nil {
		return fmt.Errorf("invoke gradle: %w", err)
	}

	if !res.Ok() {
		return &BuildError{
			Target:   target,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	return nil
}

// Environment derives the build environment from base: JAVA_HOME is set
// to javaHome and the runtime's bin directory is prepended to PATH, so
// gradle picks up the provisioned runtime instead of whatever the host
// carries.
func Environment(base []string, javaHome string) []string {
	binDir := filepath.Join(javaHome, "bin")

	env := make([]string, 0, len(base)+2)
	var pathSeen, javaHomeSeen bool

	for _, kv := range base {
		switch {
		case strings.HasPrefix(kv, "JAVA_HOME="):
			env = append(env, "JAVA_HOME="+javaHome)
			javaHomeSeen = true
		case strings.HasPrefix(kv, "PATH="):
			env = append(env, "PATH="+binDir+string(os.PathListSeparator)+strings.TrimPrefix(kv, "PATH="))
			pathSeen = true
		default:
			env = append(env, kv)
		}
	}

	if !javaHomeSeen {
		env = append(env, "JAVA_HOME="+javaHome)
	}
	if !pathSeen {
		env = append(env, "PATH="+binDir)
	}

	return env
}
