package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/garb/internal/run"
	"github.com/ZebulonRouseFrantzich/garb/internal/testutil"
)

// appDirWithWrapper creates an application directory carrying a gradle
// wrapper, returning the app dir and the gradle dir.
func appDirWithWrapper(t *testing.T) (string, string) {
	t.Helper()

	appDir := t.TempDir()
	gradleDir := filepath.Join(appDir, "support", "gradle")
	if err := os.MkdirAll(gradleDir, 0755); err != nil {
		t.Fatalf("mkdir gradle dir: %v", err)
	}
	wrapper := filepath.Join(gradleDir, "gradlew")
	// Deliberately not executable: Invoke must fix that itself.
	if err := os.WriteFile(wrapper, []byte("#!/bin/sh\nexit 0\n"), 0644); err != nil {
		t.Fatalf("write wrapper: %v", err)
	}
	return appDir, gradleDir
}

func TestInvoke_Success(t *testing.T) {
	testutil.SetupTestEnv(t)

	appDir, gradleDir := appDirWithWrapper(t)
	javaHome := filepath.Join("bundle", "Contents", "Resources", "jdk", "Contents", "Home")

	fake := &run.FakeRunner{Results: []run.Result{{ExitCode: 0}}}
	invoker := NewInvoker(fake)

	if err := invoker.Invoke(context.Background(), appDir, javaHome, ""); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if len(fake.Calls) != 1 {
		t.Fatalf("recorded %d calls, want 1", len(fake.Calls))
	}
	call := fake.Calls[0]

	if call.Path != "./gradlew" {
		t.Errorf("Path = %q, want ./gradlew", call.Path)
	}
	if len(call.Args) != 1 || call.Args[0] != DefaultTarget {
		t.Errorf("Args = %v, want [%s]", call.Args, DefaultTarget)
	}
	if call.Dir != gradleDir {
		t.Errorf("Dir = %q, want %q", call.Dir, gradleDir)
	}

	var gotJavaHome, gotPath string
	for _, kv := range call.Env {
		if strings.HasPrefix(kv, "JAVA_HOME=") {
			gotJavaHome = strings.TrimPrefix(kv, "JAVA_HOME=")
		}
		if strings.HasPrefix(kv, "PATH=") {
			gotPath = strings.TrimPrefix(kv, "PATH=")
		}
	}
	if gotJavaHome != javaHome {
		t.Errorf("JAVA_HOME = %q, want %q", gotJavaHome, javaHome)
	}
	wantPrefix := filepath.Join(javaHome, "bin") + string(os.PathListSeparator)
	if !strings.HasPrefix(gotPath, wantPrefix) {
		t.Errorf("PATH = %q, want prefix %q", gotPath, wantPrefix)
	}

	// The wrapper was made executable before the run.
	info, err := os.Stat(filepath.Join(gradleDir, "gradlew"))
	if err != nil {
		t.Fatalf("stat wrapper: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("wrapper not executable: mode %v", info.Mode())
	}
}

func TestInvoke_CustomTarget(t *testing.T) {
	appDir, _ := appDirWithWrapper(t)

	fake := &run.FakeRunner{Results: []run.Result{{ExitCode: 0}}}
	if err := NewInvoker(fake).Invoke(context.Background(), appDir, "jdk", "assembleAll"); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := fake.Calls[0].Args; len(got) != 1 || got[0] != "assembleAll" {
		t.Errorf("Args = %v, want [assembleAll]", got)
	}
}

func TestInvoke_GradleDirMissing(t *testing.T) {
	appDir := t.TempDir() // no support/gradle at all

	fake := &run.FakeRunner{}
	err := NewInvoker(fake).Invoke(context.Background(), appDir, "jdk", "")
	if !errors.Is(err, ErrGradleMissing) {
		t.Fatalf("error = %v, want ErrGradleMissing", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("runner invoked despite missing tooling: %v", fake.Calls)
	}
}

func TestInvoke_WrapperMissing(t *testing.T) {
	appDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(appDir, "support", "gradle"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := NewInvoker(&run.FakeRunner{}).Invoke(context.Background(), appDir, "jdk", "")
	if !errors.Is(err, ErrGradleMissing) {
		t.Fatalf("error = %v, want ErrGradleMissing", err)
	}
}

func TestInvoke_NonzeroExitIsBuildError(t *testing.T) {
	appDir, _ := appDirWithWrapper(t)

	fake := &run.FakeRunner{Results: []run.Result{{
		ExitCode: 1,
		Stdout:   "> Task :compileNatives FAILED",
		Stderr:   "clang: command not found",
	}}}

	err := NewInvoker(fake).Invoke(context.Background(), appDir, "jdk", "")

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("error = %v, want *BuildError", err)
	}
	if buildErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", buildErr.ExitCode)
	}
	if buildErr.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", buildErr.Target, DefaultTarget)
	}
	if !strings.Contains(buildErr.Output(), "clang: command not found") {
		t.Errorf("Output() missing captured stderr: %q", buildErr.Output())
	}
	if !strings.Contains(buildErr.Output(), "compileNatives") {
		t.Errorf("Output() missing captured stdout: %q", buildErr.Output())
	}
}

func TestInvoke_RunnerError(t *testing.T) {
	appDir, _ := appDirWithWrapper(t)

	fake := &run.FakeRunner{Err: errors.New("fork failed")}
	err := NewInvoker(fake).Invoke(context.Background(), appDir, "jdk", "")
	if err == nil {
		t.Fatal("expected error from runner failure")
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		t.Error("spawn failure must not be reported as a BuildError")
	}
}

func TestEnvironment(t *testing.T) {
	javaHome := filepath.Join("app", "Contents", "Resources", "jdk", "Contents", "Home")
	binDir := filepath.Join(javaHome, "bin")
	sep := string(os.PathListSeparator)

	tests := []struct {
		name         string
		base         []string
		wantJavaHome string
		wantPath     string
	}{
		{
			name:         "prepends to existing PATH",
			base:         []string{"PATH=/usr/bin" + sep + "/bin", "HOME=/home/u"},
			wantJavaHome: javaHome,
			wantPath:     binDir + sep + "/usr/bin" + sep + "/bin",
		},
		{
			name:         "replaces existing JAVA_HOME",
			base:         []string{"JAVA_HOME=/usr/lib/jvm/java-17", "PATH=/bin"},
			wantJavaHome: javaHome,
			wantPath:     binDir + sep + "/bin",
		},
		{
			name:         "no PATH in base",
			base:         []string{"HOME=/home/u"},
			wantJavaHome: javaHome,
			wantPath:     binDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Environment(tt.base, javaHome)

			var gotJavaHome, gotPath string
			javaHomeCount := 0
			for _, kv := range env {
				if strings.HasPrefix(kv, "JAVA_HOME=") {
					gotJavaHome = strings.TrimPrefix(kv, "JAVA_HOME=")
					javaHomeCount++
				}
				if strings.HasPrefix(kv, "PATH=") {
					gotPath = strings.TrimPrefix(kv, "PATH=")
				}
			}

			if gotJavaHome != tt.wantJavaHome {
				t.Errorf("JAVA_HOME = %q, want %q", gotJavaHome, tt.wantJavaHome)
			}
			if javaHomeCount != 1 {
				t.Errorf("JAVA_HOME appears %d times, want 1", javaHomeCount)
			}
			if gotPath != tt.wantPath {
				t.Errorf("PATH = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}

func TestEnvironment_PreservesUnrelatedVariables(t *testing.T) {
	env := Environment([]string{"HOME=/home/u", "LANG=en_US.UTF-8", "PATH=/bin"}, "jdk")

	joined := strings.Join(env, "\n")
	for _, want := range []string{"HOME=/home/u", "LANG=en_US.UTF-8"} {
		if !strings.Contains(joined, want) {
			t.Errorf("environment lost %q:\n%s", want, joined)
		}
	}
}
