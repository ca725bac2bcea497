package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree lays out files under root from relative path to content,
// creating parents as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestCopyTree(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")

	writeTree(t, src, map[string]string{
		"bin/tool":          "#!/bin/sh\necho tool\n",
		"lib/data.txt":      "data",
		"deep/a/b/c/leaf":   "leaf",
		"support/launch.sh": "#!/bin/sh\n",
	})

	// Executables must stay executable through the copy.
	if err := os.Chmod(filepath.Join(src, "bin", "tool"), 0755); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := os.Symlink("bin/tool", filepath.Join(src, "tool-link")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	for _, rel := range []string{"bin/tool", "lib/data.txt", "deep/a/b/c/leaf", "support/launch.sh"} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("missing copied file %s: %v", rel, err)
		}
	}

	info, err := os.Stat(filepath.Join(dst, "bin", "tool"))
	if err != nil {
		t.Fatalf("stat copied tool: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("executable bit lost in copy: mode %v", info.Mode())
	}

	target, err := os.Readlink(filepath.Join(dst, "tool-link"))
	if err != nil {
		t.Fatalf("readlink copied symlink: %v", err)
	}
	if target != "bin/tool" {
		t.Errorf("symlink target = %q, want %q", target, "bin/tool")
	}
}

func TestCopyTree_SourceMustBeDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CopyTree(file, filepath.Join(tmpDir, "dst")); err == nil {
		t.Error("expected error copying a regular file as a tree")
	}
	if err := CopyTree(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dst")); err == nil {
		t.Error("expected error copying a missing source")
	}
}

func TestCleanInstall_RemovesStaleTree(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "fresh")
	dst := filepath.Join(tmpDir, "bundle", "Contents", "Resources", "ghidra")

	writeTree(t, src, map[string]string{"ghidraRun": "#!/bin/sh\n"})
	// A previous run left different files at the destination.
	writeTree(t, dst, map[string]string{
		"ghidraRun":  "old contents",
		"stale.file": "must disappear",
	})

	if err := CleanInstall(src, dst); err != nil {
		t.Fatalf("CleanInstall() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "stale.file")); !os.IsNotExist(err) {
		t.Error("stale file survived clean-install")
	}

	content, err := os.ReadFile(filepath.Join(dst, "ghidraRun"))
	if err != nil {
		t.Fatalf("read installed file: %v", err)
	}
	if string(content) != "#!/bin/sh\n" {
		t.Errorf("installed file not refreshed: %q", content)
	}
}

func TestCleanInstall_CreatesParents(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	writeTree(t, src, map[string]string{"f": "x"})

	dst := filepath.Join(tmpDir, "a", "b", "c", "dst")
	if err := CleanInstall(src, dst); err != nil {
		t.Fatalf("CleanInstall() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "f")); err != nil {
		t.Errorf("installed file missing: %v", err)
	}
}

func TestTopLevelDir(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		want    string // relative to dir; empty means error expected
		wantErr bool
	}{
		{
			name: "single directory",
			setup: func(t *testing.T, dir string) {
				writeTree(t, dir, map[string]string{"jdk-21.0.2.jdk/release": "JAVA_VERSION=21"})
			},
			want: "jdk-21.0.2.jdk",
		},
		{
			name: "stray files are ignored",
			setup: func(t *testing.T, dir string) {
				writeTree(t, dir, map[string]string{
					"ghidra_11.4.2_PUBLIC/ghidraRun": "",
					"checksums.txt":                  "",
				})
			},
			want: "ghidra_11.4.2_PUBLIC",
		},
		{
			name:    "empty staging",
			setup:   func(t *testing.T, dir string) {},
			wantErr: true,
		},
		{
			name: "ambiguous extraction",
			setup: func(t *testing.T, dir string) {
				writeTree(t, dir, map[string]string{
					"one/a": "",
					"two/b": "",
				})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			got, err := TopLevelDir(dir)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("TopLevelDir() error = %v", err)
			}
			if got != filepath.Join(dir, tt.want) {
				t.Errorf("TopLevelDir() = %q, want %q", got, filepath.Join(dir, tt.want))
			}
		})
	}
}
