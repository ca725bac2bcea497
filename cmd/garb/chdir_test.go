package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// chdir changes the working directory to dir for the duration of the test,
// matching the behavior of testing.T.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()

	oldwd, err := os.Open(".")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		oldwd.Close()
		t.Fatal(err)
	}
	// On POSIX platforms PWD is an absolute pathname of the current
	// working directory, so keep it in sync; Windows and Plan 9 do not
	// use the PWD variable.
	switch runtime.GOOS {
	case "windows", "plan9":
	default:
		if !filepath.IsAbs(dir) {
			dir, err = os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
		}
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		err := oldwd.Chdir()
		oldwd.Close()
		if err != nil {
			panic("chdir: cannot restore working directory: " + err.Error())
		}
	})
}
