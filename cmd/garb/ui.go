package main

import (
	"fmt"
	"sync"

	"github.com/gookit/color"
)

// printBanner draws the startup banner before an install run.
func printBanner() {
	color.Magenta.Print(`
   ____    _    ____  ____
  / ___|  / \  |  _ \| __ )
 | |  _  / _ \ | |_) |  _ \
 | |_| |/ ___ \|  _ <| |_) |
  \____/_/   \_\_| \_\____/
`)
	color.Cyan.Println("  ~ Ghidra App & Runtime Bundler ~")
	fmt.Println()
}

// ui renders download progress and phase status on the terminal.
// Progress updates rewrite the current line; every status line first
// closes a dangling progress line so output stays one event per line.
//
// The palette follows the original installer: yellow for work in
// progress, green for completed steps, red for failures, cyan for
// supporting detail.
type ui struct {
	mu       sync.Mutex
	lineOpen bool
}

func newUI() *ui {
	return &ui{}
}

// Progress implements artifact.ProgressFunc.
func (u *ui) Progress(label string, done, total int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if total > 0 {
		fmt.Printf("\r  %s  %s / %s (%d%%)", label, formatBytes(done), formatBytes(total), done*100/total)
	} else {
		fmt.Printf("\r  %s  %s", label, formatBytes(done))
	}
	u.lineOpen = true
}

// endProgress terminates an in-place progress line. Callers hold u.mu.
func (u *ui) endProgress() {
	if u.lineOpen {
		fmt.Println()
		u.lineOpen = false
	}
}

// Phasef announces a phase that is starting.
func (u *ui) Phasef(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.endProgress()
	color.Yellow.Printf(format+"\n", args...)
}

// Successf reports a completed step.
func (u *ui) Successf(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.endProgress()
	color.Green.Printf("✓ "+format+"\n", args...)
}

// Warnf reports a non-fatal problem the run continues past.
func (u *ui) Warnf(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.endProgress()
	color.Yellow.Printf("⚠ "+format+"\n", args...)
}

// Infof carries supporting detail.
func (u *ui) Infof(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.endProgress()
	color.Cyan.Printf("  "+format+"\n", args...)
}

// formatBytes renders a byte count in human-readable units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
