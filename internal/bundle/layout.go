// Package bundle models the application bundle tree and the working
// directory around it: where archives are cached, where they are staged,
// and where the assembled bundle lives.
//
// The layout reproduces the installer's fixed shape:
//
//	<workdir>/
//	  <archive>.tar.gz            cached runtime archive
//	  <archive>.zip               cached application archive
//	  jdk/                        runtime staging tree
//	  ghidra/                     application staging tree
//	  garb-receipt.yaml           install receipt
//	  <bundle>/                   the assembled .app
//	    Contents/Resources/jdk    provisioned runtime
//	    Contents/Resources/ghidra provisioned application
package bundle

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Fixed names inside the workdir and bundle. The Resources subdirectory
// names are part of the bundle contract: the applet's launcher scripts
// resolve the runtime and application by these paths.
const (
	runtimeDirName     = "jdk"
	applicationDirName = "ghidra"
	receiptFileName    = "garb-receipt.yaml"
)

// Layout resolves every path the installer touches from the workdir and
// the bundle name. It is a pure value; nothing is created on disk.
type Layout struct {
	workdir    string
	bundleName string
}

// NewLayout creates a layout rooted at workdir for the named bundle.
func NewLayout(workdir, bundleName string) Layout {
	return Layout{workdir: workdir, bundleName: bundleName}
}

// Workdir returns the working directory root.
func (l Layout) Workdir() string {
	return l.workdir
}

// BundlePath returns the bundle directory ("<workdir>/Ghidra.app").
func (l Layout) BundlePath() string {
	return filepath.Join(l.workdir, l.bundleName)
}

// ResourcesDir returns the bundle's Contents/Resources subtree.
func (l Layout) ResourcesDir() string {
	return filepath.Join(l.BundlePath(), "Contents", "Resources")
}

// RuntimeInstallDir returns where the provisioned runtime lives inside
// the bundle.
func (l Layout) RuntimeInstallDir() string {
	return filepath.Join(l.ResourcesDir(), runtimeDirName)
}

// ApplicationInstallDir returns where the application payload lives
// inside the bundle.
func (l Layout) ApplicationInstallDir() string {
	return filepath.Join(l.ResourcesDir(), applicationDirName)
}

// RuntimeStagingDir returns the scratch tree the runtime archive is
// extracted into before installation.
func (l Layout) RuntimeStagingDir() string {
	return filepath.Join(l.workdir, runtimeDirName)
}

// ApplicationStagingDir returns the scratch tree the application archive
// is extracted into before installation.
func (l Layout) ApplicationStagingDir() string {
	return filepath.Join(l.workdir, applicationDirName)
}

// AppletPath resolves the applet script path. Relative paths are taken
// relative to the workdir.
func (l Layout) AppletPath(applet string) string {
	if filepath.IsAbs(applet) {
		return applet
	}
	return filepath.Join(l.workdir, applet)
}

// ArchivePath returns the cache destination for a remote archive,
// keeping the remote file name so the extractor can pick a format from
// its extension.
func (l Layout) ArchivePath(rawURL string) string {
	name := "artifact"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			name = base
		}
	}
	return filepath.Join(l.workdir, name)
}

// LauncherPath resolves a manifest launcher path (slash-separated,
// relative to the installed application) to its on-disk location.
func (l Layout) LauncherPath(rel string) string {
	return filepath.Join(l.ApplicationInstallDir(), filepath.FromSlash(rel))
}

// ReceiptPath returns the install receipt location.
func (l Layout) ReceiptPath() string {
	return filepath.Join(l.workdir, receiptFileName)
}

// SkeletonExists reports whether the bundle skeleton is already in
// place: the bundle directory with a Contents subtree, as the platform
// bundling tool produces it.
func (l Layout) SkeletonExists() bool {
	info, err := os.Stat(filepath.Join(l.BundlePath(), "Contents"))
	return err == nil && info.IsDir()
}
