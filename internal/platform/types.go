// Package platform detects the host garb is running on and exposes the
// result to Lua manifests as a read-only table.
//
// garb assembles a macOS app bundle, so detection is macOS-first: on
// darwin hosts the product version is resolved to a marketing name that
// manifests can branch on. Other hosts still detect OS and architecture,
// which lets `garb install` warn instead of failing blind and keeps
// manifests parseable on any machine.
package platform

import "context"

// macOS release names, keyed by major product version in releaseNames.
const (
	ReleaseBigSur   = "bigsur"
	ReleaseMonterey = "monterey"
	ReleaseVentura  = "ventura"
	ReleaseSonoma   = "sonoma"
	ReleaseSequoia  = "sequoia"
	ReleaseTahoe    = "tahoe"
	ReleaseUnknown  = "unknown" // darwin versions not in the table
)

// Info contains detected host platform facts.
type Info struct {
	OS      string // runtime.GOOS: "darwin", "linux", "windows"
	Arch    string // normalized: "arm64" or "amd64"
	ArchRaw string // GOARCH as reported, before normalization
	Version string // OS version ("14.6.1" on macOS, "22.04" on Ubuntu)
	Release string // macOS release name (e.g. "sonoma"); empty off-macOS
}

// JavaArch returns the architecture token JDK release artifacts use in
// their file names: "aarch64" for arm64 and "x64" for amd64.
func (i *Info) JavaArch() string {
	switch i.Arch {
	case "arm64":
		return "aarch64"
	case "amd64":
		return "x64"
	}
	return ""
}

// IsMacOS returns true if the host is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsLinux returns true if the host is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsWindows returns true if the host is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// IsAppleSilicon returns true if the host is an arm64 Mac.
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
