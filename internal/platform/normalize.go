package platform

import (
	"fmt"
	"strings"
)

// releaseNames maps macOS major product versions to marketing names.
// There is no macOS 16 through 25: Apple renumbered from 15 (Sequoia)
// straight to 26 (Tahoe) in 2025.
var releaseNames = map[string]string{
	"11": ReleaseBigSur,
	"12": ReleaseMonterey,
	"13": ReleaseVentura,
	"14": ReleaseSonoma,
	"15": ReleaseSequoia,
	"26": ReleaseTahoe,
}

// normalizeArch converts GOARCH values to normalized architecture names.
// Only the two Mac architectures are supported.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s (supported: amd64, arm64)", arch)
	}
}

// normalizeVersion lowercases and trims a version string from gopsutil.
func normalizeVersion(version string) string {
	return strings.ToLower(strings.TrimSpace(version))
}

// releaseName maps a macOS product version like "14.6.1" to its marketing
// name. Versions outside the table (pre Big Sur, or newer than this build
// knows about) map to ReleaseUnknown.
func releaseName(version string) string {
	major, _, _ := strings.Cut(version, ".")
	if name, ok := releaseNames[major]; ok {
		return name
	}
	return ReleaseUnknown
}
