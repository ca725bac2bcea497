package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the actual host.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports the host OS, architecture, and OS version. It uses
// runtime.GOOS and runtime.GOARCH for OS and architecture, and gopsutil
// for the version string (sw_vers product version on macOS, distro
// version elsewhere). On macOS the version is additionally resolved to
// a release name so manifests can compare against "sonoma" instead of
// parsing version strings.
//
// Version lookup failures are not fatal: OS and arch alone are enough
// to validate a manifest, so the version fields stay empty and
// detection continues. Context cancellation is still an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	arch, err := normalizeArch(runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	info.Arch = arch

	_, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		// Graceful fallback, OS and arch are already settled
		return info, nil
	}

	info.Version = normalizeVersion(version)
	if info.OS == "darwin" {
		info.Release = releaseName(info.Version)
	}

	return info, nil
}
