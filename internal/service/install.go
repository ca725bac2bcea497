// Package service provides the high-level operations behind garb's
// subcommands: assembling the application bundle, verifying an existing
// installation against its manifest, and cleaning the working directory.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/garb/internal/artifact"
	"github.com/ZebulonRouseFrantzich/garb/internal/build"
	"github.com/ZebulonRouseFrantzich/garb/internal/bundle"
	"github.com/ZebulonRouseFrantzich/garb/internal/config"
	"github.com/ZebulonRouseFrantzich/garb/internal/run"
)

// Fetcher downloads and verifies remote artifacts. *artifact.Downloader
// is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, art artifact.Artifact) (*artifact.FetchResult, error)
}

// InstallService assembles the application bundle a manifest describes.
//
// The phases run strictly in sequence, each on its own filesystem
// subtree: bundle skeleton, runtime provisioning, application
// provisioning, native build (non-fatal), launcher permissions, receipt.
// The first fatal error unwinds immediately; nothing is retried within a
// run.
type InstallService struct {
	cfg       *config.Config
	layout    bundle.Layout
	fetcher   Fetcher
	extractor *artifact.Extractor
	builder   *build.Invoker
	runner    run.Runner
	clock     Clock
	status    Status
	version   string
}

// NewInstallService creates an install service with dependency injection.
// status may be nil.
func NewInstallService(
	cfg *config.Config,
	fetcher Fetcher,
	runner run.Runner,
	clock Clock,
	status Status,
	version string,
) *InstallService {
	return &InstallService{
		cfg:       cfg,
		layout:    bundle.NewLayout(cfg.Workdir, cfg.Bundle.Name),
		fetcher:   fetcher,
		extractor: artifact.NewExtractor(),
		builder:   build.NewInvoker(runner),
		runner:    runner,
		clock:     clock,
		status:    orStatusNoop(status),
		version:   version,
	}
}

// InstallRequest contains the parameters for one install run.
type InstallRequest struct {
	// SkipBuild bypasses the native build phase.
	SkipBuild bool
}

// InstallResult reports what the install produced.
type InstallResult struct {
	// BundlePath is the assembled bundle directory.
	BundlePath string

	// Runtime and Application report how each archive was obtained.
	Runtime     *artifact.FetchResult
	Application *artifact.FetchResult

	// NativeBuild is one of bundle.BuildSucceeded, bundle.BuildFailed,
	// bundle.BuildSkipped.
	NativeBuild string

	// Launchers are the entry points made executable, relative to the
	// installed application directory.
	Launchers []string

	// ReceiptPath is the written receipt, or empty when writing it
	// failed (a warning, never fatal).
	ReceiptPath string
}

// Execute runs the full installation pipeline.
func (s *InstallService) Execute(ctx context.Context, req InstallRequest) (*InstallResult, error) {
	result := &InstallResult{BundlePath: s.layout.BundlePath()}

	if err := s.createSkeleton(ctx); err != nil {
		return nil, fmt.Errorf("create bundle skeleton: %w", err)
	}

	runtimeArt, err := s.configuredArtifact(s.cfg.Runtime.ArtifactConfig)
	if err != nil {
		return nil, err
	}
	result.Runtime, err = s.provision(ctx, runtimeArt, s.layout.RuntimeStagingDir(), s.layout.RuntimeInstallDir())
	if err != nil {
		return nil, fmt.Errorf("provision %s: %w", runtimeArt.Name, err)
	}

	applicationArt, err := s.configuredArtifact(s.cfg.Application)
	if err != nil {
		return nil, err
	}
	result.Application, err = s.provision(ctx, applicationArt, s.layout.ApplicationStagingDir(), s.layout.ApplicationInstallDir())
	if err != nil {
		return nil, fmt.Errorf("provision %s: %w", applicationArt.Name, err)
	}

	result.NativeBuild = s.nativeBuild(ctx, req.SkipBuild)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Launchers, err = s.fixLaunchers()
	if err != nil {
		return nil, fmt.Errorf("fix launcher permissions: %w", err)
	}

	s.writeReceipt(result)

	return result, nil
}

// createSkeleton compiles the applet into the bundle skeleton through
// the platform bundling tool. An existing skeleton is kept as-is, so
// re-runs never recompile the applet.
func (s *InstallService) createSkeleton(ctx context.Context) error {
	if s.layout.SkeletonExists() {
		s.status.Successf("Bundle skeleton already present at %s", s.layout.BundlePath())
		return nil
	}

	if err := os.MkdirAll(s.layout.Workdir(), 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}

	applet := s.layout.AppletPath(s.cfg.Bundle.Applet)
	if _, err := os.Stat(applet); err != nil {
		return fmt.Errorf("applet script: %w", err)
	}

	s.status.Phasef("Creating %s from %s", s.cfg.Bundle.Name, applet)
	res, err := s.runner.Run(ctx, run.Invocation{
		Path: "osacompile",
		Args: []string{"-o", s.layout.BundlePath(), applet},
	})
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("osacompile exited with code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	s.status.Successf("Created %s", s.layout.BundlePath())
	return nil
}

// configuredArtifact turns a manifest artifact declaration into a fetch
// request with a normalized digest and a cache path in the workdir.
func (s *InstallService) configuredArtifact(c config.ArtifactConfig) (artifact.Artifact, error) {
	digest, err := artifact.ParseDigest(c.SHA256)
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("artifact %s: %w", c.Name, err)
	}

	return artifact.Artifact{
		Name:         c.Name,
		URL:          c.URL,
		SHA256:       digest,
		SignatureURL: c.Signature,
		KeyringPath:  c.Keyring,
		Path:         s.layout.ArchivePath(c.URL),
	}, nil
}

// provision fetches one archive, extracts it into a clean staging tree,
// and clean-installs its top-level directory into the bundle.
func (s *InstallService) provision(ctx context.Context, art artifact.Artifact, staging, installDir string) (*artifact.FetchResult, error) {
	s.status.Phasef("Fetching %s", art.Name)
	res, err := s.fetcher.Fetch(ctx, art)
	if err != nil {
		return nil, err
	}
	switch {
	case res.Refetched:
		s.status.Warnf("Cached %s archive failed verification; downloaded a fresh copy", art.Name)
	case res.Cached:
		s.status.Successf("%s archive already cached, checksum verified", art.Name)
	default:
		s.status.Successf("Downloaded and verified %s", art.Name)
	}

	// Staging is scratch space: throw away whatever a previous run left.
	if err := os.RemoveAll(staging); err != nil {
		return nil, fmt.Errorf("clean staging dir: %w", err)
	}
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	s.status.Phasef("Extracting %s", filepath.Base(res.Path))
	if err := s.extractor.Extract(res.Path, staging); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	top, err := bundle.TopLevelDir(staging)
	if err != nil {
		return nil, err
	}

	if err := bundle.CleanInstall(top, installDir); err != nil {
		return nil, err
	}
	s.status.Successf("Installed %s into %s", art.Name, installDir)

	return res, nil
}

// nativeBuild runs the gradle build phase and classifies the outcome.
// Every failure here is downgraded to a warning: upstream releases may
// already bundle the native binaries.
func (s *InstallService) nativeBuild(ctx context.Context, skip bool) string {
	if skip {
		s.status.Infof("Native build skipped by request")
		return bundle.BuildSkipped
	}
	if !s.cfg.Build.Enabled {
		s.status.Infof("Native build disabled in manifest")
		return bundle.BuildSkipped
	}

	javaHome := filepath.Join(s.layout.RuntimeInstallDir(), filepath.FromSlash(s.cfg.Runtime.Home))
	s.status.Phasef("Building native binaries (gradle %s)", s.cfg.Build.Target)
	s.status.Infof("Using runtime at %s", javaHome)

	err := s.builder.Invoke(ctx, s.layout.ApplicationInstallDir(), javaHome, s.cfg.Build.Target)
	if err == nil {
		s.status.Successf("Native binaries built")
		return bundle.BuildSucceeded
	}

	var buildErr *build.BuildError
	switch {
	case errors.Is(err, build.ErrGradleMissing):
		s.status.Warnf("Native build unavailable: %v", err)
	case errors.As(err, &buildErr):
		s.status.Warnf("Native build failed: %v", buildErr)
		if out := buildErr.Output(); out != "" {
			s.status.Infof("%s", out)
		}
	default:
		s.status.Warnf("Native build failed: %v", err)
	}
	s.status.Warnf("Continuing with installation; the release's bundled binaries are used as-is")

	return bundle.BuildFailed
}

// fixLaunchers marks every configured entry point executable. A missing
// launcher is fatal: the assembled bundle would not start.
func (s *InstallService) fixLaunchers() ([]string, error) {
	fixed := make([]string, 0, len(s.cfg.Launchers))

	for _, rel := range s.cfg.Launchers {
		if err := artifact.SetExecutable(s.layout.LauncherPath(rel)); err != nil {
			return nil, fmt.Errorf("launcher %s: %w", rel, err)
		}
		s.status.Successf("Marked %s executable", rel)
		fixed = append(fixed, rel)
	}

	return fixed, nil
}

// writeReceipt records the completed install next to the bundle. Failure
// costs only the verify command its receipt checks, so it warns instead
// of unwinding a finished installation.
func (s *InstallService) writeReceipt(result *InstallResult) {
	receipt := &bundle.Receipt{
		Version:     s.version,
		InstalledAt: s.clock.Now(),
		Bundle:      s.layout.BundlePath(),
		Artifacts: []bundle.ReceiptArtifact{
			receiptArtifact(s.cfg.Runtime.ArtifactConfig, result.Runtime),
			receiptArtifact(s.cfg.Application, result.Application),
		},
		NativeBuild: result.NativeBuild,
		Launchers:   result.Launchers,
	}

	if err := bundle.WriteReceipt(s.layout.ReceiptPath(), receipt); err != nil {
		s.status.Warnf("Could not write install receipt: %v", err)
		return
	}
	result.ReceiptPath = s.layout.ReceiptPath()
}

func receiptArtifact(c config.ArtifactConfig, res *artifact.FetchResult) bundle.ReceiptArtifact {
	ra := bundle.ReceiptArtifact{
		Name: c.Name,
		URL:  c.URL,
	}
	if digest, err := artifact.ParseDigest(c.SHA256); err == nil {
		ra.SHA256 = digest
	}
	if res != nil {
		ra.Size = res.Size
		ra.Cached = res.Cached
	}
	return ra
}
