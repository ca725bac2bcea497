package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/garb/internal/artifact"
	"github.com/ZebulonRouseFrantzich/garb/internal/bundle"
	"github.com/ZebulonRouseFrantzich/garb/internal/config"
)

// CheckStatus classifies one verification check.
type CheckStatus int

const (
	// CheckOK indicates the item matches the manifest.
	CheckOK CheckStatus = iota

	// CheckMissing indicates the item does not exist on disk.
	CheckMissing

	// CheckStale indicates the item exists but no longer matches the
	// manifest (bad digest, lost executable bit, outdated receipt).
	CheckStale
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "ok"
	case CheckMissing:
		return "missing"
	case CheckStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Symbol returns the visual symbol for a CheckStatus.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckOK:
		return "✓"
	case CheckMissing:
		return "✗"
	case CheckStale:
		return "⚠"
	default:
		return "?"
	}
}

// Check is the outcome of verifying one item of an installation.
type Check struct {
	Name   string
	Status CheckStatus
	Detail string
}

// VerifyReport collects the checks of one verify run.
type VerifyReport struct {
	Checks []Check
}

// Diverged reports whether any check found a problem.
func (r *VerifyReport) Diverged() bool {
	for _, c := range r.Checks {
		if c.Status != CheckOK {
			return true
		}
	}
	return false
}

// VerifyService compares an existing installation against its manifest:
// cached archive digests, bundle presence, launcher permissions, and the
// install receipt. It never mutates anything.
type VerifyService struct {
	cfg    *config.Config
	layout bundle.Layout
}

// NewVerifyService creates a new verify service.
func NewVerifyService(cfg *config.Config) *VerifyService {
	return &VerifyService{
		cfg:    cfg,
		layout: bundle.NewLayout(cfg.Workdir, cfg.Bundle.Name),
	}
}

// VerifyRequest contains parameters for verification.
type VerifyRequest struct {
	// Future: add flags like --deep (re-hash installed trees).
}

// Execute runs all checks. The report is complete even when items
// diverge; only I/O failures (unreadable files, permission errors)
// return an error.
func (s *VerifyService) Execute(ctx context.Context, req VerifyRequest) (*VerifyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &VerifyReport{}

	for _, ac := range []config.ArtifactConfig{s.cfg.Runtime.ArtifactConfig, s.cfg.Application} {
		check, err := s.checkArchive(ac)
		if err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, check)
	}

	report.Checks = append(report.Checks, s.checkSkeleton())

	installs := []struct {
		name string
		dir  string
	}{
		{s.cfg.Runtime.Name + " installation", s.layout.RuntimeInstallDir()},
		{s.cfg.Application.Name + " installation", s.layout.ApplicationInstallDir()},
	}
	for _, in := range installs {
		check, err := checkDir(in.name, in.dir)
		if err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, check)
	}

	launcherChecks, err := s.checkLaunchers()
	if err != nil {
		return nil, err
	}
	report.Checks = append(report.Checks, launcherChecks...)

	report.Checks = append(report.Checks, s.checkReceipt())

	return report, nil
}

// checkArchive verifies one cached archive against its manifest digest.
func (s *VerifyService) checkArchive(ac config.ArtifactConfig) (Check, error) {
	check := Check{Name: ac.Name + " archive"}

	digest, err := artifact.ParseDigest(ac.SHA256)
	if err != nil {
		return Check{}, fmt.Errorf("artifact %s: %w", ac.Name, err)
	}

	path := s.layout.ArchivePath(ac.URL)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			check.Status = CheckMissing
			check.Detail = "not downloaded"
			return check, nil
		}
		return Check{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := artifact.VerifySHA256(ac.Name, path, digest); err != nil {
		var sumErr *artifact.ChecksumError
		if errors.As(err, &sumErr) {
			check.Status = CheckStale
			check.Detail = "checksum mismatch"
			return check, nil
		}
		return Check{}, err
	}

	check.Status = CheckOK
	check.Detail = "checksum verified"
	return check, nil
}

func (s *VerifyService) checkSkeleton() Check {
	check := Check{Name: "bundle " + s.cfg.Bundle.Name}
	if s.layout.SkeletonExists() {
		check.Status = CheckOK
		check.Detail = s.layout.BundlePath()
	} else {
		check.Status = CheckMissing
		check.Detail = "run garb install"
	}
	return check
}

func checkDir(name, dir string) (Check, error) {
	check := Check{Name: name}
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		check.Status = CheckOK
		check.Detail = dir
	case err == nil:
		check.Status = CheckStale
		check.Detail = "not a directory"
	case os.IsNotExist(err):
		check.Status = CheckMissing
		check.Detail = "not installed"
	default:
		return Check{}, fmt.Errorf("stat %s: %w", dir, err)
	}
	return check, nil
}

// checkLaunchers confirms every configured entry point exists and kept
// its executable bit.
func (s *VerifyService) checkLaunchers() ([]Check, error) {
	checks := make([]Check, 0, len(s.cfg.Launchers))

	for _, rel := range s.cfg.Launchers {
		check := Check{Name: "launcher " + rel}
		info, err := os.Stat(s.layout.LauncherPath(rel))
		switch {
		case err == nil && info.Mode().Perm()&0111 != 0:
			check.Status = CheckOK
			check.Detail = "executable"
		case err == nil:
			check.Status = CheckStale
			check.Detail = "not executable"
		case os.IsNotExist(err):
			check.Status = CheckMissing
			check.Detail = "not installed"
		default:
			return nil, fmt.Errorf("stat launcher %s: %w", rel, err)
		}
		checks = append(checks, check)
	}

	return checks, nil
}

// checkReceipt parses the receipt and cross-checks its recorded artifact
// pins against the current manifest. A receipt written by an older
// manifest revision surfaces as stale, prompting a re-install.
func (s *VerifyService) checkReceipt() Check {
	check := Check{Name: "install receipt"}

	receipt, err := bundle.ReadReceipt(s.layout.ReceiptPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			check.Status = CheckMissing
			check.Detail = "no completed install recorded"
		} else {
			check.Status = CheckStale
			check.Detail = fmt.Sprintf("unreadable: %v", err)
		}
		return check
	}

	recorded := make(map[string]bundle.ReceiptArtifact, len(receipt.Artifacts))
	for _, ra := range receipt.Artifacts {
		recorded[ra.Name] = ra
	}

	for _, ac := range []config.ArtifactConfig{s.cfg.Runtime.ArtifactConfig, s.cfg.Application} {
		ra, ok := recorded[ac.Name]
		if !ok {
			check.Status = CheckStale
			check.Detail = fmt.Sprintf("%s not recorded in receipt", ac.Name)
			return check
		}
		digest, err := artifact.ParseDigest(ac.SHA256)
		if err != nil {
			digest = ac.SHA256
		}
		if ra.URL != ac.URL || !strings.EqualFold(ra.SHA256, digest) {
			check.Status = CheckStale
			check.Detail = fmt.Sprintf("manifest changed %s since install", ac.Name)
			return check
		}
	}

	check.Status = CheckOK
	check.Detail = "matches manifest (installed " + receipt.InstalledAt.Format("2006-01-02 15:04") + ")"
	return check
}
