package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/garb/internal/bundle"
	"github.com/ZebulonRouseFrantzich/garb/internal/config"
)

// CleanService removes what install runs leave in the workdir: staging
// trees, cached archives, and cached signature files. With All it also
// removes the assembled bundle and the receipt, returning the workdir to
// a pre-install state.
type CleanService struct {
	cfg    *config.Config
	layout bundle.Layout
}

// NewCleanService creates a new clean service.
func NewCleanService(cfg *config.Config) *CleanService {
	return &CleanService{
		cfg:    cfg,
		layout: bundle.NewLayout(cfg.Workdir, cfg.Bundle.Name),
	}
}

// CleanRequest contains parameters for cleaning.
type CleanRequest struct {
	// All additionally removes the assembled bundle and the receipt.
	All bool
}

// CleanResult reports what was deleted.
type CleanResult struct {
	// Removed lists the paths deleted, in removal order. Paths that did
	// not exist are not listed.
	Removed []string
}

// Execute removes the targets one by one. The first I/O failure aborts,
// leaving later targets untouched.
func (s *CleanService) Execute(ctx context.Context, req CleanRequest) (*CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	targets := []string{
		s.layout.RuntimeStagingDir(),
		s.layout.ApplicationStagingDir(),
		s.layout.ArchivePath(s.cfg.Runtime.URL),
		s.layout.ArchivePath(s.cfg.Application.URL),
	}
	targets = append(targets, s.signaturePaths()...)
	if req.All {
		targets = append(targets, s.layout.BundlePath(), s.layout.ReceiptPath())
	}

	result := &CleanResult{}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		removed, err := removePath(target)
		if err != nil {
			return nil, err
		}
		if removed {
			result.Removed = append(result.Removed, target)
		}
	}

	return result, nil
}

// signaturePaths mirrors where the downloader caches detached signature
// files: next to the archive, under the signature URL's base name.
func (s *CleanService) signaturePaths() []string {
	var paths []string
	for _, ac := range []config.ArtifactConfig{s.cfg.Runtime.ArtifactConfig, s.cfg.Application} {
		if ac.Signature == "" {
			continue
		}
		archive := s.layout.ArchivePath(ac.URL)
		paths = append(paths, filepath.Join(filepath.Dir(archive), filepath.Base(ac.Signature)))
	}
	return paths
}

// removePath deletes target if it exists, reporting whether anything was
// actually removed.
func removePath(target string) (bool, error) {
	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", target, err)
	}
	if err := os.RemoveAll(target); err != nil {
		return false, fmt.Errorf("remove %s: %w", target, err)
	}
	return true, nil
}
