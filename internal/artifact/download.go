package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultUserAgent is the User-Agent header sent with requests.
const DefaultUserAgent = "garb/1.0"

// ProgressFunc receives byte-level download progress. total is the
// transfer's declared size and is -1 when the server does not report one;
// done still advances in that case.
type ProgressFunc func(label string, done, total int64)

// Downloader fetches remote artifacts with cache-aware verification.
//
// There are no automatic retries: a failed download surfaces immediately
// and is only re-attempted by the next program invocation.
type Downloader struct {
	client    *http.Client
	userAgent string
	progress  ProgressFunc
}

// NewDownloader creates a downloader. progress may be nil.
//
// The client carries no request timeout since artifacts are hundreds
// of megabytes; cancellation is the caller's context.
func NewDownloader(progress ProgressFunc) *Downloader {
	return &Downloader{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		progress:  progress,
	}
}

// Fetch ensures a verified local copy of art at art.Path.
//
// An existing file is re-verified against the pinned digest: on a match the
// network is never touched, on a mismatch the stale file is deleted and the
// artifact downloaded again (once). A fresh download that fails
// verification is deleted and reported as a *ChecksumError. When the
// artifact carries a detached signature, it is fetched alongside and
// checked after the digest passes.
func (d *Downloader) Fetch(ctx context.Context, art Artifact) (*FetchResult, error) {
	if art.SHA256 == "" {
		return nil, fmt.Errorf("artifact %s: no expected digest", art.Name)
	}

	result := &FetchResult{Path: art.Path}

	if fileExists(art.Path) {
		err := VerifySHA256(art.Name, art.Path, art.SHA256)
		if err == nil {
			if err := d.verifySignature(ctx, art); err != nil {
				return nil, err
			}
			result.Cached = true
			result.Size = fileSize(art.Path)
			return result, nil
		}
		var mismatch *ChecksumError
		if !errors.As(err, &mismatch) {
			return nil, fmt.Errorf("verify cached %s: %w", art.Name, err)
		}

		// Stale cache: discard and refetch once.
		if rmErr := os.Remove(art.Path); rmErr != nil {
			return nil, fmt.Errorf("remove stale %s: %w", art.Name, rmErr)
		}
		result.Refetched = true
	}

	if err := d.downloadOnce(ctx, art.URL, art.Path, art.Name); err != nil {
		return nil, fmt.Errorf("download %s: %w", art.Name, err)
	}

	if err := VerifySHA256(art.Name, art.Path, art.SHA256); err != nil {
		// Leave nothing behind that failed verification.
		os.Remove(art.Path)
		return nil, err
	}

	if err := d.verifySignature(ctx, art); err != nil {
		return nil, err
	}

	result.Size = fileSize(art.Path)
	return result, nil
}

// verifySignature fetches and checks the artifact's detached signature, if
// it has one. The signature file is cached next to the artifact.
func (d *Downloader) verifySignature(ctx context.Context, art Artifact) error {
	if art.SignatureURL == "" {
		return nil
	}
	if art.KeyringPath == "" {
		return fmt.Errorf("artifact %s: signature configured without a keyring", art.Name)
	}

	sigPath := filepath.Join(filepath.Dir(art.Path), filepath.Base(art.SignatureURL))
	if !fileExists(sigPath) {
		if err := d.downloadOnce(ctx, art.SignatureURL, sigPath, art.Name+" signature"); err != nil {
			return fmt.Errorf("download %s signature: %w", art.Name, err)
		}
	}

	if err := VerifyDetachedSignature(art.Path, sigPath, art.KeyringPath); err != nil {
		return fmt.Errorf("%s signature: %w", art.Name, err)
	}

	return nil
}

// downloadOnce performs a single streaming download to destPath, writing
// through a temporary file and renaming into place on success.
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath, label string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// Track whether we need to clean up the temp file
	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var w io.Writer = tmpFile
	if d.progress != nil {
		w = io.MultiWriter(tmpFile, &progressWriter{
			label:  label,
			total:  resp.ContentLength,
			report: d.progress,
		})
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// progressWriter counts bytes as they land and forwards them to a
// ProgressFunc.
type progressWriter struct {
	label  string
	total  int64
	done   int64
	report ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	w.report(w.label, w.done, w.total)
	return len(p), nil
}

// fileExists checks if a file exists and is not empty
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
