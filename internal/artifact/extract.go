package artifact

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks an archive into destDir, choosing the format from the
// file name. Supported: .zip, .tar.gz/.tgz, .tar.xz/.txz, .tar.zst.
func (e *Extractor) Extract(archivePath, destDir string) error {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return e.ExtractZip(archivePath, destDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"),
		strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"),
		strings.HasSuffix(lower, ".tar.zst"):
		return e.ExtractTar(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

// ExtractTar extracts a compressed tar archive to a destination directory.
// Entries that would resolve outside destDir are rejected and abort the
// extraction.
func (e *Extractor) ExtractTar(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	reader, closeReader, err := newDecompressor(archiveFile, archivePath)
	if err != nil {
		return fmt.Errorf("open decompressor: %w", err)
	}
	if closeReader != nil {
		defer closeReader()
	}

	tarReader := tar.NewReader(reader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if err := e.extractTarEntry(tarReader, header, destDir); err != nil {
			return err
		}
	}

	return nil
}

// newDecompressor wraps an archive stream with the decompressor implied by
// the file name.
func newDecompressor(r io.Reader, name string) (io.Reader, func(), error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { gz.Close() }, nil

	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, nil, nil

	case strings.HasSuffix(lower, ".tar.zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported tar compression: %s", filepath.Base(name))
	}
}

func (e *Extractor) extractTarEntry(tr *tar.Reader, header *tar.Header, destDir string) error {
	// "." and "./" entries are the destination itself.
	if filepath.Clean(header.Name) == "." {
		return nil
	}

	target, err := securePath(destDir, header.Name)
	if err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", target, err)
		}

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}

		outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
		if err != nil {
			return fmt.Errorf("create file %s: %w", target, err)
		}

		if _, err := io.Copy(outFile, tr); err != nil {
			outFile.Close()
			return fmt.Errorf("write file %s: %w", target, err)
		}

		outFile.Close()

	case tar.TypeSymlink:
		if err := secureLinkTarget(destDir, target, header.Linkname); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}
		if err := os.Symlink(header.Linkname, target); err != nil {
			return fmt.Errorf("create symlink %s: %w", target, err)
		}

	default:
		// Skip other types (hard links, devices, etc.)
	}

	return nil
}

// ExtractZip extracts a zip archive to a destination directory, preserving
// relative paths. The same containment rules as ExtractTar apply.
func (e *Extractor) ExtractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for _, f := range reader.File {
		if err := e.extractZipEntry(f, destDir); err != nil {
			return err
		}
	}

	return nil
}

func (e *Extractor) extractZipEntry(f *zip.File, destDir string) error {
	if filepath.Clean(f.Name) == "." {
		return nil
	}

	target, err := securePath(destDir, f.Name)
	if err != nil {
		return err
	}

	mode := f.Mode()
	switch {
	case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", target, err)
		}

	case mode&fs.ModeSymlink != 0:
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		linkTarget, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read symlink target for %s: %w", f.Name, err)
		}
		if err := secureLinkTarget(destDir, target, string(linkTarget)); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}
		if err := os.Symlink(string(linkTarget), target); err != nil {
			return fmt.Errorf("create symlink %s: %w", target, err)
		}

	default:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}

		perm := mode.Perm()
		if perm == 0 {
			perm = 0644
		}

		outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return fmt.Errorf("create file %s: %w", target, err)
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			rc.Close()
			outFile.Close()
			return fmt.Errorf("write file %s: %w", target, err)
		}

		rc.Close()
		outFile.Close()
	}

	return nil
}

// securePath resolves an archive entry name beneath destDir. Absolute
// names and names that escape the destination are rejected.
func securePath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}

	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}

	return target, nil
}

// secureLinkTarget validates a symlink entry's target: it must be relative
// and resolve inside destDir.
func secureLinkTarget(destDir, linkPath, target string) error {
	if target == "" || filepath.IsAbs(target) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafeArchivePath, filepath.Base(linkPath), target)
	}

	resolved := filepath.Join(filepath.Dir(linkPath), target)
	cleanDest := filepath.Clean(destDir)
	if resolved != cleanDest && !strings.HasPrefix(resolved, cleanDest+string(os.PathSeparator)) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafeArchivePath, filepath.Base(linkPath), target)
	}

	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
