package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CleanInstall removes any pre-existing tree at dst and copies the tree
// at src into its place. Re-runs therefore never merge stale and fresh
// files: dst always mirrors exactly one extraction.
func CleanInstall(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("remove previous %s: %w", dst, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dst, err)
	}
	if err := CopyTree(src, dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// CopyTree recursively copies the directory at src to dst, preserving
// file modes and symlinks. dst must not exist yet.
func CopyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source is not a directory: %s", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case info.Mode()&fs.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read symlink %s: %w", path, err)
			}
			if err := os.Symlink(linkTarget, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}

		case info.Mode().IsRegular():
			if err := copyFile(path, target, info.Mode().Perm()); err != nil {
				return err
			}

		default:
			// Sockets, devices and the like have no place in an
			// application bundle; skip them.
		}

		return nil
	})
}

// copyFile copies one regular file, carrying the source permissions so
// executables stay executable.
func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dst, err)
	}

	return out.Close()
}

// TopLevelDir returns the single directory entry inside dir: the root of
// a freshly extracted release archive. Stray regular files (checksum
// listings, readme droppings) are tolerated; zero or several directories
// mean the archive had an unexpected shape and provisioning cannot pick
// one safely.
func TopLevelDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}

	switch len(dirs) {
	case 0:
		return "", fmt.Errorf("no directory found in %s", dir)
	case 1:
		return filepath.Join(dir, dirs[0]), nil
	default:
		return "", fmt.Errorf("expected one top-level directory in %s, found %d", dir, len(dirs))
	}
}
