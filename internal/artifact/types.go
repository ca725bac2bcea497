package artifact

import (
	"errors"
	"fmt"
)

// Artifact describes one remote archive: where to fetch it, the digest it
// must match, and where it lives on disk once cached.
type Artifact struct {
	// Name labels the artifact in status output and errors ("OpenJDK").
	Name string

	// URL is the remote location of the archive.
	URL string

	// SHA256 is the expected hex digest of the archive. Mandatory:
	// fetching an artifact without a digest is refused.
	SHA256 string

	// SignatureURL optionally locates a detached PGP signature for the
	// archive, armored or binary.
	SignatureURL string

	// KeyringPath is the local public keyring (armored or binary) used
	// to check SignatureURL. Required when SignatureURL is set.
	KeyringPath string

	// Path is the local cache destination of the archive.
	Path string
}

// FetchResult reports what Fetch did for one artifact.
type FetchResult struct {
	// Path is the verified local file.
	Path string

	// Size is the verified file's size in bytes.
	Size int64

	// Cached is true when the existing file passed verification and no
	// network request was made.
	Cached bool

	// Refetched is true when a cached file failed verification and was
	// deleted and downloaded again.
	Refetched bool
}

// ChecksumError reports a digest mismatch for a named file.
type ChecksumError struct {
	Name     string
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s checksum mismatch for %s:\nexpected: %s\nactual:   %s",
		e.Name, e.Path, e.Expected, e.Actual)
}

// ErrUnsafeArchivePath marks archive entries that would resolve outside
// the extraction destination.
var ErrUnsafeArchivePath = errors.New("archive entry escapes destination")
