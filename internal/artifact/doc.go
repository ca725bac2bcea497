// Package artifact provides downloading, verification, and extraction of
// the remote archives an installation needs: the Java runtime and the
// application release.
//
// # Integrity Model
//
// Every artifact carries a pinned SHA-256 digest from the manifest; an
// artifact without a digest is refused rather than fetched unverified. A
// cached file is re-verified before it is trusted: a mismatch discards the
// cache and refetches exactly once, while a freshly downloaded file that
// fails verification aborts the installation. Artifacts may additionally
// carry a detached PGP signature, checked against a publisher keyring
// named by the manifest.
//
// # Usage
//
//	dl := artifact.NewDownloader(progress)
//	res, err := dl.Fetch(ctx, artifact.Artifact{
//	    Name:   "OpenJDK",
//	    URL:    runtimeURL,
//	    SHA256: runtimeDigest,
//	    Path:   filepath.Join(workdir, "openjdk.tar.gz"),
//	})
//	if err != nil {
//	    return err
//	}
//	if err := artifact.NewExtractor().Extract(res.Path, stagingDir); err != nil {
//	    return err
//	}
//
// # Components
//
//   - Downloader: HTTP fetch with cache-skip and a single refetch when the
//     cached copy is stale
//   - Digest and detached-signature verification (verify.go)
//   - Extractor: zip and compressed-tar extraction with path-traversal
//     rejection
//   - SetExecutable: launcher permission helper
package artifact
