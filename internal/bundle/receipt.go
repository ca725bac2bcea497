package bundle

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Native build outcomes recorded in the receipt.
const (
	BuildSucceeded = "succeeded"
	BuildFailed    = "failed"
	BuildSkipped   = "skipped"
)

// Receipt records what a completed install produced. It is written next
// to the bundle and read back by the verify operation to compare the
// installed state against the manifest.
type Receipt struct {
	// Version of the tool that wrote the receipt
	Version string `yaml:"version"`

	// InstalledAt is when the install completed
	InstalledAt time.Time `yaml:"installed_at"`

	// Bundle is the assembled bundle path
	Bundle string `yaml:"bundle"`

	// Artifacts lists every archive that was fetched and verified
	Artifacts []ReceiptArtifact `yaml:"artifacts"`

	// NativeBuild is one of BuildSucceeded, BuildFailed, BuildSkipped
	NativeBuild string `yaml:"native_build"`

	// Launchers are the entry points made executable, relative to the
	// installed application directory
	Launchers []string `yaml:"launchers,omitempty"`
}

// ReceiptArtifact records one provisioned archive.
type ReceiptArtifact struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	SHA256 string `yaml:"sha256"`
	Size   int64  `yaml:"size"`

	// Cached is true when the archive came from the local cache instead
	// of the network.
	Cached bool `yaml:"cached"`
}

// WriteReceipt marshals r to path.
func WriteReceipt(path string, r *Receipt) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

// ReadReceipt loads the receipt at path.
func ReadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var r Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}
	return &r, nil
}
