package version

import (
	"encoding/hex"
	"fmt"
	"strings"
)

var (
	// Version is the expected software version.
	// It can be populated by the build system (ldflags).
	Version = "v0.0.5"

	// Checksum is the content hash published alongside Version.
	Checksum = "sha256:01ccffbd0d6c8a2a1935b9cc9256567b8c66abeef6171c3f813920b831ec1e47"
)

// Constants is the read-only set of build-time values handed to the builder.
type Constants struct {
	Version  string
	Checksum string
}

// Default returns the constants baked into this build.
func Default() Constants {
	return Constants{
		Version:  Version,
		Checksum: Checksum,
	}
}

// ChecksumID is a parsed "algo:hexdigest" identifier.
type ChecksumID struct {
	Algorithm string
	Digest    string
}

// digestLengths maps known algorithms to their hex digest length
var digestLengths = map[string]int{
	"sha256": 64,
	"sha512": 128,
}

// ParseChecksum splits a checksum identifier into algorithm and digest.
func ParseChecksum(s string) (ChecksumID, error) {
	algo, digest, ok := strings.Cut(s, ":")
	if !ok {
		return ChecksumID{}, fmt.Errorf("checksum %q: missing algorithm prefix", s)
	}
	if algo == "" {
		return ChecksumID{}, fmt.Errorf("checksum %q: empty algorithm", s)
	}
	if digest == "" {
		return ChecksumID{}, fmt.Errorf("checksum %q: empty digest", s)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return ChecksumID{}, fmt.Errorf("checksum %q: digest is not hex: %w", s, err)
	}
	if want, known := digestLengths[algo]; known && len(digest) != want {
		return ChecksumID{}, fmt.Errorf("checksum %q: %s digest must be %d hex chars, got %d", s, algo, want, len(digest))
	}
	return ChecksumID{Algorithm: algo, Digest: strings.ToLower(digest)}, nil
}

// String reassembles the identifier.
func (c ChecksumID) String() string {
	return c.Algorithm + ":" + c.Digest
}
