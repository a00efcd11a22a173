// Package hasher implements the two digest stages of duplicate detection:
// a fast 64-bit prefix digest used to cheaply partition same-size files,
// and a streamed cryptographic digest that confirms byte-for-byte equality.
//
// Only the full-content digest decides equality. The prefix digest is a
// discriminator: files with different prefix digests cannot be equal, but
// matching prefix digests prove nothing.
package hasher

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // used for content grouping, not authentication
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Algorithm describes a full-content digest algorithm.
type Algorithm struct {
	// Name is the canonical lowercase algorithm name.
	Name string

	// Size is the digest size in bytes.
	Size int

	// New constructs a fresh hash state.
	New func() hash.Hash
}

// ErrUnknownAlgorithm is returned when an algorithm name is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Lookup returns the algorithm configuration for the given name.
// Supported names are sha1, sha256, and sha512 (case-insensitive).
func Lookup(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return Algorithm{
			Name: "sha1",
			Size: sha1.Size,
			New:  func() hash.Hash { return sha1.New() }, //nolint:gosec
		}, nil
	case "sha256":
		return Algorithm{
			Name: "sha256",
			Size: sha256.Size,
			New:  func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return Algorithm{
			Name: "sha512",
			Size: sha512.Size,
			New:  func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return Algorithm{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
}

// Quick computes a 64-bit digest over the first sample bytes of the file.
// Files shorter than sample are hashed in full. A sample of zero produces
// the digest of the empty input for every file, which disables the quick
// stage as a discriminator without breaking correctness.
func Quick(path string, sample int64, bufSize int) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	digest := xxhash.New()
	reader := bufio.NewReaderSize(f, bufSize)

	if _, err := io.CopyN(digest, reader, sample); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	return digest.Sum64(), nil
}

// Full streams the entire file through the given algorithm in bufSize
// chunks and returns the hex-encoded digest. The context is checked
// between chunk reads so a cancelled scan stops without finishing
// large files.
func Full(ctx context.Context, path string, alg Algorithm, bufSize int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := alg.New()
	buf := make([]byte, bufSize)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
