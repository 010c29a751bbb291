// Package hash computes streaming file digests for evidence integrity
// checks. Files are read in fixed-size chunks so large evidence files
// never need to be held in memory.
package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	stdhash "hash"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "sha256"

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 4096

var algorithms = map[string]func() stdhash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Algorithms returns the supported algorithm names in alphabetical order.
func Algorithms() []string {
	out := make([]string, 0, len(algorithms))
	for name := range algorithms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New returns a fresh digest for the named algorithm.
func New(algorithm string) (stdhash.Hash, error) {
	ctor, ok := algorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("%q: %w", algorithm, internalerr.ErrUnknownAlgorithm)
	}
	return ctor(), nil
}

// File computes the hex digest of the file at path, reading it in
// chunkSize blocks. Identical bytes always produce an identical
// digest. A missing path yields internalerr.ErrNotFound.
func File(path, algorithm string, chunkSize int) (string, error) {
	h, err := New(algorithm)
	if err != nil {
		return "", err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, internalerr.ErrNotFound)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
