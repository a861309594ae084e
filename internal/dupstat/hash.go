package dupstat

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultChunkSize is the read size used when streaming file content
// through the hash.
const DefaultChunkSize = 16 << 20 // 16 MiB

// Hasher computes content digests for duplicate detection. The digest is
// xxHash64: fast, order-dependent over the full content, and explicitly
// not a cryptographic boundary. Safe for concurrent use.
type Hasher struct {
	chunkSize int64
	buffers   sync.Pool
}

// NewHasher returns a Hasher that reads files in chunkSize-byte steps.
// Sizes of zero or less fall back to DefaultChunkSize. Read buffers are
// pooled across calls, so concurrent hashing allocates one buffer per
// worker rather than one per file.
func NewHasher(chunkSize int64) *Hasher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	h := &Hasher{chunkSize: chunkSize}
	h.buffers.New = func() any {
		return make([]byte, h.chunkSize)
	}

	return h
}

// Sum returns the hex-encoded xxHash64 digest of the file's content,
// always sixteen lowercase hex digits. A failure to open or read the
// file is returned to the caller; it excludes the file from duplicate
// consideration and never aborts a run.
func (h *Hasher) Sum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}
	defer file.Close()

	digest := xxhash.New()

	buf := h.buffers.Get().([]byte) //nolint:forcetypeassert // Pool only ever holds []byte
	defer h.buffers.Put(buf)        //nolint:staticcheck // Buffer reuse outweighs the slice header allocation

	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			digest.Write(buf[:n]) //nolint:errcheck // Hash writes never fail
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return "", fmt.Errorf("reading %q: %w", path, readErr)
		}
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}
