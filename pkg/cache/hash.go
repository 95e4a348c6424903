package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IndexKey derives the cache key for a reverse-dependency index built from
// the given database files. The key covers each file's path, size and
// mtime, so a database refresh invalidates the cached index without
// reading file contents.
func IndexKey(paths []string) string {
	h := sha256.New()
	for _, p := range paths {
		fmt.Fprintf(h, "%s\n", p)
		if st, err := os.Stat(p); err == nil {
			fmt.Fprintf(h, "%d %d\n", st.Size(), st.ModTime().UnixNano())
		}
	}
	return "revdeps:" + hex.EncodeToString(h.Sum(nil))
}
