// Package fileid derives the deterministic document ID for an uploaded
// file from its name and size.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const idLength = 12

// DocumentID returns a stable short ID for a file. The same name and
// size always yield the same ID, so re-uploading a file addresses the
// same job.
func DocumentID(fileName string, size int64) string {
	hash := sha256.Sum256([]byte(fileName + strconv.FormatInt(size, 10)))
	return hex.EncodeToString(hash[:])[:idLength]
}
