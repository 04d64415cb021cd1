// Package checksum fingerprints rendered documents.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Rendition fingerprints one rendering of a source file: its raw bytes plus
// the engine name and stylesheet version that produced the stored HTML. A
// change to any of them yields a different value.
func Rendition(raw []byte, engine, styleVersion string) string {
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write([]byte(styleVersion))
	return hex.EncodeToString(h.Sum(nil))
}
