package skel

import (
	"encoding/base64"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// hashString formats a 64-bit hash as unpadded base64 of its big-endian
// bytes. Zero is the empty hash.
func hashString(h int64) string {
	if h == 0 {
		return ""
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(h))
	return base64.RawStdEncoding.EncodeToString(b[:])
}

// hashValue returns the 64-bit form of a hash string. A string that does not
// decode to exactly 8 bytes is digested instead, so that foreign hashes still
// map to a stable value.
func hashValue(s string) int64 {
	if s == "" {
		return 0
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil && len(b) == 8 {
		return int64(binary.BigEndian.Uint64(b))
	}
	sum := blake2b.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
