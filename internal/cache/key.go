package cache

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"lukechampine.com/blake3"
)

// KeyEncoder turns a request string (URL or query text) into a key that is
// safe to use as a single path segment. Implementations must be deterministic
// and total.
type KeyEncoder interface {
	Encode(request string) string
}

// Supported key encodings.
const (
	EncodingEscape = "escape"
	EncodingSHA1   = "sha1"
	EncodingSHA256 = "sha256"
	EncodingBLAKE3 = "blake3"
)

// EscapeEncoder query-escapes the request: space becomes '+', and every byte
// outside [A-Za-z0-9_.~-] becomes %XX. Keys stay readable and can be decoded
// back to the request with DecodeEscaped.
type EscapeEncoder struct{}

func (EscapeEncoder) Encode(request string) string { return url.QueryEscape(request) }

// DecodeEscaped reverses EscapeEncoder.
func DecodeEscaped(key string) (string, error) { return url.QueryUnescape(key) }

// HashEncoder keys requests by the hex digest of their UTF-8 bytes. The zero
// value uses SHA-1, which yields the same "hashcode" keys as older page caches.
type HashEncoder struct {
	Algo string
}

func (e HashEncoder) Encode(request string) string {
	b := []byte(request)
	switch e.Algo {
	case EncodingSHA256:
		h := sha256.Sum256(b)
		return hex.EncodeToString(h[:])
	case EncodingBLAKE3:
		h := blake3.Sum256(b)
		return hex.EncodeToString(h[:])
	default:
		h := sha1.Sum(b)
		return hex.EncodeToString(h[:])
	}
}

// NewKeyEncoder returns the encoder for name. An empty name selects escaping.
func NewKeyEncoder(name string) (KeyEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingEscape:
		return EscapeEncoder{}, nil
	case EncodingSHA1:
		return HashEncoder{Algo: EncodingSHA1}, nil
	case EncodingSHA256:
		return HashEncoder{Algo: EncodingSHA256}, nil
	case EncodingBLAKE3:
		return HashEncoder{Algo: EncodingBLAKE3}, nil
	default:
		return nil, fmt.Errorf("unsupported key encoding: %q", name)
	}
}

// validKey reports whether key+ext forms a single file name segment.
func validKey(key, ext string) bool {
	switch key + ext {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(key, "/\\\x00")
}
