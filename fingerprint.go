// Package dashboard provides shared primitives for the BOD-Dashboard data
// plane: content fingerprints used for ETags and cached-payload identity.
package dashboard

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// FingerprintSize is the size of a BLAKE3 fingerprint in bytes (256 bits).
const FingerprintSize = 32

// Fingerprint is a BLAKE3 256-bit digest of a response payload.
type Fingerprint [FingerprintSize]byte

// String returns the hex-encoded representation of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ShortString returns a shortened hex representation for display.
func (f Fingerprint) ShortString() string {
	return hex.EncodeToString(f[:8])
}

// ETag returns the fingerprint formatted as a strong HTTP entity tag.
func (f Fingerprint) ETag() string {
	return `"` + f.String() + `"`
}

// IsZero returns true if the fingerprint is all zeros (uninitialized).
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// MarshalText implements encoding.TextMarshaler.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	if len(text) != FingerprintSize*2 {
		return fmt.Errorf("invalid fingerprint length: expected %d hex chars, got %d", FingerprintSize*2, len(text))
	}
	_, err := hex.Decode(f[:], text)
	return err
}

// ParseFingerprint parses a hex-encoded fingerprint string.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	if err := f.UnmarshalText([]byte(s)); err != nil {
		return Fingerprint{}, err
	}
	return f, nil
}

// FingerprintBytes computes the BLAKE3 fingerprint of the given bytes.
func FingerprintBytes(data []byte) Fingerprint {
	return Fingerprint(blake3.Sum256(data))
}

// FingerprintJSON computes the fingerprint of a value's JSON encoding.
// Two payloads that encode identically share a fingerprint, which is what
// makes it usable as an ETag for conditional GETs.
func FingerprintJSON(v any) (Fingerprint, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("encoding payload: %w", err)
	}
	return FingerprintBytes(data), nil
}
