// Package phid generates and validates the PHID object identifiers used to
// address commits, users and documents across the module.
package phid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	prefix      = "PHID"
	randomChars = 20
	alphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Common object types.
const (
	TypeCommit = "CMIT"
	TypeUser   = "USER"
	TypeDiff   = "DREV"
	TypeTask   = "TASK"
)

// ErrInvalid is returned when a value does not look like a PHID.
var ErrInvalid = errors.New("phid: invalid identifier")

// PHID is an opaque object identifier of the form PHID-TYPE-xxxxxxxxxxxxxxxxxxxx.
type PHID string

// New generates a fresh PHID for the supplied four letter type.
func New(objectType string) (PHID, error) {
	objectType = strings.ToUpper(strings.TrimSpace(objectType))
	if !validType(objectType) {
		return "", fmt.Errorf("%w: type %q", ErrInvalid, objectType)
	}

	// two UUIDs give 32 random bytes, enough for the 20 character suffix
	var raw [32]byte
	first, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("phid: generate: %w", err)
	}
	second, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("phid: generate: %w", err)
	}
	copy(raw[:16], first[:])
	copy(raw[16:], second[:])

	var b strings.Builder
	b.Grow(len(prefix) + len(objectType) + randomChars + 2)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(objectType)
	b.WriteByte('-')
	for i := 0; i < randomChars; i++ {
		b.WriteByte(alphabet[int(raw[i])%len(alphabet)])
	}
	return PHID(b.String()), nil
}

// MustNew panics when generation fails. Useful for fixtures.
func MustNew(objectType string) PHID {
	id, err := New(objectType)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse validates raw and returns it as a PHID.
func Parse(raw string) (PHID, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, "-", 3)
	if len(parts) != 3 || parts[0] != prefix || !validType(parts[1]) || parts[2] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	return PHID(raw), nil
}

// Type returns the object type segment, or "" for malformed values.
func (p PHID) Type() string {
	parts := strings.SplitN(string(p), "-", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

func (p PHID) String() string { return string(p) }

func validType(t string) bool {
	if len(t) != 4 {
		return false
	}
	for _, r := range t {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
