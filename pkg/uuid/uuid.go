package uuid

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid uuid format")

// UUID is a 16 byte RFC 4122 identifier
type UUID [16]byte

// Nil is the zero UUID
var Nil UUID

// New returns a random v4 UUID
func New() (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(rand.Reader, u[:]); err != nil {
		return Nil, err
	}
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u, nil
}

// MustNew is New for callers that cannot recover from an exhausted entropy source.
func MustNew() UUID {
	u, err := New()
	if err != nil {
		panic(err)
	}
	return u
}

// String formats u as xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], u[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], u[10:16])
	return string(buf[:])
}

// Parse parses the canonical textual form
func Parse(s string) (UUID, error) {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return Nil, ErrInvalidFormat
	}

	b, err := hex.DecodeString(strings.ReplaceAll(s, "-", ""))
	if err != nil {
		return Nil, ErrInvalidFormat
	}

	var u UUID
	copy(u[:], b)
	return u, nil
}

// MarshalText implements encoding.TextMarshaler, so UUIDs render as strings in JSON.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = id
	return nil
}
