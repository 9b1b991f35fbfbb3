// Package sessionid generates the identifiers that name advisory sessions and
// their snapshot files: a UUIDv7 rendered as 26 characters of Crockford
// base32, so ids sort by creation time and are safe as file names.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/coder/quartz"
)

// Length of an encoded id.
const Length = 26

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator mints session ids from a clock and a source of random bytes.
type Generator struct {
	clock   quartz.Clock
	entropy io.Reader
}

// NewGenerator returns a generator. A nil clock uses the real clock and a nil
// entropy reader uses crypto/rand.
func NewGenerator(clock quartz.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{clock: clock, entropy: entropy}
}

var defaultGenerator = NewGenerator(nil, nil)

// New returns a fresh id from the real clock and crypto/rand.
func New() string {
	id, err := defaultGenerator.Generate()
	if err != nil {
		panic("sessionid: " + err.Error())
	}
	return id
}

// Generate returns a new id.
func (g *Generator) Generate() (string, error) {
	var u [16]byte

	// 48-bit big-endian millisecond timestamp.
	ms := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		u[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := io.ReadFull(g.entropy, u[6:]); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant

	return encode(u), nil
}

// encode writes the 128 bits as 26 five-bit groups, left-padded with two
// zero bits so the first character is always 0-7.
func encode(u [16]byte) string {
	var b strings.Builder
	b.Grow(Length)

	var acc uint64
	bits := 2 // the two pad bits
	for _, v := range u {
		acc = acc<<8 | uint64(v)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b.WriteByte(alphabet[(acc>>bits)&0x1f])
		}
	}
	return b.String()
}

// Validate reports whether id is a well-formed session id.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session id must be %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session id must start with 0-7, got %q", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}
