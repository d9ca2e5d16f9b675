// Package secret generates login passwords and their salted SSHA encoding,
// the only password scheme the managed directory entries use.
package secret

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SSHA is defined over SHA-1
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// PasswordLength is the length of a generated password.
const PasswordLength = 9

// passwordChars is the password alphabet: lowercase, uppercase and digits.
var passwordChars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

const (
	scheme  = "{SSHA}"
	saltLen = 4
	shaLen  = sha1.Size
	maxByte = 255
	byteMod = 256
)

// Generate returns a password and its SSHA encoding. When plaintext is
// empty a random password is synthesized; the caller is expected to show
// the clear value to the operator exactly once, it is never persisted.
func Generate(plaintext string) (clear, encoded string, err error) {
	clear = plaintext
	if clear == "" {
		if clear, err = randomString(PasswordLength, passwordChars); err != nil {
			return "", "", err
		}
	}

	salt := make([]byte, saltLen)
	if _, err = rand.Read(salt); err != nil {
		return "", "", errors.Wrap(err, "failed to read random salt")
	}

	return clear, encode(clear, salt), nil
}

// Verify reports whether plaintext matches an SSHA-encoded value.
func Verify(plaintext, encoded string) bool {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, scheme))
	if err != nil || len(raw) <= shaLen {
		return false
	}

	want := encode(plaintext, raw[shaLen:])

	return subtle.ConstantTimeCompare([]byte(want), []byte(encoded)) == 1
}

// encode computes "{SSHA}" + base64(sha1(plaintext||salt) || salt).
func encode(plaintext string, salt []byte) string {
	h := sha1.New() //nolint:gosec // SSHA is defined over SHA-1
	h.Write([]byte(plaintext))
	h.Write(salt)

	return scheme + base64.StdEncoding.EncodeToString(append(h.Sum(nil), salt...))
}

// randomString draws length characters uniformly from chars, rejecting
// random bytes above the largest multiple of len(chars) to avoid modulo bias.
func randomString(length int, chars []byte) (string, error) {
	maxRb := maxByte - (byteMod % len(chars))
	out := make([]byte, 0, length)
	buf := make([]byte, length*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "failed to read random bytes")
		}

		for _, rb := range buf {
			if int(rb) > maxRb {
				// Skip this byte to avoid modulo bias.
				continue
			}

			out = append(out, chars[int(rb)%len(chars)])
			if len(out) == length {
				return string(out), nil
			}
		}
	}
}
