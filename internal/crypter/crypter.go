// Package crypter salts, hashes and verifies passwords with scrypt.
//
// A stored hash has the form "<hex salt>°<hex key>". The scrypt parameters
// (N=16384, r=8, p=1, 64 byte key) and the salt encoding (the hex string itself
// is fed to scrypt) match hashes already stored in the users collection.
package crypter

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// DefaultSeparator never appears in hex output.
	DefaultSeparator = "°"

	saltLength = 8
	keyLength  = 64

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// Crypter hashes and verifies passwords. The zero value is not usable, use New.
type Crypter struct {
	separator string
}

func New(separator string) *Crypter {
	if separator == "" || strings.ContainsAny(separator, "0123456789abcdefABCDEF") {
		panic("crypter separator must be non-empty and contain no hex characters")
	}
	return &Crypter{separator: separator}
}

// Default is the crypter used for every stored user password.
var Default = New(DefaultSeparator)

// Hash derives a key from password and a fresh random salt.
// Two calls with the same password return different strings.
func (c *Crypter) Hash(password string) (string, error) {
	saltBytes := make([]byte, saltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", errors.Wrap(err, "generate salt")
	}
	salt := hex.EncodeToString(saltBytes)

	key, err := derive(password, salt)
	if err != nil {
		return "", err
	}
	return salt + c.separator + hex.EncodeToString(key), nil
}

// Verify reports whether password matches the stored hash.
// A malformed stored hash verifies as false.
func (c *Crypter) Verify(password, stored string) bool {
	salt, encodedKey, found := strings.Cut(stored, c.separator)
	if !found || salt == "" || encodedKey == "" {
		return false
	}

	storedKey, err := hex.DecodeString(encodedKey)
	if err != nil || len(storedKey) != keyLength {
		return false
	}

	key, err := derive(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(storedKey, key) == 1
}

func derive(password, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, errors.Wrap(err, "derive scrypt key")
	}
	return key, nil
}
