package devserver

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	saltLength    = 16
	hashLength    = 32
	argonTime     = 2
	argonMemoryKB = 16 * 1024
	argonThreads  = 1
)

// hashPassword derives a key from password with a fresh random salt.
func hashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	return deriveKey(password, salt), salt, nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKB, argonThreads, hashLength)
}

// verifyPassword compares in constant time.
func verifyPassword(password string, hash, salt []byte) bool {
	return subtle.ConstantTimeCompare(deriveKey(password, salt), hash) == 1
}
