package crypto

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPIN hashes the admin PIN with bcrypt.
func HashPIN(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost)
	return string(bytes), err
}

// CheckPIN compares a plaintext PIN against a bcrypt hash.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// GenerateInviteToken returns a random UUIDv4 followed by the base36 creation time in
// milliseconds. Good enough for ticket codes, not for secrets.
func GenerateInviteToken() string {
	return uuid.NewString() + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
