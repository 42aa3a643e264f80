package users

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gane/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

func hashPassword(password string, cost int) (string, error) {
	b := []byte(password)
	defer common.WipeByteArray(b)

	hash, err := bcrypt.GenerateFromPassword(b, cost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}
	return string(hash), nil
}

// VerifyPassword compares candidate with a bcrypt hash. A mismatch is
// (false, nil); a malformed hash or any other bcrypt failure is reported as
// common.ErrorInternal and never as a plain false.
//
// bcrypt ignores input past maxPasswordBytes, so a longer candidate never
// matches. It is still compared, so the call costs the same and a malformed
// hash is still reported.
func VerifyPassword(storedHash, candidate string) (bool, error) {
	b := []byte(candidate)
	defer common.WipeByteArray(b)

	tooLong := len(b) > maxPasswordBytes

	err := bcrypt.CompareHashAndPassword([]byte(storedHash), b)
	switch {
	case err == nil:
		return !tooLong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: verify password: %v", common.ErrorInternal, err)
	}
}
