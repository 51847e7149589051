package auth

import (
	"fmt"
	"unicode"
)

const maxUserIDLength = 64

// ValidateUserID checks that a user id can be typed on a command line and
// used as a JSON key: 1 to 64 printable characters without whitespace.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", InvalidUserIDErr)
	}
	if len(userID) > maxUserIDLength {
		return fmt.Errorf("%w: user id must be at most %d characters", InvalidUserIDErr, maxUserIDLength)
	}
	for _, r := range userID {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: user id must not contain whitespace or control characters", InvalidUserIDErr)
		}
	}
	return nil
}
