package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

// emailChar excludes '@' and every Unicode space, including vertical tab,
// no-break space, line separators and the byte order mark.
const emailChar = `[^\s\v\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSubscribeInput returns the first failing rule, or nil.
func ValidateSubscribeInput(input SubscribeInput) *ValidationError {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return &ValidationError{"email", MsgEmailRequired}
	}
	if !IsValidEmail(email) {
		return &ValidationError{"email", MsgEmailInvalid}
	}
	return nil
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
