package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	plateRegex = regexp.MustCompile(`^[A-Z0-9\- ]{4,12}$`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

func IsValidLicensePlate(plate string) bool {
	return plateRegex.MatchString(strings.ToUpper(strings.TrimSpace(plate)))
}

func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}

func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
