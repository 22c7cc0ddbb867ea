package service

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// IsValidEmail проверяет синтаксис адреса
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
