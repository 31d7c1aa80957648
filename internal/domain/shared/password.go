package shared

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new hashes. Tests lower it.
var PasswordHashCost = 12

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"sunshine":   {},
	"letmein1":   {},
	"football":   {},
	"baseball":   {},
	"welcome1":   {},
	"abc12345":   {},
}

// PasswordProblems lists every policy rule password breaks. similarTo holds
// identity attributes (username, email) the password must not equal.
func PasswordProblems(password string, similarTo ...string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.Trim(password, "0123456789") == "" {
		problems = append(problems, "This password is entirely numeric.")
	}
	for _, attr := range similarTo {
		if attr != "" && strings.EqualFold(password, attr) {
			problems = append(problems, "The password is too similar to your account details.")
			break
		}
	}
	return problems
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
