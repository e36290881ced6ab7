package validator

import (
	"regexp"
	"strings"
	"time"
)

var phoneRegexp = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func IsValidPhone(phone string) bool {
	return phoneRegexp.MatchString(strings.TrimSpace(phone))
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// IsValidBirthDate принимает дату рождения в формате YYYY-MM-DD не в будущем.
func IsValidBirthDate(date string) bool {
	if date == "" {
		return true
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return !parsed.After(time.Now())
}
