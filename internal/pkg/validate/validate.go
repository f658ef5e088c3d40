package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email accepts anything shaped like local@domain.tld. Deliverability
// is the mail provider's problem, not ours.
func Email(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}
