package workflow

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

const (
	maxCompanyNameLen = 255
	maxContactNameLen = 100
	maxAddressLen     = 500
	maxCommentLen     = 1000
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Loose phone pattern: digits with common punctuation.
	phoneRegex = regexp.MustCompile(`^[0-9+\-() ]{1,20}$`)
)

// ParseReportDate parses a YYYY-MM-DD report date.
func ParseReportDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid report_date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseVisitTime parses an HH:MM time of day and returns it normalized to
// minute granularity with zero padding, so lexicographic order matches
// chronological order.
func ParseVisitTime(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", apperr.Validation("invalid visit_time %q, expected HH:MM", s)
	}
	return t.Format("15:04"), nil
}

// ValidateVisitContent requires non-empty visit content.
func ValidateVisitContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("visit content is required")
	}
	return nil
}

// ValidateCommentContent enforces the 1..1000 character range.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return apperr.Validation("comment content exceeds %d characters", maxCommentLen)
	}
	return nil
}

// ValidateCustomerFields checks the customer master input rules: required
// company/contact names with length limits, optional phone/email/address with
// format checks when present.
func ValidateCustomerFields(companyName, contactName, phone, email, address string) error {
	if strings.TrimSpace(companyName) == "" {
		return apperr.Validation("company_name is required")
	}
	if utf8.RuneCountInString(companyName) > maxCompanyNameLen {
		return apperr.Validation("company_name exceeds %d characters", maxCompanyNameLen)
	}
	if strings.TrimSpace(contactName) == "" {
		return apperr.Validation("contact_name is required")
	}
	if utf8.RuneCountInString(contactName) > maxContactNameLen {
		return apperr.Validation("contact_name exceeds %d characters", maxContactNameLen)
	}
	if phone != "" && !phoneRegex.MatchString(phone) {
		return apperr.Validation("invalid phone format")
	}
	if email != "" && !emailRegex.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	if utf8.RuneCountInString(address) > maxAddressLen {
		return apperr.Validation("address exceeds %d characters", maxAddressLen)
	}
	return nil
}

// ValidateEmail checks the salesperson email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	return nil
}
