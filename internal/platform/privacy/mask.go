// Package privacy provides utilities for handling personally identifiable
// information (PII) before it reaches the audit sink. Audit entries outlive
// requests and may be exported, so contact fields are stored masked.
package privacy

import "strings"

// MaskMobile keeps the first two and last two digits of a mobile number,
// replacing the middle with 'x'. Ten digits is the only valid length by the
// time a number reaches the audit path; shorter strings are fully masked.
func MaskMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return ""
	}
	if len(mobile) < 6 {
		return strings.Repeat("x", len(mobile))
	}
	return mobile[:2] + strings.Repeat("x", len(mobile)-4) + mobile[len(mobile)-2:]
}

// MaskEmail keeps the first character of the local part and the full domain.
// The domain alone cannot identify an individual, and the leading character
// is enough for support staff to correlate with a user-reported issue.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***@" + email[at+1:]
}
