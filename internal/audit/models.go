package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"batchtrace/internal/platform/privacy"
)

// Outcome classifies how a verification attempt ended.
type Outcome string

const (
	OutcomeFound            Outcome = "found"
	OutcomeNotFound         Outcome = "not-found"
	OutcomeValidationFailed Outcome = "validation-failed"
	OutcomeArtifactMissing  Outcome = "artifact-missing"
	OutcomeSystemError      Outcome = "system-error"
)

// Entry is one immutable record of a verification attempt. Contact fields
// are stored masked; entries are appended to an external sink and never read
// back by this service.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	BatchCode string    `json:"batch_code"` // normalized
	Mobile    string    `json:"mobile"`     // masked
	Email     string    `json:"email"`      // masked, may be empty
	Location  string    `json:"location"`
	UserAgent string    `json:"user_agent"` // parsed browser/OS summary
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"` // present when failed
	RequestID string    `json:"request_id,omitempty"`
}

// NewEntry builds an entry with masked contact fields and a fresh ID. The
// location falls back to "not provided" so failed compliance-gate attempts
// are still distinguishable in the log.
func NewEntry(batchCode, mobile, email, location, rawUserAgent string) Entry {
	if strings.TrimSpace(location) == "" {
		location = "not provided"
	}
	return Entry{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		BatchCode: batchCode,
		Mobile:    privacy.MaskMobile(mobile),
		Email:     privacy.MaskEmail(email),
		Location:  location,
		UserAgent: SummarizeUserAgent(rawUserAgent),
	}
}

// SummarizeUserAgent reduces a raw User-Agent header to "browser/os/platform".
// Raw UA strings are long and high-entropy; the summary is enough for abuse
// triage without storing a fingerprintable value.
func SummarizeUserAgent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "unknown"
	}
	os := ua.OS()
	if os == "" {
		os = "unknown"
	}
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	} else if ua.Bot() {
		platform = "bot"
	}
	return strings.ToLower(browser + "/" + os + "/" + platform)
}
