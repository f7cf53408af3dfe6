// Package verification orchestrates a consumer verification attempt: validate
// the submission, look up the batch code, issue a report credential, and
// record exactly one audit entry for the attempt regardless of outcome.
package verification

import "time"

// Request is one consumer submission. Field names mirror the JSON body the
// web form posts.
type Request struct {
	FullName  string `json:"fullName"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email,omitempty"`
	Location  string `json:"location"`
	BatchCode string `json:"batchCode"`

	// UserAgent and RequestID come from the transport layer, not the body.
	UserAgent string `json:"-"`
	RequestID string `json:"-"`
}

// Result is a successful verification: the public slice of the batch record
// plus the report credential. ReportURL and DownloadURL carry the same
// credential; older consumers read one field, newer ones the other.
type Result struct {
	Code         string    `json:"code"`
	ProductName  string    `json:"productName"`
	TestDate     string    `json:"testDate"`
	LabName      string    `json:"labName"`
	ReportNumber string    `json:"reportNumber"`
	ReportURL    string    `json:"reportUrl"`
	DownloadURL  string    `json:"downloadUrl"`
	Filename     string    `json:"filename,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitzero"`
	Folder       bool      `json:"folder"`
}
