// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin and every endpoint shares one envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "batchtrace/pkg/domain-errors"
)

// ErrorResponse is the failure envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into the failure envelope. Messages on
// internal and artifact errors are replaced with a generic sentence; the
// detailed cause belongs in server logs, never in the response body.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := ""

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message
	}
	if message == "" || !safeToExpose(code) {
		message = GenericMessage(code)
	}

	WriteJSON(w, DomainCodeToHTTPStatus(code), ErrorResponse{Success: false, Error: message})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch {
	case dErrors.IsValidation(code) || code == dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case code == dErrors.CodeNotFound:
		return http.StatusNotFound
	case code == dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		// artifact_missing and internal_error both surface as 500.
		return http.StatusInternalServerError
	}
}

// safeToExpose reports whether a domain error message can be sent to the
// caller verbatim. Validation and not-found messages are written for users;
// anything else may carry storage paths or dependency detail.
func safeToExpose(code dErrors.Code) bool {
	return dErrors.IsValidation(code) || code == dErrors.CodeNotFound || code == dErrors.CodeBadRequest
}

// GenericMessage returns the caller-facing sentence for a domain error code.
func GenericMessage(code dErrors.Code) string {
	switch {
	case dErrors.IsValidation(code), code == dErrors.CodeBadRequest:
		return "The submitted details are invalid. Please review and try again."
	case code == dErrors.CodeNotFound:
		return "Batch code not found. Please check the code on your pack."
	case code == dErrors.CodeArtifactMissing:
		return "The report for this batch is temporarily unavailable. Please contact support."
	case code == dErrors.CodeTimeout:
		return "Verification timed out. Please try again."
	default:
		return "Verification is temporarily unavailable. Please try again."
	}
}
