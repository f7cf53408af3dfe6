package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "batchtrace/pkg/domain-errors"
)

func validRequest() Request {
	return Request{
		FullName:  "Asha Nair",
		Mobile:    "9876543210",
		Email:     "asha@example.com",
		Location:  "Kochi, Kerala",
		BatchCode: "ADIF5HW825",
	}
}

func TestValidate_AcceptsValidRequest(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(validRequest()))
}

func TestValidate_EmailIsOptional(t *testing.T) {
	v := NewValidator()
	req := validRequest()
	req.Email = ""
	assert.NoError(t, v.Validate(req))
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Request)
		wantCode dErrors.Code
	}{
		{"missing full name", func(r *Request) { r.FullName = "" }, dErrors.CodeMissingField},
		{"whitespace full name", func(r *Request) { r.FullName = "   " }, dErrors.CodeMissingField},
		{"missing mobile", func(r *Request) { r.Mobile = "" }, dErrors.CodeMissingField},
		{"missing batch code", func(r *Request) { r.BatchCode = "" }, dErrors.CodeMissingField},
		{"mobile too short", func(r *Request) { r.Mobile = "987654321" }, dErrors.CodeInvalidMobile},
		{"mobile bad leading digit", func(r *Request) { r.Mobile = "5876543210" }, dErrors.CodeInvalidMobile},
		{"mobile with letters", func(r *Request) { r.Mobile = "98765aaa10" }, dErrors.CodeInvalidMobile},
		{"malformed email", func(r *Request) { r.Email = "not-an-email" }, dErrors.CodeInvalidEmail},
		{"email missing domain", func(r *Request) { r.Email = "asha@" }, dErrors.CodeInvalidEmail},
		{"missing location", func(r *Request) { r.Location = "" }, dErrors.CodeLocationRequired},
		{"whitespace location", func(r *Request) { r.Location = "  " }, dErrors.CodeLocationRequired},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := v.Validate(req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.wantCode),
				"want code %s, got %v", tt.wantCode, err)
		})
	}
}

// When several rules fail at once, the earliest rule in the fixed order wins.
func TestValidate_OrderShortCircuits(t *testing.T) {
	v := NewValidator()

	req := Request{Mobile: "123", Email: "broken", BatchCode: "X1"}
	err := v.Validate(req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField), "missing name precedes mobile format")

	req = validRequest()
	req.Mobile = "123"
	req.Email = "broken"
	req.Location = ""
	err = v.Validate(req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidMobile), "mobile format precedes email and location")

	req = validRequest()
	req.Email = "broken"
	req.Location = ""
	err = v.Validate(req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidEmail), "email format precedes location")
}
