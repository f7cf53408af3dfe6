package privacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"batchtrace/internal/platform/privacy"
)

func TestMaskMobile(t *testing.T) {
	tests := []struct {
		name   string
		mobile string
		want   string
	}{
		{"standard ten digits", "9876543210", "98xxxxxx10"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"short string fully masked", "12345", "xxxxx"},
		{"trimmed", " 9876543210 ", "98xxxxxx10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, privacy.MaskMobile(tt.mobile))
		})
	}
}

func TestMaskMobile_NeverRevealsMiddleDigits(t *testing.T) {
	masked := privacy.MaskMobile("9876543210")
	assert.NotContains(t, masked, "765432")
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"standard", "anjali.sharma@example.com", "a***@example.com"},
		{"single char local", "a@example.com", "a***@example.com"},
		{"empty", "", ""},
		{"no at sign", "not-an-email", "***"},
		{"leading at sign", "@example.com", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, privacy.MaskEmail(tt.email))
		})
	}
}
