package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"FullName", "fullname"},
		{"full_name", "fullname"},
		{"full-name", "fullname"},
		{"fullName", "fullname"},
		{"FULL_NAME", "fullname"},
		{"XMLRecord", "xmlrecord"},
		{"", ""},
		{"ID", "id"},
		{"created_by-ID", "createdbyid"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdent(tt.input))
		})
	}
}

func TestNormalizeIdentWithSuffixStrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AccountID", "account"},
		{"account_ids", "account"},
		{"CreatedAt", "created"},
		{"SyncedUTC", "synced"},
		{"ImportTimestamp", "import"},
		{"ID", "id"},
		{"at", "at"},
		{"FullName", "fullname"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdentWithSuffixStrip(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"LegacyUser", []string{"legacy", "user"}},
		{"legacyUser", []string{"legacy", "user"}},
		{"HTTPRequestLog", []string{"http", "request", "log"}},
		{"parseURL", []string{"parse", "url"}},
		{"order_items", []string{"order", "items"}},
		{"ABcD", []string{"a", "bc", "d"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeIdent(tt.input))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LegacyUser", "legacy_user"},
		{"legacy_user", "legacy_user"},
		{"HTTPRequestLog", "http_request_log"},
		{"order-items", "order_items"},
		{"Account", "account"},
		{"users.address", "users.address"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeCase(tt.input))
		})
	}
}
