package filter

import (
	"testing"

	"support-chat-be/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		response string
		filters  []entity.ResponseFilter
		want     string
	}{
		{
			name:     "no filters",
			response: "hello",
			filters:  nil,
			want:     "hello",
		},
		{
			name:     "case-insensitive replace",
			response: "Contact SUPPORT for help",
			filters: []entity.ResponseFilter{
				{Type: "replace", Pattern: "support", Value: "our team"},
			},
			want: "Contact our team for help",
		},
		{
			name:     "append adds a blank-line separator",
			response: "Answer.",
			filters: []entity.ResponseFilter{
				{Type: "append", Value: "Anything else?"},
			},
			want: "Answer.\n\nAnything else?",
		},
		{
			name:     "prepend adds a blank-line separator",
			response: "Answer.",
			filters: []entity.ResponseFilter{
				{Type: "prepend", Value: "Note:"},
			},
			want: "Note:\n\nAnswer.",
		},
		{
			name:     "filters run in stored order",
			response: "base",
			filters: []entity.ResponseFilter{
				{Type: "append", Value: "first"},
				{Type: "append", Value: "second"},
			},
			want: "base\n\nfirst\n\nsecond",
		},
		{
			name:     "invalid pattern is skipped, chain continues",
			response: "base",
			filters: []entity.ResponseFilter{
				{Type: "replace", Pattern: "([unclosed", Value: "x"},
				{Type: "append", Value: "still here"},
			},
			want: "base\n\nstill here",
		},
		{
			name:     "unknown type is skipped",
			response: "base",
			filters: []entity.ResponseFilter{
				{Type: "block", Value: "x"},
				{Type: "prepend", Value: "kept"},
			},
			want: "kept\n\nbase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.response, tt.filters, nopLogger{})
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchesExcludedTopic(t *testing.T) {
	tests := []struct {
		name     string
		response string
		topics   []string
		want     bool
	}{
		{"verbatim match", "Our pricing is $10/mo", []string{"pricing"}, true},
		{"case-insensitive", "PRICING details inside", []string{"pricing"}, true},
		{"no match", "We offer refunds", []string{"pricing"}, false},
		{"empty topics", "anything", nil, false},
		{"blank topic ignored", "anything", []string{"  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesExcludedTopic(tt.response, tt.topics)
			if got != tt.want {
				t.Errorf("MatchesExcludedTopic() = %v, want %v", got, tt.want)
			}
		})
	}
}
