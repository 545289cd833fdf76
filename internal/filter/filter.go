package filter

import (
	"regexp"
	"strings"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
)

// Apply runs a rule's response filters over the model output, strictly in
// stored order. A broken filter (unknown type, invalid pattern) is skipped and
// logged, never aborting the chain.
func Apply(response string, filters []entity.ResponseFilter, log logger.ILogger) string {
	for i, f := range filters {
		filtered, err := applyOne(response, f)
		if err != nil {
			log.Warn("ResponseFilter", "Skipping broken filter", map[string]interface{}{
				"index": i,
				"type":  f.Type,
				"error": err.Error(),
			})
			continue
		}
		response = filtered
	}
	return response
}

func applyOne(response string, f entity.ResponseFilter) (string, error) {
	switch f.Type {
	case constant.FilterTypeReplace:
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return "", err
		}
		return re.ReplaceAllString(response, f.Value), nil
	case constant.FilterTypeAppend:
		return response + "\n\n" + f.Value, nil
	case constant.FilterTypePrepend:
		return f.Value + "\n\n" + response, nil
	default:
		return "", &UnknownFilterError{Type: f.Type}
	}
}

type UnknownFilterError struct {
	Type string
}

func (e *UnknownFilterError) Error() string {
	return "unknown filter type: " + e.Type
}

// MatchesExcludedTopic reports whether the raw response mentions any excluded
// topic verbatim (case-insensitive). A match replaces the whole response with
// the refusal string before the filter chain runs.
func MatchesExcludedTopic(response string, excludedTopics []string) bool {
	lower := strings.ToLower(response)
	for _, topic := range excludedTopics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(topic)) {
			return true
		}
	}
	return false
}
