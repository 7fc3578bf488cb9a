package processor

import (
	"strings"

	"channel-relay-go/internal/models"
)

// Matches reports whether a message text satisfies a mapping's filter
// criteria. Empty text never matches. A mapping with neither signature
// nor keywords accepts every non-empty message. A configured signature
// must occur as a case-insensitive substring; configured keywords match
// if at least one occurs as a case-insensitive substring. Both checks
// must pass.
func Matches(text string, mapping *models.ChannelMapping) bool {
	if text == "" {
		return false
	}

	if mapping.Signature == "" && len(mapping.Keywords) == 0 {
		return true
	}

	lower := strings.ToLower(text)

	signatureMatch := true
	if mapping.Signature != "" {
		signatureMatch = strings.Contains(lower, strings.ToLower(mapping.Signature))
	}

	keywordMatch := true
	if len(mapping.Keywords) > 0 {
		keywordMatch = false
		for _, keyword := range mapping.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				keywordMatch = true
				break
			}
		}
	}

	return signatureMatch && keywordMatch
}
