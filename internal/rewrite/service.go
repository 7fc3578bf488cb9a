package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Length budgets in characters (runes), fixed Telegram caption/message
// limits plus the summarization window.
const (
	// Above this input length the summarization template is used
	// instead of the formalize template.
	longTextThreshold = 800
	// Hard budget for the final user-facing text in a caption context.
	captionBudget = 1020
	// Target length for the aggressive second-attempt summarization.
	aggressiveTarget = 700
)

const defaultTemplate = `Please rewrite the following text in a formal, professional style suitable for publication in a channel. Keep it clear and accurate; do not summarize:

Original text: %s

Provide only the rewritten text.`

const summarizeTemplate = `Please rewrite the following text as a concise, professional summary between 600 and 800 characters, suitable for publication in a channel. Preserve the key points:

Original text: %s

Provide only the rewritten text.`

const aggressiveTemplate = `Please rewrite the following text as a very short summary of at most 700 characters, preserving only the key points:

Original text: %s

Provide only the summarized text.`

// Service orchestrates AI rewriting with length-based template
// selection and output budget enforcement.
type Service struct {
	backend Backend
}

// NewService creates a rewrite service on top of a backend
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Rewrite transforms text through the AI backend, appends the footer,
// and enforces the caption budget. Template selection: an explicit
// prompt override wins; otherwise inputs longer than 800 characters use
// the summarization template and shorter inputs the formalize template.
// Any backend failure is returned as an error; the caller is expected
// to fall back to the original text.
func (s *Service) Rewrite(ctx context.Context, text, promptOverride, footer string) (string, error) {
	var prompt string
	if promptOverride != "" {
		prompt = buildPrompt(promptOverride, text)
	} else if runeLen(text) > longTextThreshold {
		prompt = fmt.Sprintf(summarizeTemplate, text)
	} else {
		prompt = fmt.Sprintf(defaultTemplate, text)
	}

	response, err := s.backend.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("empty rewrite response")
	}

	final := response + footer
	if runeLen(final) <= captionBudget {
		return final, nil
	}

	// Over budget. If the response itself is long, try one aggressive
	// summarization pass before truncating.
	if runeLen(response) > longTextThreshold {
		shorter, err := s.backend.Complete(ctx, fmt.Sprintf(aggressiveTemplate, text))
		if err != nil {
			logrus.Warnf("Aggressive rewrite attempt failed: %v", err)
		} else if shorter = strings.TrimSpace(shorter); shorter != "" {
			final = shorter + footer
			if runeLen(final) <= captionBudget {
				return final, nil
			}
			response = shorter
		}
	}

	// Still too long: hard-truncate the response to fit the budget with
	// an ellipsis marker, then re-append the footer.
	maxResponseLen := captionBudget - runeLen(footer) - 3
	if runeLen(response) > maxResponseLen {
		response = truncateRunes(response, maxResponseLen) + "..."
	}
	return response + footer, nil
}

// buildPrompt formats a custom prompt template. Templates carrying a %s
// placeholder receive the text in place; otherwise the text is appended.
func buildPrompt(template, text string) string {
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, text)
	}
	return template + "\n\n" + text
}

// runeLen counts characters, not bytes
func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
