package rewrite

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBackend records prompts and replays scripted responses in order
type fakeBackend struct {
	responses []string
	err       error
	prompts   []string
}

func (b *fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	b.prompts = append(b.prompts, prompt)
	if b.err != nil {
		return "", b.err
	}
	idx := len(b.prompts) - 1
	if idx >= len(b.responses) {
		idx = len(b.responses) - 1
	}
	return b.responses[idx], nil
}

func TestRewriteShortTextUsesFormalizeTemplate(t *testing.T) {
	backend := &fakeBackend{responses: []string{"Formal version."}}
	svc := NewService(backend)

	result, err := svc.Rewrite(context.Background(), "short input", "", "\n\nfooter")
	assert.NoError(t, err)
	assert.Equal(t, "Formal version.\n\nfooter", result)

	assert.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "do not summarize")
	assert.Contains(t, backend.prompts[0], "short input")
}

func TestRewriteLongTextUsesSummarizeTemplate(t *testing.T) {
	backend := &fakeBackend{responses: []string{"A summary."}}
	svc := NewService(backend)

	long := strings.Repeat("a", 801)
	result, err := svc.Rewrite(context.Background(), long, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "A summary.", result)

	assert.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "between 600 and 800 characters")
}

func TestRewriteWithinBudgetNotModified(t *testing.T) {
	response := strings.Repeat("x", 900)
	backend := &fakeBackend{responses: []string{response}}
	svc := NewService(backend)

	footer := strings.Repeat("f", 50)
	result, err := svc.Rewrite(context.Background(), "input", "", footer)
	assert.NoError(t, err)

	// 900 + 50 fits the 1020 budget, nothing is trimmed
	assert.Equal(t, response+footer, result)
	assert.Len(t, backend.prompts, 1)
}

func TestRewriteOverBudgetTriggersAggressiveRetry(t *testing.T) {
	backend := &fakeBackend{responses: []string{
		strings.Repeat("x", 900),
		strings.Repeat("y", 650),
	}}
	svc := NewService(backend)

	footer := strings.Repeat("f", 200)
	result, err := svc.Rewrite(context.Background(), "input", "", footer)
	assert.NoError(t, err)

	// 900 + 200 breaks the budget, the 650-char retry fits
	assert.Equal(t, strings.Repeat("y", 650)+footer, result)
	assert.Len(t, backend.prompts, 2)
	assert.Contains(t, backend.prompts[1], "at most 700 characters")
}

func TestRewriteTruncatesWhenRetryStillTooLong(t *testing.T) {
	backend := &fakeBackend{responses: []string{
		strings.Repeat("x", 1200),
		strings.Repeat("y", 1100),
	}}
	svc := NewService(backend)

	footer := strings.Repeat("f", 20)
	result, err := svc.Rewrite(context.Background(), "input", "", footer)
	assert.NoError(t, err)

	assert.LessOrEqual(t, len([]rune(result)), 1020)
	assert.True(t, strings.HasSuffix(result, "..."+footer))
	// 1020 - 20 footer - 3 ellipsis = 997 response chars
	assert.Equal(t, strings.Repeat("y", 997)+"..."+footer, result)
}

func TestRewriteShortResponseOverBudgetTruncatesWithoutRetry(t *testing.T) {
	// Response under 800 chars, footer pushes it over budget; no second
	// backend call is made, straight to truncation
	backend := &fakeBackend{responses: []string{strings.Repeat("x", 700)}}
	svc := NewService(backend)

	footer := strings.Repeat("f", 400)
	result, err := svc.Rewrite(context.Background(), "input", "", footer)
	assert.NoError(t, err)

	assert.Len(t, backend.prompts, 1)
	assert.Equal(t, strings.Repeat("x", 617)+"..."+footer, result)
	assert.Equal(t, 1020, len([]rune(result)))
}

func TestRewriteCountsRunesNotBytes(t *testing.T) {
	// 900 multibyte characters, 2600 bytes, still within the character budget
	response := strings.Repeat("ж", 900)
	backend := &fakeBackend{responses: []string{response}}
	svc := NewService(backend)

	result, err := svc.Rewrite(context.Background(), "input", "", "")
	assert.NoError(t, err)
	assert.Equal(t, response, result)
	assert.Len(t, backend.prompts, 1)
}

func TestRewritePromptOverrideWithPlaceholder(t *testing.T) {
	backend := &fakeBackend{responses: []string{"done"}}
	svc := NewService(backend)

	_, err := svc.Rewrite(context.Background(), "the text", "Translate this: %s", "")
	assert.NoError(t, err)
	assert.Equal(t, "Translate this: the text", backend.prompts[0])
}

func TestRewritePromptOverrideWithoutPlaceholder(t *testing.T) {
	backend := &fakeBackend{responses: []string{"done"}}
	svc := NewService(backend)

	_, err := svc.Rewrite(context.Background(), "the text", "Translate this.", "")
	assert.NoError(t, err)
	assert.Equal(t, "Translate this.\n\nthe text", backend.prompts[0])
}

func TestRewriteBackendErrorPropagates(t *testing.T) {
	backend := &fakeBackend{err: fmt.Errorf("rate limited")}
	svc := NewService(backend)

	_, err := svc.Rewrite(context.Background(), "input", "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestRewriteEmptyResponseIsError(t *testing.T) {
	backend := &fakeBackend{responses: []string{"   "}}
	svc := NewService(backend)

	_, err := svc.Rewrite(context.Background(), "input", "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty rewrite response")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "", truncateRunes("abc", 0))
	assert.Equal(t, "жж", truncateRunes("жжжж", 2))
}
