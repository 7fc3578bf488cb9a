package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"channel-relay-go/internal/models"
)

func TestMatchesEmptyText(t *testing.T) {
	mapping := &models.ChannelMapping{}
	assert.False(t, Matches("", mapping))

	mapping = &models.ChannelMapping{Signature: "sig", Keywords: []string{"word"}}
	assert.False(t, Matches("", mapping))
}

func TestMatchesNoCriteria(t *testing.T) {
	mapping := &models.ChannelMapping{}

	assert.True(t, Matches("anything at all", mapping))
	// Whitespace-only text counts as present text
	assert.True(t, Matches("   ", mapping))
}

func TestMatchesSignature(t *testing.T) {
	mapping := &models.ChannelMapping{Signature: "ABC"}

	assert.True(t, Matches("prefix abc suffix", mapping))
	assert.True(t, Matches("ABC", mapping))
	assert.False(t, Matches("no match here", mapping))
}

func TestMatchesKeywords(t *testing.T) {
	mapping := &models.ChannelMapping{Keywords: []string{"sale"}}

	assert.True(t, Matches("Big SALE today", mapping))
	assert.False(t, Matches("Nothing here", mapping))

	// Any keyword is enough
	mapping.Keywords = []string{"foo", "bar"}
	assert.True(t, Matches("only bar present", mapping))
	assert.False(t, Matches("neither present", mapping))
}

func TestMatchesSignatureAndKeywords(t *testing.T) {
	mapping := &models.ChannelMapping{Signature: "news", Keywords: []string{"sale", "offer"}}

	assert.True(t, Matches("News: big sale today", mapping))
	// Signature without keyword fails
	assert.False(t, Matches("News: nothing interesting", mapping))
	// Keyword without signature fails
	assert.False(t, Matches("big sale today", mapping))
}
