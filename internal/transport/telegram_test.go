package transport

import (
	"context"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"channel-relay-go/internal/models"
)

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil", nil, 0},
		{"plain error", fmt.Errorf("network down"), 0},
		{"no retry_after", tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, 0},
		{"retry_after 2", tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 2}}, 2 * time.Second},
		{"pointer retry_after 30", &tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 30}}, 30 * time.Second},
		{"wrapped", fmt.Errorf("send failed: %w", tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 5}}), 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryAfter(tt.err))
		})
	}
}

func TestFloodWaitErrorMessage(t *testing.T) {
	err := &FloodWaitError{RetryAfter: 30 * time.Second}
	assert.Contains(t, err.Error(), "30s")
}

func TestCandidateFromMessageText(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 42,
		Text:      "plain post",
		Date:      int(time.Now().Unix()),
	}

	candidate := candidateFromMessage(msg)
	assert.Equal(t, int64(42), candidate.ID)
	assert.Equal(t, "plain post", candidate.Text)
	assert.False(t, candidate.HasMedia)
}

func TestCandidateFromMessagePhoto(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 43,
		Caption:   "photo caption",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "medium", Width: 320},
			{FileID: "large", Width: 1280},
		},
	}

	candidate := candidateFromMessage(msg)
	assert.Equal(t, "photo caption", candidate.Text)
	assert.True(t, candidate.HasMedia)
	assert.Equal(t, models.MediaTypePhoto, candidate.MediaType)
	// Largest rendition wins
	assert.Equal(t, "large", candidate.MediaRef)
}

func TestCandidateFromMessageOtherMedia(t *testing.T) {
	video := candidateFromMessage(&tgbotapi.Message{MessageID: 1, Video: &tgbotapi.Video{FileID: "v1"}})
	assert.Equal(t, models.MediaTypeVideo, video.MediaType)
	assert.Equal(t, "v1", video.MediaRef)

	audio := candidateFromMessage(&tgbotapi.Message{MessageID: 2, Audio: &tgbotapi.Audio{FileID: "a1"}})
	assert.Equal(t, models.MediaTypeAudio, audio.MediaType)

	doc := candidateFromMessage(&tgbotapi.Message{MessageID: 3, Document: &tgbotapi.Document{FileID: "d1"}})
	assert.Equal(t, models.MediaTypeDocument, doc.MediaType)
}

func bufferedTransport(channelID int64, messages ...models.CandidateMessage) *Telegram {
	return &Telegram{
		buffers: map[int64][]models.CandidateMessage{channelID: messages},
	}
}

func TestFetchMessagesPastCursor(t *testing.T) {
	tr := bufferedTransport(100,
		models.CandidateMessage{ID: 5, Text: "old"},
		models.CandidateMessage{ID: 8, Text: "newer"},
		models.CandidateMessage{ID: 6, Text: "new"},
	)

	messages, err := tr.FetchMessages(context.Background(), 100, 5, 20)
	assert.NoError(t, err)

	// Strictly after the cursor, ascending
	if assert.Len(t, messages, 2) {
		assert.Equal(t, int64(6), messages[0].ID)
		assert.Equal(t, int64(8), messages[1].ID)
	}

	// The entry at the cursor is pruned from the buffer
	assert.Len(t, tr.buffers[100], 2)
}

func TestFetchMessagesLimit(t *testing.T) {
	tr := bufferedTransport(100,
		models.CandidateMessage{ID: 1},
		models.CandidateMessage{ID: 2},
		models.CandidateMessage{ID: 3},
	)

	messages, err := tr.FetchMessages(context.Background(), 100, 0, 2)
	assert.NoError(t, err)
	if assert.Len(t, messages, 2) {
		assert.Equal(t, int64(1), messages[0].ID)
		assert.Equal(t, int64(2), messages[1].ID)
	}
}

func TestFetchMessagesUnknownChannel(t *testing.T) {
	tr := bufferedTransport(100)

	messages, err := tr.FetchMessages(context.Background(), 999, 0, 20)
	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFetchMessagesSince(t *testing.T) {
	now := time.Now()
	tr := bufferedTransport(100,
		models.CandidateMessage{ID: 1, Date: now.Add(-2 * time.Hour)},
		models.CandidateMessage{ID: 2, Date: now.Add(-30 * time.Minute)},
		models.CandidateMessage{ID: 3, Date: now.Add(-time.Minute)},
	)

	messages, err := tr.FetchMessagesSince(context.Background(), 100, now.Add(-time.Hour), 0)
	assert.NoError(t, err)
	if assert.Len(t, messages, 2) {
		assert.Equal(t, int64(2), messages[0].ID)
		assert.Equal(t, int64(3), messages[1].ID)
	}
}

func TestLatestMessage(t *testing.T) {
	tr := bufferedTransport(100,
		models.CandidateMessage{ID: 7},
		models.CandidateMessage{ID: 12},
		models.CandidateMessage{ID: 9},
	)

	latest, err := tr.LatestMessage(context.Background(), 100)
	assert.NoError(t, err)
	if assert.NotNil(t, latest) {
		assert.Equal(t, int64(12), latest.ID)
	}

	empty, err := tr.LatestMessage(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestPruneBuffer(t *testing.T) {
	buf := []models.CandidateMessage{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	kept := pruneBuffer(buf, 2)
	if assert.Len(t, kept, 2) {
		assert.Equal(t, int64(3), kept[0].ID)
		assert.Equal(t, int64(4), kept[1].ID)
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".jpg", fileExtension("https://api.telegram.org/file/bot123/photos/file_1.jpg"))
	assert.Equal(t, ".mp4", fileExtension("https://api.telegram.org/file/bot123/videos/file_2.mp4"))
	assert.Equal(t, ".bin", fileExtension("https://api.telegram.org/file/bot123/documents/file_3"))
}
