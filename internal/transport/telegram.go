package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"channel-relay-go/internal/config"
	"channel-relay-go/internal/models"
)

// bufferLimit bounds the per-channel backlog of buffered posts. Older
// entries are discarded once the processor has moved its cursor past
// them anyway.
const bufferLimit = 500

// Telegram implements the channel transport on the Telegram Bot API.
// An updates pump buffers incoming channel posts per source channel;
// FetchMessages drains the buffer past the mapping cursor.
type Telegram struct {
	bot      *tgbotapi.BotAPI
	mediaDir string

	mu      sync.Mutex
	buffers map[int64][]models.CandidateMessage

	stopped bool
	done    chan struct{}
}

// NewTelegram creates and authenticates a Telegram transport and starts
// the updates pump.
func NewTelegram(cfg *config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	t := &Telegram{
		bot:      bot,
		mediaDir: cfg.MediaDir,
		buffers:  make(map[int64][]models.CandidateMessage),
		done:     make(chan struct{}),
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = cfg.UpdateTimeout
	updateConfig.AllowedUpdates = []string{"channel_post"}
	updates := bot.GetUpdatesChan(updateConfig)

	go t.pump(updates)

	logrus.Infof("Telegram transport initialized as @%s", bot.Self.UserName)
	return t, nil
}

// pump consumes the bot updates channel and buffers channel posts
func (t *Telegram) pump(updates tgbotapi.UpdatesChannel) {
	defer close(t.done)

	for update := range updates {
		post := update.ChannelPost
		if post == nil {
			continue
		}
		candidate := candidateFromMessage(post)

		t.mu.Lock()
		buf := append(t.buffers[post.Chat.ID], candidate)
		if len(buf) > bufferLimit {
			buf = buf[len(buf)-bufferLimit:]
		}
		t.buffers[post.Chat.ID] = buf
		t.mu.Unlock()

		logrus.Debugf("Buffered channel post %d from channel %d", candidate.ID, post.Chat.ID)
	}
}

// candidateFromMessage converts a Telegram channel post into a
// transient candidate with its media descriptor.
func candidateFromMessage(msg *tgbotapi.Message) models.CandidateMessage {
	candidate := models.CandidateMessage{
		ID:   int64(msg.MessageID),
		Text: msg.Text,
		Date: msg.Time(),
	}
	if candidate.Text == "" {
		candidate.Text = msg.Caption
	}

	switch {
	case len(msg.Photo) > 0:
		// Photo sizes are ordered smallest first; take the largest
		candidate.HasMedia = true
		candidate.MediaType = models.MediaTypePhoto
		candidate.MediaRef = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		candidate.HasMedia = true
		candidate.MediaType = models.MediaTypeVideo
		candidate.MediaRef = msg.Video.FileID
	case msg.Audio != nil:
		candidate.HasMedia = true
		candidate.MediaType = models.MediaTypeAudio
		candidate.MediaRef = msg.Audio.FileID
	case msg.Document != nil:
		candidate.HasMedia = true
		candidate.MediaType = models.MediaTypeDocument
		candidate.MediaRef = msg.Document.FileID
	}

	return candidate
}

// FetchMessages returns buffered messages with id strictly greater than
// sinceID, in ascending id order, up to limit.
func (t *Telegram) FetchMessages(ctx context.Context, channelID, sinceID int64, limit int) ([]models.CandidateMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	buf := t.buffers[channelID]
	var messages []models.CandidateMessage
	for _, msg := range buf {
		if msg.ID > sinceID {
			messages = append(messages, msg)
		}
	}

	// Transport ordering is best-effort; guarantee ascending ids here
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	// Drop entries at or below the cursor, they will never be asked for again
	t.buffers[channelID] = pruneBuffer(buf, sinceID)

	return messages, nil
}

// FetchMessagesSince returns buffered messages received after the given
// time, in ascending id order, up to limit.
func (t *Telegram) FetchMessagesSince(ctx context.Context, channelID int64, since time.Time, limit int) ([]models.CandidateMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var messages []models.CandidateMessage
	for _, msg := range t.buffers[channelID] {
		if msg.Date.After(since) {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// LatestMessage returns the single most recent message observed for the
// channel, or nil if none has been seen yet.
func (t *Telegram) LatestMessage(ctx context.Context, channelID int64) (*models.CandidateMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	buf := t.buffers[channelID]
	if len(buf) == 0 {
		return nil, nil
	}
	latest := buf[0]
	for _, msg := range buf[1:] {
		if msg.ID > latest.ID {
			latest = msg
		}
	}
	return &latest, nil
}

func pruneBuffer(buf []models.CandidateMessage, sinceID int64) []models.CandidateMessage {
	kept := buf[:0]
	for _, msg := range buf {
		if msg.ID > sinceID {
			kept = append(kept, msg)
		}
	}
	return kept
}

// Send posts a message, with media when a local path is given, to the
// target channel. Telegram flood control surfaces as *FloodWaitError.
func (t *Telegram) Send(ctx context.Context, channelID int64, text, mediaPath, mediaType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var chattable tgbotapi.Chattable
	if mediaPath != "" && fileExists(mediaPath) {
		file := tgbotapi.FilePath(mediaPath)
		switch mediaType {
		case models.MediaTypePhoto:
			photo := tgbotapi.NewPhoto(channelID, file)
			photo.Caption = text
			chattable = photo
		case models.MediaTypeVideo:
			video := tgbotapi.NewVideo(channelID, file)
			video.Caption = text
			chattable = video
		case models.MediaTypeAudio:
			audio := tgbotapi.NewAudio(channelID, file)
			audio.Caption = text
			chattable = audio
		default:
			doc := tgbotapi.NewDocument(channelID, file)
			doc.Caption = text
			chattable = doc
		}
	} else {
		chattable = tgbotapi.NewMessage(channelID, text)
	}

	if _, err := t.bot.Send(chattable); err != nil {
		if wait := retryAfter(err); wait > 0 {
			return &FloodWaitError{RetryAfter: wait}
		}
		return fmt.Errorf("failed to send message to channel %d: %w", channelID, err)
	}
	return nil
}

// retryAfter extracts the flood-control wait duration from a Bot API error
func retryAfter(err error) time.Duration {
	var apiErr tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second
	}
	var apiErrPtr *tgbotapi.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr.RetryAfter > 0 {
		return time.Duration(apiErrPtr.RetryAfter) * time.Second
	}
	return 0
}

// DownloadMedia fetches the media behind mediaRef into the media
// directory and returns the local path. Files are keyed by the media
// reference, so a file that already exists is reused without a second
// download.
func (t *Telegram) DownloadMedia(ctx context.Context, channelID, messageID int64, mediaRef string) (string, error) {
	if mediaRef == "" {
		return "", fmt.Errorf("empty media reference for message %d", messageID)
	}

	directURL, err := t.bot.GetFileDirectURL(mediaRef)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL for %s: %w", mediaRef, err)
	}

	localPath := filepath.Join(t.mediaDir, mediaRef+fileExtension(directURL))
	if fileExists(localPath) {
		return localPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download media %s: %w", mediaRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download media %s: status %d", mediaRef, resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	logrus.Infof("Downloaded media %s to %s", mediaRef, localPath)
	return localPath, nil
}

// fileExtension derives a file extension from the Bot API file URL
func fileExtension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".bin"
	}
	if ext := path.Ext(parsed.Path); ext != "" {
		return ext
	}
	return ".bin"
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Close stops the updates pump
func (t *Telegram) Close() error {
	if t.stopped {
		return nil
	}
	t.stopped = true
	t.bot.StopReceivingUpdates()
	<-t.done
	logrus.Info("Telegram transport closed")
	return nil
}
