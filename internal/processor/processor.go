package processor

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	metricsPkg "channel-relay-go/internal/metrics"
	"channel-relay-go/internal/models"
	"channel-relay-go/internal/transport"
)

// MessageStore is the durable record store consumed by the processor.
// Implemented by store.Store.
type MessageStore interface {
	UpsertRecord(msg *models.ProcessedMessage) error
	GetMaxProcessedID(sourceChannelID int64, mappingID string) (int64, bool, error)
	GetUnpostedByID(mappingID string, messageID int64) (*models.ProcessedMessage, error)
	MarkPosted(messageID int64, mappingID string, postedAt time.Time) error
	LogAttempt(messageID int64, mappingID, stage, status, errorMsg string) error
}

// Transport is the messaging-platform collaborator. Implemented by
// transport.Telegram.
type Transport interface {
	FetchMessages(ctx context.Context, channelID, sinceID int64, limit int) ([]models.CandidateMessage, error)
	FetchMessagesSince(ctx context.Context, channelID int64, since time.Time, limit int) ([]models.CandidateMessage, error)
	LatestMessage(ctx context.Context, channelID int64) (*models.CandidateMessage, error)
	Send(ctx context.Context, channelID int64, text, mediaPath, mediaType string) error
	DownloadMedia(ctx context.Context, channelID, messageID int64, mediaRef string) (string, error)
}

// Rewriter is the AI text-rewrite collaborator. Implemented by
// rewrite.Service.
type Rewriter interface {
	Rewrite(ctx context.Context, text, promptOverride, footer string) (string, error)
}

// Processor orchestrates the ingestion-and-delivery cycle per mapping:
// cursor tracking, baseline establishment, candidate filtering, AI
// rewriting, idempotent persistence and at-most-once posting.
type Processor struct {
	store     MessageStore
	transport Transport
	rewriter  Rewriter
	metrics   *metricsPkg.Metrics
}

// New creates a new processor
func New(store MessageStore, tr Transport, rewriter Rewriter, metrics *metricsPkg.Metrics) *Processor {
	return &Processor{
		store:     store,
		transport: tr,
		rewriter:  rewriter,
		metrics:   metrics,
	}
}

// ProcessMapping runs one ingestion-and-delivery cycle for a mapping:
// look up the cursor, establish a baseline on first activation, fetch
// candidates strictly newer than the cursor, and process them in
// ascending order. Individual message failures never abort the cycle.
func (p *Processor) ProcessMapping(ctx context.Context, mapping *models.ChannelMapping, opts ProcessingOptions) error {
	cursor, found, err := p.store.GetMaxProcessedID(mapping.SourceChannelID, mapping.MappingID)
	if err != nil {
		return err
	}

	if !found {
		return p.establishBaseline(ctx, mapping)
	}

	candidates, err := p.transport.FetchMessages(ctx, mapping.SourceChannelID, cursor, opts.FetchLimit)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	p.metrics.FetchedCount.Add(float64(len(candidates)))
	logrus.Infof("Mapping %s: fetched %d new messages after cursor %d", mapping.MappingID, len(candidates), cursor)

	// Fetch boundary is exclusive by contract, but transport guarantees
	// are best-effort; re-sort and re-check against the cursor below.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if candidate.ID <= cursor {
			continue
		}

		if !Matches(candidate.Text, mapping) {
			logrus.Debugf("Mapping %s: message %d does not match criteria, skipping", mapping.MappingID, candidate.ID)
			continue
		}
		p.metrics.MatchCount.Inc()

		if p.processCandidate(ctx, mapping, opts, candidate) {
			cursor = candidate.ID
		}
	}

	return nil
}

// establishBaseline seeds the cursor for a mapping that has never been
// processed. The newest existing message is recorded with sentinel text
// and marked posted immediately, so channel history is never
// bulk-forwarded on first activation.
func (p *Processor) establishBaseline(ctx context.Context, mapping *models.ChannelMapping) error {
	latest, err := p.transport.LatestMessage(ctx, mapping.SourceChannelID)
	if err != nil {
		return err
	}
	if latest == nil {
		logrus.Debugf("Mapping %s: no messages observed yet, baseline deferred", mapping.MappingID)
		return nil
	}

	baseline := &models.ProcessedMessage{
		MessageID:       latest.ID,
		SourceChannelID: mapping.SourceChannelID,
		TargetChannelID: mapping.TargetChannelID,
		MappingID:       mapping.MappingID,
		OriginalText:    models.BaselineText,
		RewrittenText:   models.BaselineText,
		ReceivedAt:      latest.Date,
	}

	if err := p.store.UpsertRecord(baseline); err != nil {
		return err
	}
	if err := p.store.MarkPosted(latest.ID, mapping.MappingID, time.Now()); err != nil {
		return err
	}

	p.metrics.BaselineInits.Inc()
	logrus.Infof("Mapping %s: baseline established at message %d, monitoring new messages only", mapping.MappingID, latest.ID)
	return nil
}

// processCandidate runs a single matching candidate through rewrite,
// persistence and delivery. It reports whether the candidate was
// persisted (and therefore counts toward the cursor). Errors are
// handled at this boundary; they never propagate to the cycle.
func (p *Processor) processCandidate(ctx context.Context, mapping *models.ChannelMapping, opts ProcessingOptions, candidate models.CandidateMessage) bool {
	if !p.persistCandidate(ctx, mapping, opts, candidate) {
		return false
	}

	// Defensive re-fetch of the just-persisted, still-unposted row:
	// persistence may normalize or reject data, so delivery works from
	// what is actually stored.
	stored, err := p.store.GetUnpostedByID(mapping.MappingID, candidate.ID)
	if err != nil {
		logrus.Errorf("Mapping %s: failed to re-read message %d: %v", mapping.MappingID, candidate.ID, err)
		return true
	}
	if stored == nil {
		logrus.Errorf("Mapping %s: no unposted record found for message %d, skipping delivery", mapping.MappingID, candidate.ID)
		p.store.LogAttempt(candidate.ID, mapping.MappingID, models.StagePersist, models.StatusFailure, "unposted record missing after save")
		return true
	}

	p.deliver(ctx, mapping, stored)
	return true
}

// persistCandidate rewrites (or passes through) the candidate text,
// downloads media when enabled, and upserts the unposted record.
func (p *Processor) persistCandidate(ctx context.Context, mapping *models.ChannelMapping, opts ProcessingOptions, candidate models.CandidateMessage) bool {
	footer := mapping.Footer
	if footer == "" {
		footer = opts.CustomFooter
	}

	// Captions are always rewritten even when general rewriting is off:
	// caption length limits are tighter than plain message limits.
	needsRewrite := opts.ApplyAIToAll || candidate.HasMedia

	text := candidate.Text
	if needsRewrite {
		prompt := mapping.PromptTemplate
		if prompt == "" {
			prompt = opts.SystemPrompt
		}

		p.metrics.RewriteCount.Inc()
		rewritten, err := p.rewriter.Rewrite(ctx, candidate.Text, prompt, footer)
		if err != nil || rewritten == "" {
			// Delivery must not be blocked by the rewrite backend
			p.metrics.RewriteFailures.Inc()
			logrus.Warnf("Mapping %s: rewrite failed for message %d, using original text: %v", mapping.MappingID, candidate.ID, err)
			p.store.LogAttempt(candidate.ID, mapping.MappingID, models.StageRewrite, models.StatusFailure, errorMessage(err))
			text = candidate.Text + footer
		} else {
			text = rewritten
		}
	} else if footer != "" {
		text = candidate.Text + footer
	}

	mediaPath := ""
	if candidate.HasMedia && opts.IncludeMedia {
		path, err := p.transport.DownloadMedia(ctx, mapping.SourceChannelID, candidate.ID, candidate.MediaRef)
		if err != nil {
			// Download failure does not abort the message, it proceeds text-only
			logrus.Warnf("Mapping %s: media download failed for message %d: %v", mapping.MappingID, candidate.ID, err)
			p.store.LogAttempt(candidate.ID, mapping.MappingID, models.StageDownload, models.StatusFailure, err.Error())
		} else {
			mediaPath = path
		}
	}

	record := &models.ProcessedMessage{
		MessageID:       candidate.ID,
		SourceChannelID: mapping.SourceChannelID,
		TargetChannelID: mapping.TargetChannelID,
		MappingID:       mapping.MappingID,
		OriginalText:    candidate.Text,
		RewrittenText:   text,
		ReceivedAt:      candidate.Date,
		HasMedia:        candidate.HasMedia,
		MediaType:       candidate.MediaType,
		MediaPath:       mediaPath,
		MediaRef:        candidate.MediaRef,
	}

	if err := p.store.UpsertRecord(record); err != nil {
		// Cursor does not advance past this message; it is retried next tick
		logrus.Errorf("Mapping %s: failed to save message %d: %v", mapping.MappingID, candidate.ID, err)
		p.store.LogAttempt(candidate.ID, mapping.MappingID, models.StagePersist, models.StatusFailure, err.Error())
		return false
	}

	return true
}

// deliver posts a persisted record and marks it posted on success. On
// failure the record stays unposted as a durable pending-delivery item;
// a flood-wait signal additionally pauses the processor for the
// mandated duration.
func (p *Processor) deliver(ctx context.Context, mapping *models.ChannelMapping, record *models.ProcessedMessage) {
	mediaPath := ""
	if record.HasMedia && record.MediaPath != "" {
		mediaPath = record.MediaPath
	}

	err := p.transport.Send(ctx, mapping.TargetChannelID, record.RewrittenText, mediaPath, record.MediaType)
	if err != nil {
		p.metrics.ForwardFailures.Inc()
		p.store.LogAttempt(record.MessageID, mapping.MappingID, models.StageSend, models.StatusFailure, err.Error())

		var floodErr *transport.FloodWaitError
		if errors.As(err, &floodErr) {
			p.metrics.FloodWaits.Inc()
			logrus.Warnf("Mapping %s: flood wait of %s signalled, pausing", mapping.MappingID, floodErr.RetryAfter)
			select {
			case <-time.After(floodErr.RetryAfter):
			case <-ctx.Done():
			}
			return
		}

		logrus.Errorf("Mapping %s: failed to send message %d: %v", mapping.MappingID, record.MessageID, err)
		return
	}

	if err := p.store.MarkPosted(record.MessageID, mapping.MappingID, time.Now()); err != nil {
		logrus.Errorf("Mapping %s: failed to mark message %d as posted: %v", mapping.MappingID, record.MessageID, err)
	}
	p.metrics.ForwardSuccesses.Inc()
	p.store.LogAttempt(record.MessageID, mapping.MappingID, models.StageSend, models.StatusSuccess, "")
	logrus.Infof("Mapping %s: posted message %d to channel %d", mapping.MappingID, record.MessageID, mapping.TargetChannelID)
}

// ProcessHistorical runs a one-shot catch-up over the recent window for
// a mapping: matching messages are rewritten and persisted as unposted
// records without the baseline branch and without immediate delivery.
func (p *Processor) ProcessHistorical(ctx context.Context, mapping *models.ChannelMapping, opts ProcessingOptions, window time.Duration) (int, error) {
	since := time.Now().Add(-window)
	candidates, err := p.transport.FetchMessagesSince(ctx, mapping.SourceChannelID, since, 0)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		if !Matches(candidate.Text, mapping) {
			continue
		}
		if p.persistCandidate(ctx, mapping, opts, candidate) {
			processed++
		}
	}

	logrus.Infof("Mapping %s: historical catch-up persisted %d messages", mapping.MappingID, processed)
	return processed, nil
}

func errorMessage(err error) string {
	if err == nil {
		return "empty rewrite response"
	}
	return err.Error()
}
