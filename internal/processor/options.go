package processor

import "channel-relay-go/internal/config"

// ProcessingOptions is the immutable per-cycle session configuration.
// A snapshot is passed into every cycle call; the processor itself
// carries no mutable session state.
type ProcessingOptions struct {
	// ApplyAIToAll rewrites every matching message. When off, only
	// media captions are rewritten.
	ApplyAIToAll bool
	// IncludeMedia downloads and re-attaches media on forwarded messages.
	IncludeMedia bool
	// SystemPrompt overrides the rewrite service's built-in templates
	// unless the mapping carries its own prompt template.
	SystemPrompt string
	// CustomFooter is appended to forwarded messages for mappings
	// without their own footer.
	CustomFooter string
	// FetchLimit bounds the number of candidates fetched per cycle.
	FetchLimit int
}

// OptionsFromConfig builds processing options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) ProcessingOptions {
	return ProcessingOptions{
		ApplyAIToAll: cfg.Processing.ApplyAIToAll,
		IncludeMedia: cfg.Processing.IncludeMedia,
		SystemPrompt: cfg.Processing.SystemPrompt,
		CustomFooter: cfg.Processing.CustomFooter,
		FetchLimit:   cfg.Scheduler.FetchLimit,
	}
}
