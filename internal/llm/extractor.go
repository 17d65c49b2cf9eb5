package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/model"
)

// DefaultMaxInputChars is how much of the input text is sent by default.
const DefaultMaxInputChars = 5000

// Extractor turns free text into transaction-like objects keyed by canonical
// field names. The objects are not validated here.
type Extractor struct {
	client      Client
	cache       *extractionCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	now         func() time.Time
	retryOpts   common.RetryOptions
	maxChars    int
}

// NewExtractor creates an extractor for the configured provider.
func NewExtractor(cfg Config, logger *slog.Logger) (*Extractor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return newExtractor(client, cfg, logger), nil
}

func newExtractor(client Client, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	maxChars := cfg.MaxInputChars
	if maxChars == 0 {
		maxChars = DefaultMaxInputChars
	}

	return &Extractor{
		client:      client,
		cache:       newExtractionCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		now:         time.Now,
		retryOpts:   retryOpts,
		maxChars:    maxChars,
	}
}

// Extract asks the model for the purchases described in text. The text is
// truncated to the configured length first. An empty result with a nil
// error means the model found nothing.
func (e *Extractor) Extract(ctx context.Context, text, language string) ([]map[string]any, error) {
	input := truncate(text, e.maxChars)
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	if len(input) < len(text) {
		e.logger.Info("extraction input truncated", "max_chars", e.maxChars)
	}

	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}
	today := e.now().UTC().Format(model.DateLayout)

	key := cacheKey(language, today, input)
	if objects, found := e.cache.get(key); found {
		e.logger.Debug("extraction cache hit", "transactions", len(objects))
		return objects, nil
	}

	if err := e.rateLimiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	req := CompletionRequest{
		System: systemPrompt(),
		Prompt: userPrompt(language, today, input),
	}

	var objects []map[string]any
	err := common.WithRetry(ctx, func() error {
		content, err := e.client.Complete(ctx, req)
		if err != nil {
			var apiErr *APIError
			retryable := !errors.As(err, &apiErr) || apiErr.Temporary()
			e.logger.Warn("extraction attempt failed", "error", err, "retryable", retryable)
			return &common.RetryableError{Err: err, Retryable: retryable}
		}

		parsed, err := parseTransactions(content)
		if err != nil {
			e.logger.Warn("extraction reply could not be parsed", "error", err)
			return &common.RetryableError{Err: err, Retryable: true}
		}

		objects = parsed
		return nil
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	e.cache.set(key, objects)

	e.logger.Info("extracted transactions from text",
		"language", language,
		"transactions", len(objects))

	return objects, nil
}
