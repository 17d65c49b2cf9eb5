// Package llm extracts game purchases from free text with a hosted language
// model. Anthropic and OpenAI are supported; requests are rate limited,
// retried on transient failures and cached per input.
package llm
