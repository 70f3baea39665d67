// Package translate renders summaries in a second language.
package translate

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBusy means the translation service is rate limiting us.
	ErrBusy = errors.New("translation service busy")
	// ErrUnsupportedLanguage is returned when a translator cannot target a language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Translator converts English text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
	Name() string
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable translation error (status %d): %v", e.StatusCode, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrBusy) match rate limit responses.
func (e *RetryableError) Is(target error) bool {
	return target == ErrBusy && e.StatusCode == 429
}

// Options selects and configures a Translator.
type Options struct {
	AnthropicAPIKey string
	AnthropicModel  string
}

// New returns a Claude-backed translator when an API key is configured and
// the offline dictionary translator otherwise.
func New(opts Options) Translator {
	if opts.AnthropicAPIKey != "" {
		return NewClaudeTranslator(opts.AnthropicAPIKey, opts.AnthropicModel)
	}
	return NewDictionaryTranslator()
}
