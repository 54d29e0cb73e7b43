package tokens

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Counter counts prompt tokens with a BPE encoding. When the encoding cannot be
// loaded it falls back to a word/character estimate.
type Counter struct {
	encoding string
	logger   *slog.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter builds a counter; an empty encoding selects cl100k_base.
func NewCounter(encoding string, logger *slog.Logger) *Counter {
	if strings.TrimSpace(encoding) == "" {
		encoding = defaultEncoding
	}
	return &Counter{encoding: encoding, logger: logger.With("component", "tokens.counter")}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(c.load)
	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

func (c *Counter) load() {
	enc, err := tiktoken.GetEncoding(c.encoding)
	if err != nil {
		c.logger.Warn("token encoding unavailable, using estimate", "encoding", c.encoding, "error", err)
		return
	}
	c.enc = enc
}

// Estimate blends word and character counts, roughly four characters per token.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := len(text)
	estimate := (words + chars/4) / 2
	if estimate == 0 {
		return 1
	}
	return estimate
}
