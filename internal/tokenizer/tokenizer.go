// Package tokenizer estimates token counts for export artifacts.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/projectlens/projectlens/internal/utils"
)

const (
	// DefaultModel is the tokenizer model used when none is configured.
	DefaultModel = "gpt-4o"
	// defaultEncodingName is the encoding used when the model is unknown.
	defaultEncodingName = "cl100k_base"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// CountResult captures the outcome of counting a byte slice. Binary content
// is reported as not counted rather than failing the export.
type CountResult struct {
	Tokens  int
	Counted bool
}

// openAICounter counts tokens with a tiktoken encoding.
type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name returns the encoding or model name backing the counter.
func (counter openAICounter) Name() string {
	return counter.name
}

// CountString returns the number of tokens the encoding produces for input.
func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}

// NewCounter returns a Counter for the requested model, falling back to the
// default encoding for unrecognized models.
func NewCounter(modelName string) (Counter, error) {
	trimmedModel := strings.ToLower(strings.TrimSpace(modelName))
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	encoding, encodingError := tiktoken.EncodingForModel(trimmedModel)
	if encodingError == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: trimmedModel}, nil
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, nil
}

// CountBytes estimates tokens for the provided data using counter. Binary or
// non-UTF-8 content is skipped with Counted set to false.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	if len(data) == 0 {
		tokens, countError := counter.CountString("")
		if countError != nil {
			return CountResult{}, countError
		}
		return CountResult{Tokens: tokens, Counted: true}, nil
	}
	if utils.IsBinary(data) || !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
