package bot

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/basel-ax/openjourney-bot/internal/domain"
)

const (
	argsDelimiter    = `",`
	minGuidanceScale = 1
	maxGuidanceScale = 10
	maxPromptLength  = 1024
)

// Validation errors returned by ParseGenerateArgs
var (
	ErrFormat        = errors.New("malformed arguments")
	ErrGuidanceRange = errors.New("guidance scale out of range")
	ErrPromptEmpty   = errors.New("prompt is empty")
	ErrPromptTooLong = errors.New("prompt is too long")
)

// ParseGenerateArgs turns `"<prompt>",<guidance_scale>` into a request.
// A guidance scale that is not an integer is a format error, not a range error.
func ParseGenerateArgs(args string) (domain.ImageGenerationRequest, error) {
	s := strings.TrimSpace(args)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)

	parts := strings.Split(s, argsDelimiter)
	if len(parts) != 2 {
		return domain.ImageGenerationRequest{}, ErrFormat
	}
	prompt := parts[0]

	scale, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.ImageGenerationRequest{}, ErrFormat
	}
	if scale < minGuidanceScale || scale > maxGuidanceScale {
		return domain.ImageGenerationRequest{}, ErrGuidanceRange
	}

	switch n := utf8.RuneCountInString(prompt); {
	case n < 1:
		return domain.ImageGenerationRequest{}, ErrPromptEmpty
	case n > maxPromptLength:
		return domain.ImageGenerationRequest{}, ErrPromptTooLong
	}

	return domain.ImageGenerationRequest{Prompt: prompt, GuidanceScale: scale}, nil
}

func validationReply(err error) string {
	switch {
	case errors.Is(err, ErrGuidanceRange):
		return MsgGuidanceRange
	case errors.Is(err, ErrPromptEmpty):
		return MsgPromptEmpty
	case errors.Is(err, ErrPromptTooLong):
		return MsgPromptTooLong
	default:
		return MsgFormat
	}
}

// splitCommand separates "name rest of args" after the prefix has been removed
func splitCommand(s string) (name, args string) {
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
