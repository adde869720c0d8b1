package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	twinerrors "github.com/usetwin/twin/internal/errors"
)

// classifyCompletionError turns a provider failure into a typed error. The
// provider surface is not a clean closed set, so classification happens in
// one place: first by HTTP status on the API error, then by message
// inspection for transport-level failures that never reached the API.
func classifyCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return twinerrors.Unauthorized("Invalid OpenAI API key")
		case http.StatusTooManyRequests:
			return twinerrors.RateLimitExceeded("OpenAI rate limit exceeded. Please try again later.")
		case http.StatusBadRequest:
			return twinerrors.InvalidRequest("Invalid message format for OpenAI")
		}
		return twinerrors.Upstream(fmt.Sprintf("OpenAI error: %s", apiErr.Message), err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "invalid api key") || strings.Contains(msg, "unauthorized"):
		return twinerrors.Unauthorized("Invalid OpenAI API key")
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		return twinerrors.RateLimitExceeded("OpenAI rate limit exceeded. Please try again later.")
	case strings.Contains(msg, "400") || strings.Contains(msg, "invalid request"):
		return twinerrors.InvalidRequest("Invalid message format for OpenAI")
	}

	// Timeouts and transport errors surface as upstream failures; there is no
	// retry layer here.
	return twinerrors.Upstream(fmt.Sprintf("OpenAI error: %s", err.Error()), err)
}
