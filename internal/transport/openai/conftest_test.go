package openai

import (
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

var (
	openaiRequestError429 = openai.RequestError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Body:           []byte(`{"detail":"quota exceeded"}`),
	}
	openaiAPIError503 = openai.APIError{
		HTTPStatusCode: http.StatusServiceUnavailable,
		Message:        "overloaded",
	}
)
