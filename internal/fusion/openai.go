package fusion

import (
	"context"
	"net/http"
	"time"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

const providerOpenAI = "openai"

// OpenAI calls an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAI{baseURL: baseURL, apiKey: apiKey, model: model, client: httpClient(timeout)}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAI) Generate(ctx context.Context, description string) (types.Workflow, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: description},
		},
		Temperature: 0.2,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var out chatResponse
	if err := post(ctx, c.client, providerOpenAI, c.baseURL+"/chat/completions", header, body, &out); err != nil {
		return types.Workflow{}, err
	}
	if len(out.Choices) == 0 {
		return types.Workflow{}, failure(providerOpenAI, "no choices in response")
	}
	return decodeContent(providerOpenAI, out.Choices[0].Message.Content)
}
