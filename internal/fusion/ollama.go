package fusion

import (
	"context"
	"net/http"
	"time"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

const providerOllama = "ollama"

// Ollama calls a local Ollama server's /api/generate in JSON mode.
type Ollama struct {
	url    string
	model  string
	client *http.Client
}

func NewOllama(url, model string, timeout time.Duration) *Ollama {
	if url == "" {
		url = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3:instruct"
	}
	return &Ollama{url: url, model: model, client: httpClient(timeout)}
}

func (c *Ollama) Generate(ctx context.Context, description string) (types.Workflow, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"system": systemPrompt,
		"prompt": description,
		"format": "json",
		"stream": false,
		"options": map[string]any{
			"temperature": 0.2,
			"num_ctx":     2048,
		},
	}
	var raw struct {
		Response string `json:"response"`
	}
	if err := post(ctx, c.client, providerOllama, c.url+"/api/generate", http.Header{}, reqBody, &raw); err != nil {
		return types.Workflow{}, err
	}
	return decodeContent(providerOllama, raw.Response)
}
