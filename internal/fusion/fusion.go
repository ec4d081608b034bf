// Package fusion asks an external language model for a workflow. Every
// client returns either a schema-valid workflow or an error; callers decide
// what to do on failure.
package fusion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/MalithGihan/flowgen-service/internal/config"
	"github.com/MalithGihan/flowgen-service/internal/validate"
	"github.com/MalithGihan/flowgen-service/pkg/types"
)

// Generator produces a workflow from a free-text description.
type Generator interface {
	Generate(ctx context.Context, description string) (types.Workflow, error)
}

// ErrCollaborator marks transport, status and payload failures of a model
// call. Shape failures of an otherwise readable answer are reported as
// *types.SchemaViolation instead.
var ErrCollaborator = errors.New("collaborator failure")

const systemPrompt = `You are a workflow generator. Turn the user's description into a workflow graph.
Return ONLY valid JSON of the form {"nodes":[...],"edges":[...]}.
Node: {"id": unique string, "type": one of start|end|process|decision,
       "position": {"x": number, "y": number},
       "data": {"name", "description", "category", "color", "type"} (all strings; data.type repeats the node type)}.
Edge: {"id": unique string, "source": node id, "target": node id, "type": "default"}.
Layout: first node is the single start node at x=100, y=100; place nodes left to right with 200px spacing.
Colors: start=#4caf50, end=#f44336, process=#2196f3, decision=#ff9800.
Every path must finish at an end node. Use "General" as category unless the description suggests otherwise.`

// FromConfig returns the client selected by cfg, or nil when AI is disabled.
func FromConfig(cfg config.AI) Generator {
	if !cfg.Enabled() {
		return nil
	}
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaURL, cfg.Model, cfg.Timeout)
	default:
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	}
}

func failure(provider, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", provider, fmt.Sprintf(format, args...), ErrCollaborator)
}

// post sends body as JSON and decodes a 200 answer into out.
func post(ctx context.Context, client *http.Client, provider, url string, header http.Header, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return failure(provider, "marshal request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return failure(provider, "create request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return failure(provider, "request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return failure(provider, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return failure(provider, "decode response: %v", err)
	}
	return nil
}

// decodeContent parses the model's text answer into a validated workflow.
func decodeContent(provider, content string) (types.Workflow, error) {
	content = stripFence(content)
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return types.Workflow{}, failure(provider, "answer is not a JSON object: %v", err)
	}
	if doc == nil {
		return types.Workflow{}, failure(provider, "answer is not a JSON object: null")
	}
	wf, err := validate.DecodeWorkflow(Sanitize(doc))
	if err != nil {
		return types.Workflow{}, fmt.Errorf("%s: %w", provider, err)
	}
	return wf, nil
}

// stripFence removes a surrounding ``` or ```json block, on one line or several.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop an optional language tag ahead of the payload
	if i := strings.IndexAny(s, "{[\n"); i >= 0 && isTag(s[:i]) {
		s = s[i:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
