package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama calls a local Ollama (or LM Studio compatible) server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama provider. OLLAMA_HOST overrides the default
// local endpoint.
func NewOllama(model string) (*Ollama, error) {
	base := os.Getenv("OLLAMA_HOST")
	if base == "" {
		base = defaultOllamaURL
	}
	return &Ollama{
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 300 * time.Second},
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string `json:"model"`
	System  string `json:"system,omitempty"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaResponse struct {
	Response  string `json:"response"`
	EvalCount int    `json:"eval_count"`
}

// Generate sends the prompts and returns the model's text.
func (o *Ollama) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	body := ollamaRequest{
		Model:  o.model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: false,
	}
	body.Options.Temperature = req.Temperature

	payload, err := json.Marshal(body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("sending request (is ollama running?): %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return GenerateResponse{}, fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing response: %w", err)
	}
	return GenerateResponse{
		Content:    parsed.Response,
		TokensUsed: parsed.EvalCount,
	}, nil
}
