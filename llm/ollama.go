package llm

import (
	"encoding/json"
	"fmt"
)

func init() {
	RegisterDialect("ollama", &OllamaDialect{})
}

// OllamaDialect speaks Ollama's native chat API (/api/chat).
type OllamaDialect struct{}

// Name returns "ollama".
func (d *OllamaDialect) Name() string { return "ollama" }

// ChatPath returns the chat endpoint.
func (d *OllamaDialect) ChatPath() string { return "/api/chat" }

// HealthPath returns the tags endpoint, which doubles as a liveness probe.
func (d *OllamaDialect) HealthPath() string { return "/api/tags" }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count,omitempty"`
	EvalCount       int           `json:"eval_count,omitempty"`
}

// BuildRequest maps a universal request onto Ollama's chat schema.
func (d *OllamaDialect) BuildRequest(req CompletionRequest) (any, error) {
	msgs := make([]ollamaMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	out := ollamaChatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   false,
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}
	return out, nil
}

// ParseResponse maps Ollama's chat response onto the universal type.
func (d *OllamaDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	var resp ollamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &CompletionResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
