package llm

import (
	"encoding/json"
	"fmt"
)

func init() {
	RegisterDialect("openai", &OpenAIDialect{})
}

// OpenAIDialect speaks the OpenAI-compatible chat completions API
// (/v1/chat/completions), which most hosted and local providers expose.
type OpenAIDialect struct{}

// Name returns "openai".
func (d *OpenAIDialect) Name() string { return "openai" }

// ChatPath returns the chat completions endpoint.
func (d *OpenAIDialect) ChatPath() string { return "/v1/chat/completions" }

// HealthPath returns the models listing, the conventional liveness probe.
func (d *OpenAIDialect) HealthPath() string { return "/v1/models" }

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openaiChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      openaiMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// BuildRequest maps a universal request onto the chat completions schema.
func (d *OpenAIDialect) BuildRequest(req CompletionRequest) (any, error) {
	msgs := make([]openaiMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openaiMessage{Role: m.Role, Content: m.Content})
	}

	return openaiChatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse maps a chat completions response onto the universal type.
func (d *OpenAIDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	var resp openaiChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}
	return &CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
