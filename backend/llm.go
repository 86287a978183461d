package backend

import (
	"context"

	apperrors "github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/llm"
	"github.com/kbukum/agentflow/prompt"
)

// LLM sends rendered prompts to a chat completion endpoint.
type LLM struct {
	client  *llm.Client
	catalog *prompt.Catalog
}

// NewLLM creates an LLM backend on the given client, rendering prompts
// with the built-in scaffold catalog.
func NewLLM(client *llm.Client) *LLM {
	return &LLM{client: client, catalog: prompt.Default()}
}

// WithCatalog replaces the scaffold catalog.
func (b *LLM) WithCatalog(catalog *prompt.Catalog) *LLM {
	b.catalog = catalog
	return b
}

func (b *LLM) Name() string { return b.client.Name() }

func (b *LLM) IsAvailable(ctx context.Context) bool { return b.client.IsAvailable(ctx) }

// Invoke renders the invocation into prompt text and requests a completion
// with the routed model.
func (b *LLM) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	text, err := b.catalog.Render(prompt.Input{
		Kind:         inv.Kind,
		Task:         inv.Task,
		RunInput:     inv.Input,
		Dependencies: inv.Dependencies,
	})
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Complete(ctx, llm.CompletionRequest{
		Model:    inv.Model,
		Messages: []llm.Message{{Role: "user", Content: text}},
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.ExternalServiceError(b.Name(), err)
	}

	return &Result{
		Output: resp.Content,
		Model:  resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
