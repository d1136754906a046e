// Package assistant talks to Gemini through the genai SDK.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	domain "github.com/gestao-urbana/backoffice-go/internal/domain/assistant"
)

const DefaultModel = "gemini-2.5-flash"

const instructions = `Você é o assistente de gestão de uma empresa de serviços urbanos.
Responda em português do Brasil, de forma objetiva, usando apenas os dados do contexto JSON abaixo.
Valores monetários estão em reais. Se a pergunta não puder ser respondida com esses dados, diga isso.

Contexto:
`

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, domain.ErrAssistantDisabled
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Contents maps the history to genai contents, keeping roles.
func Contents(history []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return contents
}

func (g *Gemini) Generate(ctx context.Context, contextJSON string, history []domain.Message) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, Contents(history), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions+contextJSON, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.ErrEmptyReply
	}
	return text, nil
}
