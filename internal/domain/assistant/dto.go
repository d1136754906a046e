package assistant

import (
	"context"
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// MaxHistory bounds how many messages are forwarded to the model.
const MaxHistory = 20

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Validate requires a non-empty history ending with a user message.
func (r *ChatRequest) Validate() error {
	var errs validator.ValidationErrors
	cleaned := r.Messages[:0]
	for _, m := range r.Messages {
		m.Text = strings.TrimSpace(m.Text)
		if m.Text == "" {
			continue
		}
		if m.Role != RoleUser && m.Role != RoleModel {
			errs = append(errs, validator.ValidationError{Field: "messages.role", Message: "role must be user or model"})
			continue
		}
		cleaned = append(cleaned, m)
	}
	r.Messages = cleaned
	if len(r.Messages) == 0 {
		errs = append(errs, validator.ValidationError{Field: "messages", Message: ErrEmptyConversation.Error()})
	} else if r.Messages[len(r.Messages)-1].Role != RoleUser {
		errs = append(errs, validator.ValidationError{Field: "messages", Message: "last message must come from the user"})
	}
	if len(errs) > 0 {
		return errs
	}
	if len(r.Messages) > MaxHistory {
		r.Messages = r.Messages[len(r.Messages)-MaxHistory:]
	}
	return nil
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Generator is the language-model collaborator. context is a JSON document
// describing the company; history ends with the user's question.
type Generator interface {
	Generate(ctx context.Context, context string, history []Message) (string, error)
}

type AssistantService interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
