package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// Completer is the chat-completion call the assistant depends on. Satisfied
// by *openai.Client.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CatalogReader provides the product and category context for prompts.
type CatalogReader interface {
	FindByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// CategoryReader looks up categories for prompt context.
type CategoryReader interface {
	FindByID(ctx context.Context, id int64) (*catalog.Category, error)
}

// Service is a thin shopping-assistant wrapper around a chat-completion API.
type Service struct {
	llm        Completer
	products   CatalogReader
	categories CategoryReader
	model      string
}

// NewService creates a new chatbot service.
func NewService(llm Completer, products CatalogReader, categories CategoryReader, model string) *Service {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Service{llm: llm, products: products, categories: categories, model: model}
}

// PromptContext optionally anchors the conversation to catalog entities.
type PromptContext struct {
	ProductID  int64 `json:"productId"`
	CategoryID int64 `json:"categoryId"`
}

// Reply sends the user's message to the language model with storefront
// context and returns the assistant's answer.
func (s *Service) Reply(ctx context.Context, message string, ref PromptContext) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.Invalid("Message is required")
	}

	system, err := s.buildSystemPrompt(ctx, ref)
	if err != nil {
		return "", err
	}

	resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:       150,
		Temperature:     0.7,
		PresencePenalty: 0.6,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *Service) buildSystemPrompt(ctx context.Context, ref PromptContext) (string, error) {
	var b strings.Builder
	b.WriteString("You are a helpful e-commerce assistant. Your role is to help customers with:\n")
	b.WriteString("- Product information and recommendations\n")
	b.WriteString("- Shopping assistance\n")
	b.WriteString("- Order and shipping inquiries\n")
	b.WriteString("- General customer support\n")

	if ref.ProductID != 0 {
		p, err := s.products.FindByID(ctx, ref.ProductID)
		if err != nil {
			if !errors.Is(err, catalog.ErrProductNotFound) {
				return "", err
			}
		} else {
			fmt.Fprintf(&b, "\nCurrent product context:\nProduct: %s\nPrice: $%s\nDescription: %s\nStock: %d units available\n",
				p.Name, p.Price.StringFixed(2), p.Description, p.Stock)
		}
	}

	if ref.CategoryID != 0 {
		c, err := s.categories.FindByID(ctx, ref.CategoryID)
		if err != nil {
			if !errors.Is(err, catalog.ErrCategoryNotFound) {
				return "", err
			}
		} else {
			fmt.Fprintf(&b, "\nCategory context:\nCategory: %s\n%s\n", c.Name, c.Description)
		}
	}

	b.WriteString("\nPlease provide clear, concise, and helpful responses.")
	return b.String(), nil
}
