package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"najahtn/orientation-api/internal/models"
)

// ChatMessage is one turn of a conversation handed to the model.
type ChatMessage struct {
	Role    models.MessageRole
	Content string
}

// StreamChunk is one increment of a streamed completion. Done is set on the
// final chunk; Err on a failed stream.
type StreamChunk struct {
	Text string
	Done bool
	Err  error
}

type AIService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
	ChatCompletion(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error)
	StreamChatCompletion(ctx context.Context, systemPrompt string, history []ChatMessage) (<-chan StreamChunk, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(apiKey, modelName string) (AIService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateText implements AIService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}

// GenerateTextWithRetry implements AIService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// ChatCompletion implements AIService. History is sent in order; the system
// prompt travels as the system instruction, not as a turn.
func (g *geminiService) ChatCompletion(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error) {
	contents, config := g.buildChatRequest(systemPrompt, history)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat completion: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return strings.TrimSpace(text), nil
}

// StreamChatCompletion implements AIService. The returned channel is closed
// after the final chunk; a failed stream delivers one chunk carrying Err.
func (g *geminiService) StreamChatCompletion(ctx context.Context, systemPrompt string, history []ChatMessage) (<-chan StreamChunk, error) {
	contents, config := g.buildChatRequest(systemPrompt, history)

	out := make(chan StreamChunk, 8)
	go func() {
		defer close(out)

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.modelName, contents, config) {
			if err != nil {
				out <- StreamChunk{Err: fmt.Errorf("stream failed: %w", err)}
				return
			}
			if text := resp.Text(); text != "" {
				select {
				case out <- StreamChunk{Text: text}:
				case <-ctx.Done():
					return
				}
			}
		}
		out <- StreamChunk{Done: true}
	}()

	return out, nil
}

func (g *geminiService) buildChatRequest(systemPrompt string, history []ChatMessage) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	temperature := float32(0.7)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return contents, config
}
