package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
)

// SessionState is the lifecycle position of one chat session.
type SessionState string

const (
	// StateNoConversation: no conversation id yet, only a welcome message.
	StateNoConversation SessionState = "no_conversation"
	// StatePendingCreate: first user message sent, awaiting the assistant
	// reply that finalizes the conversation row.
	StatePendingCreate SessionState = "pending_create"
	// StateActive: conversation id known, messages append.
	StateActive SessionState = "active"
	// StateDeleted: terminal.
	StateDeleted SessionState = "deleted"
)

const (
	titleMaxLen     = 50
	fallbackTitle   = "New conversation"
	fallbackContent = "[unreadable content]"
)

// ChatSession is the explicit, caller-owned session object. Created at
// session start, torn down on "new conversation" or sign-out; no ambient
// globals.
type ChatSession struct {
	state        SessionState
	userID       uuid.UUID
	convID       uuid.UUID
	pendingFirst string
	transcript   []ChatMessage
}

func (s *ChatSession) State() SessionState       { return s.state }
func (s *ChatSession) ConversationID() uuid.UUID { return s.convID }
func (s *ChatSession) Transcript() []ChatMessage { return s.transcript }

// ConversationService reconciles chat sessions with the persisted
// conversation rows and relays messages to the AI collaborator.
type ConversationService interface {
	NewSession(userID uuid.UUID) *ChatSession
	ResumeSession(userID, convID uuid.UUID) (*ChatSession, error)
	SendMessage(ctx context.Context, session *ChatSession, content interface{}, pageContext string) (string, error)
	StreamMessage(ctx context.Context, session *ChatSession, content interface{}, pageContext string) (<-chan StreamChunk, error)
	ListConversations(userID uuid.UUID) ([]models.ConversationSummary, error)
	SetFullscreen(userID, convID uuid.UUID, fullscreen bool) error
	Delete(session *ChatSession) error
}

type conversationService struct {
	convRepo      repositories.ConversationRepository
	aiService     AIService
	promptBuilder *PromptBuilder
}

func NewConversationService(convRepo repositories.ConversationRepository, aiService AIService) ConversationService {
	return &conversationService{
		convRepo:      convRepo,
		aiService:     aiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// NewSession implements ConversationService.
func (s *conversationService) NewSession(userID uuid.UUID) *ChatSession {
	return &ChatSession{
		state:  StateNoConversation,
		userID: userID,
	}
}

// ResumeSession implements ConversationService. The persisted rows are the
// source of truth for message order; the transcript is rebuilt, never
// reordered locally.
func (s *conversationService) ResumeSession(userID, convID uuid.UUID) (*ChatSession, error) {
	msgs, err := s.convRepo.Messages(userID, convID)
	if err != nil {
		return nil, err
	}

	transcript := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		transcript = append(transcript, ChatMessage{Role: m.Role, Content: m.Content})
	}

	return &ChatSession{
		state:      StateActive,
		userID:     userID,
		convID:     convID,
		transcript: transcript,
	}, nil
}

// SendMessage implements ConversationService.
//
// First message of a session: the text is cached locally and the conversation
// row is only created once the assistant reply completes, seeded with the
// cached message and the reply. A failed AI call leaves the session in
// PendingCreate; the caller decides whether to retry.
func (s *conversationService) SendMessage(ctx context.Context, session *ChatSession, content interface{}, pageContext string) (string, error) {
	if session.state == StateDeleted {
		return "", fmt.Errorf("session is deleted")
	}

	text := NormalizeContent(content)
	systemPrompt := s.promptBuilder.BuildSystemPrompt(pageContext)

	switch session.state {
	case StateNoConversation, StatePendingCreate:
		s.stagePendingMessage(session, text)

		reply, err := s.aiService.ChatCompletion(ctx, systemPrompt, session.transcript)
		if err != nil {
			return "", fmt.Errorf("assistant reply failed: %w", err)
		}
		session.transcript = append(session.transcript, ChatMessage{Role: models.RoleAssistant, Content: reply})

		if err := s.finalizeCreate(session); err != nil {
			return "", err
		}
		return reply, nil

	default: // StateActive
		session.transcript = append(session.transcript, ChatMessage{Role: models.RoleUser, Content: text})
		if _, err := s.convRepo.AppendMessage(session.userID, session.convID, models.RoleUser, text); err != nil {
			return "", fmt.Errorf("failed to persist message: %w", err)
		}

		reply, err := s.aiService.ChatCompletion(ctx, systemPrompt, session.transcript)
		if err != nil {
			return "", fmt.Errorf("assistant reply failed: %w", err)
		}

		session.transcript = append(session.transcript, ChatMessage{Role: models.RoleAssistant, Content: reply})
		if _, err := s.convRepo.AppendMessage(session.userID, session.convID, models.RoleAssistant, reply); err != nil {
			return "", fmt.Errorf("failed to persist reply: %w", err)
		}
		return reply, nil
	}
}

// StreamMessage implements ConversationService. Chunks are relayed as they
// arrive; the transcript and persistence are updated once the stream
// completes. An abandoned stream changes nothing durable.
func (s *conversationService) StreamMessage(ctx context.Context, session *ChatSession, content interface{}, pageContext string) (<-chan StreamChunk, error) {
	if session.state == StateDeleted {
		return nil, fmt.Errorf("session is deleted")
	}

	text := NormalizeContent(content)
	systemPrompt := s.promptBuilder.BuildSystemPrompt(pageContext)

	creating := session.state == StateNoConversation || session.state == StatePendingCreate
	if creating {
		s.stagePendingMessage(session, text)
	} else {
		session.transcript = append(session.transcript, ChatMessage{Role: models.RoleUser, Content: text})
		if _, err := s.convRepo.AppendMessage(session.userID, session.convID, models.RoleUser, text); err != nil {
			return nil, fmt.Errorf("failed to persist message: %w", err)
		}
	}

	upstream, err := s.aiService.StreamChatCompletion(ctx, systemPrompt, session.transcript)
	if err != nil {
		return nil, fmt.Errorf("assistant stream failed: %w", err)
	}

	// Every send races ctx so an abandoned stream never strands this
	// goroutine on a full channel.
	out := make(chan StreamChunk, 8)
	go func() {
		defer close(out)

		var assembled string
		for chunk := range upstream {
			if chunk.Err != nil {
				select {
				case out <- chunk:
				case <-ctx.Done():
				}
				return
			}
			assembled += chunk.Text
			if !chunk.Done {
				select {
				case out <- chunk:
				case <-ctx.Done():
					return
				}
				continue
			}

			session.transcript = append(session.transcript, ChatMessage{Role: models.RoleAssistant, Content: assembled})
			if creating {
				if err := s.finalizeCreate(session); err != nil {
					select {
					case out <- StreamChunk{Err: err}:
					case <-ctx.Done():
					}
					return
				}
			} else {
				if _, err := s.convRepo.AppendMessage(session.userID, session.convID, models.RoleAssistant, assembled); err != nil {
					select {
					case out <- StreamChunk{Err: fmt.Errorf("failed to persist reply: %w", err)}:
					case <-ctx.Done():
					}
					return
				}
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

// stagePendingMessage caches the first user message. Re-sending the same text
// while PendingCreate is a retry, not a second message.
func (s *conversationService) stagePendingMessage(session *ChatSession, text string) {
	if session.state == StatePendingCreate && session.pendingFirst == text {
		return
	}
	if session.state == StateNoConversation {
		session.pendingFirst = text
	}
	session.transcript = append(session.transcript, ChatMessage{Role: models.RoleUser, Content: text})
	session.state = StatePendingCreate
}

// finalizeCreate persists the conversation once the first assistant reply is
// in. Creation is idempotent per first-message hash: a racing in-flight
// stream finding an existing row attaches to it instead of duplicating.
func (s *conversationService) finalizeCreate(session *ChatSession) error {
	hash := firstMessageHash(session.pendingFirst)

	if existing, err := s.convRepo.FindByFirstMessageHash(session.userID, hash); err == nil {
		session.convID = existing.ID
		session.state = StateActive
		return nil
	}

	now := time.Now()
	conv := &models.Conversation{
		ID:               uuid.New(),
		UserID:           session.userID,
		Title:            DeriveTitle(session.pendingFirst),
		FirstMessageHash: hash,
		LastMessageAt:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	seed := make([]models.Message, 0, len(session.transcript))
	for i, m := range session.transcript {
		seed = append(seed, models.Message{
			ID:        uuid.New(),
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	created, err := s.convRepo.Create(conv, seed)
	if err != nil {
		// Stay in PendingCreate; the caller may retry.
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	session.convID = created.ID
	session.state = StateActive
	return nil
}

// ListConversations implements ConversationService.
func (s *conversationService) ListConversations(userID uuid.UUID) ([]models.ConversationSummary, error) {
	convs, err := s.convRepo.FindManyByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		count, err := s.convRepo.CountMessages(c.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ConversationSummary{
			ID:            c.ID.String(),
			Title:         c.Title,
			IsFullscreen:  c.IsFullscreen,
			MessageCount:  count,
			LastMessageAt: c.LastMessageAt.Format(time.RFC3339),
			CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries, nil
}

// SetFullscreen implements ConversationService.
func (s *conversationService) SetFullscreen(userID, convID uuid.UUID, fullscreen bool) error {
	return s.convRepo.SetFullscreen(userID, convID, fullscreen)
}

// Delete implements ConversationService. The row and its messages go
// together; the session ends up terminal.
func (s *conversationService) Delete(session *ChatSession) error {
	if session.state == StateActive {
		if err := s.convRepo.Delete(session.userID, session.convID); err != nil {
			return err
		}
	}
	session.state = StateDeleted
	session.transcript = nil
	session.pendingFirst = ""
	return nil
}

// NormalizeContent converts arbitrary message content to plain text once, at
// the boundary. Strings pass through untouched, so the conversion is
// idempotent; nil becomes empty; anything else is JSON-serialized, with a
// fixed placeholder when serialization fails.
func NormalizeContent(content interface{}) string {
	switch v := content.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fallbackContent
		}
		return string(raw)
	}
}

// DeriveTitle builds a conversation title from its first message: truncated
// to 50 runes with an ellipsis. Non-string input falls back to a fixed title
// rather than failing.
func DeriveTitle(content interface{}) string {
	text, ok := content.(string)
	if !ok || text == "" {
		return fallbackTitle
	}

	runes := []rune(text)
	if len(runes) <= titleMaxLen {
		return text
	}
	return string(runes[:titleMaxLen]) + "..."
}

func firstMessageHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
