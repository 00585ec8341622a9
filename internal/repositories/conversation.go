package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"najahtn/orientation-api/internal/models"
)

type ConversationRepository interface {
	Create(conv *models.Conversation, seed []models.Message) (*models.Conversation, error)
	FindByID(userID, id uuid.UUID) (*models.Conversation, error)
	FindByFirstMessageHash(userID uuid.UUID, hash string) (*models.Conversation, error)
	FindManyByUser(userID uuid.UUID) ([]models.Conversation, error)
	AppendMessage(userID, convID uuid.UUID, role models.MessageRole, content string) (*models.Message, error)
	Messages(userID, convID uuid.UUID) ([]models.Message, error)
	CountMessages(convID uuid.UUID) (int64, error)
	SetFullscreen(userID, convID uuid.UUID, fullscreen bool) error
	Delete(userID, convID uuid.UUID) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create implements ConversationRepository. The conversation row and its seed
// messages (first user message plus the first assistant reply) are written in
// one transaction so a half-created conversation never surfaces.
func (r *conversationRepository) Create(conv *models.Conversation, seed []models.Message) (*models.Conversation, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for i := range seed {
			seed[i].ConversationID = conv.ID
			if err := tx.Create(&seed[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// FindByID implements ConversationRepository. Ownership is part of the query;
// another user's conversation is indistinguishable from a missing one.
func (r *conversationRepository) FindByID(userID, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

// FindByFirstMessageHash implements ConversationRepository. Used to keep
// conversation creation idempotent per first message.
func (r *conversationRepository) FindByFirstMessageHash(userID uuid.UUID, hash string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Where("user_id = ? AND first_message_hash = ?", userID, hash).
		Order("created_at DESC").
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find conversation by hash: %w", err)
	}
	return &conv, nil
}

// FindManyByUser implements ConversationRepository.
func (r *conversationRepository) FindManyByUser(userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// AppendMessage implements ConversationRepository.
func (r *conversationRepository) AppendMessage(userID, convID uuid.UUID, role models.MessageRole, content string) (*models.Message, error) {
	if _, err := r.FindByID(userID, convID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", convID).
			Updates(map[string]interface{}{
				"last_message_at": msg.CreatedAt,
				"updated_at":      msg.CreatedAt,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	return &msg, nil
}

// Messages implements ConversationRepository. Creation timestamp is the
// single source of truth for message order.
func (r *conversationRepository) Messages(userID, convID uuid.UUID) ([]models.Message, error) {
	if _, err := r.FindByID(userID, convID); err != nil {
		return nil, err
	}

	var msgs []models.Message
	err := r.db.Where("conversation_id = ?", convID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return msgs, nil
}

// CountMessages implements ConversationRepository.
func (r *conversationRepository) CountMessages(convID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ?", convID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// SetFullscreen implements ConversationRepository.
func (r *conversationRepository) SetFullscreen(userID, convID uuid.UUID, fullscreen bool) error {
	result := r.db.Model(&models.Conversation{}).
		Where("id = ? AND user_id = ?", convID, userID).
		Updates(map[string]interface{}{
			"is_fullscreen": fullscreen,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update fullscreen flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements ConversationRepository. The conversation and its messages
// go together.
func (r *conversationRepository) Delete(userID, convID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", convID, userID).Delete(&models.Conversation{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete conversation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		return nil
	})
}
