package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"najahtn/orientation-api/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist or does not
// belong to the caller. Callers treat it as a normal negative result.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	UpsertByExternalID(externalID, email, name string) (*models.User, error)
	FindByExternalID(externalID string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	UpdateProfile(id uuid.UUID, bacTrack string, bacScore *float64) error
	DeleteByExternalID(externalID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertByExternalID implements UserRepository. The auth provider is the
// source of truth for identity; rows are created lazily on first sight of an
// external id and refreshed on conflict.
func (r *userRepository) UpsertByExternalID(externalID, email, name string) (*models.User, error) {
	user := models.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.FindByExternalID(externalID)
}

// FindByExternalID implements UserRepository.
func (r *userRepository) FindByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByID implements UserRepository.
func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// UpdateProfile implements UserRepository.
func (r *userRepository) UpdateProfile(id uuid.UUID, bacTrack string, bacScore *float64) error {
	updates := map[string]interface{}{
		"bac_track":  bacTrack,
		"updated_at": time.Now(),
	}
	if bacScore != nil {
		updates["bac_score"] = *bacScore
	}

	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByExternalID implements UserRepository.
func (r *userRepository) DeleteByExternalID(externalID string) error {
	result := r.db.Where("external_id = ?", externalID).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
