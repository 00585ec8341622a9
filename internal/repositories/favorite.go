package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"najahtn/orientation-api/internal/models"
)

type FavoriteRepository interface {
	Add(userID uuid.UUID, orientationCode string) (*models.Favorite, error)
	Remove(userID uuid.UUID, orientationCode string) error
	FindManyByUser(userID uuid.UUID) ([]models.Favorite, error)
	Codes(userID uuid.UUID) ([]string, error)
	Exists(userID uuid.UUID, orientationCode string) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add implements FavoriteRepository. One favorite per (user, code); adding an
// existing one is a no-op rather than an error.
func (r *favoriteRepository) Add(userID uuid.UUID, orientationCode string) (*models.Favorite, error) {
	fav := models.Favorite{
		ID:              uuid.New(),
		UserID:          userID,
		OrientationCode: orientationCode,
		CreatedAt:       time.Now(),
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "orientation_code"}},
		DoNothing: true,
	}).Create(&fav)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Conflict: nothing was inserted, so hand back the stored row
		// instead of the locally built one.
		var existing models.Favorite
		err := r.db.Where("user_id = ? AND orientation_code = ?", userID, orientationCode).
			First(&existing).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load existing favorite: %w", err)
		}
		return &existing, nil
	}
	return &fav, nil
}

// Remove implements FavoriteRepository.
func (r *favoriteRepository) Remove(userID uuid.UUID, orientationCode string) error {
	result := r.db.Where("user_id = ? AND orientation_code = ?", userID, orientationCode).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindManyByUser implements FavoriteRepository.
func (r *favoriteRepository) FindManyByUser(userID uuid.UUID) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

// Codes implements FavoriteRepository, for membership tests in the catalog
// filter pipeline.
func (r *favoriteRepository) Codes(userID uuid.UUID) ([]string, error) {
	favs, err := r.FindManyByUser(userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(favs))
	for _, f := range favs {
		codes = append(codes, f.OrientationCode)
	}
	return codes, nil
}

// Exists implements FavoriteRepository.
func (r *favoriteRepository) Exists(userID uuid.UUID, orientationCode string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND orientation_code = ?", userID, orientationCode).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
