package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"najahtn/orientation-api/internal/models"
)

type ComparisonRepository interface {
	Create(cmp *models.Comparison) error
	FindByID(userID, id uuid.UUID) (*models.Comparison, error)
	FindByIDAnyUser(id uuid.UUID) (*models.Comparison, error)
	Claim(id uuid.UUID) error
	UpdateAnalysis(id uuid.UUID, analysis string) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Comparison, error)
}

type comparisonRepository struct {
	db *gorm.DB
}

func NewComparisonRepository(db *gorm.DB) ComparisonRepository {
	return &comparisonRepository{db: db}
}

func (r *comparisonRepository) Create(cmp *models.Comparison) error {
	if err := r.db.Create(cmp).Error; err != nil {
		return fmt.Errorf("failed to create comparison: %w", err)
	}
	return nil
}

func (r *comparisonRepository) FindByID(userID, id uuid.UUID) (*models.Comparison, error) {
	var cmp models.Comparison
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&cmp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find comparison: %w", err)
	}
	return &cmp, nil
}

// FindByIDAnyUser is the worker-side lookup; ownership was checked when the
// job was enqueued.
func (r *comparisonRepository) FindByIDAnyUser(id uuid.UUID) (*models.Comparison, error) {
	var cmp models.Comparison
	if err := r.db.Where("id = ?", id).First(&cmp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find comparison: %w", err)
	}
	return &cmp, nil
}

// Claim flips a queued comparison to processing. The status condition makes
// the flip atomic: the poller can hand the same id to two workers, but only
// one claim succeeds; the loser gets ErrNotFound.
func (r *comparisonRepository) Claim(id uuid.UUID) error {
	result := r.db.Model(&models.Comparison{}).
		Where("id = ? AND status = ?", id, models.ComparisonQueued).
		Updates(map[string]interface{}{
			"status":     models.ComparisonProcessing,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to claim comparison: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *comparisonRepository) UpdateAnalysis(id uuid.UUID, analysis string) error {
	result := r.db.Model(&models.Comparison{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ComparisonCompleted,
			"analysis":   analysis,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *comparisonRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Comparison{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.ComparisonFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *comparisonRepository) FindPendingJobs(limit int) ([]models.Comparison, error) {
	var cmps []models.Comparison
	err := r.db.
		Where("status = ?", models.ComparisonQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&cmps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}
	return cmps, nil
}
