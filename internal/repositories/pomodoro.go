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

type PomodoroRepository interface {
	FindByUser(userID uuid.UUID) (*models.PomodoroSettings, error)
	Upsert(settings *models.PomodoroSettings) error
}

type pomodoroRepository struct {
	db *gorm.DB
}

func NewPomodoroRepository(db *gorm.DB) PomodoroRepository {
	return &pomodoroRepository{db: db}
}

// FindByUser implements PomodoroRepository.
func (r *pomodoroRepository) FindByUser(userID uuid.UUID) (*models.PomodoroSettings, error) {
	var settings models.PomodoroSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pomodoro settings: %w", err)
	}
	return &settings, nil
}

// Upsert implements PomodoroRepository. One settings row per user.
func (r *pomodoroRepository) Upsert(settings *models.PomodoroSettings) error {
	settings.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pomodoro_minutes", "short_break_minutes", "long_break_minutes",
			"cycles_before_long", "auto_start_breaks", "auto_start_pomodoros",
			"updated_at",
		}),
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to save pomodoro settings: %w", err)
	}
	return nil
}
