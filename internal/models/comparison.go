package models

import (
	"time"

	"github.com/google/uuid"
)

type ComparisonStatus string

const (
	ComparisonQueued     ComparisonStatus = "queued"
	ComparisonProcessing ComparisonStatus = "processing"
	ComparisonCompleted  ComparisonStatus = "completed"
	ComparisonFailed     ComparisonStatus = "failed"
)

// AdmissionCategory is the deterministic likelihood band computed locally,
// never by the AI step.
type AdmissionCategory string

const (
	CategoryAccessible AdmissionCategory = "accessible"
	CategoryStretch    AdmissionCategory = "stretch"
	CategoryReach      AdmissionCategory = "reach"
)

type Comparison struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	UserScore      float64           `gorm:"type:decimal(6,2);not null" json:"user_score"`
	FirstCode      string            `gorm:"type:text;not null" json:"first_code"`
	SecondCode     string            `gorm:"type:text;not null" json:"second_code"`
	FirstCategory  AdmissionCategory `gorm:"type:text" json:"first_category"`
	SecondCategory AdmissionCategory `gorm:"type:text" json:"second_category"`
	FirstDiff      float64           `gorm:"type:decimal(6,2)" json:"first_diff"`
	SecondDiff     float64           `gorm:"type:decimal(6,2)" json:"second_diff"`
	Status         ComparisonStatus  `gorm:"not null;default:'queued'" json:"status"`
	Analysis       *string           `gorm:"type:text" json:"analysis,omitempty"`
	ErrorMessage   *string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Comparison) TableName() string {
	return "comparisons"
}
