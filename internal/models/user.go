package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExternalID string    `gorm:"type:text;uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"type:text" json:"email"`
	Name       string    `gorm:"type:text" json:"name"`
	BacTrack   string    `gorm:"type:text" json:"bac_track"`
	BacScore   *float64  `gorm:"type:decimal(6,2)" json:"bac_score,omitempty"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}
