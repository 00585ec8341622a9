package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_orientation" json:"user_id"`
	OrientationCode string    `gorm:"type:text;not null;uniqueIndex:idx_user_orientation" json:"orientation_code"`
	CreatedAt       time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}
