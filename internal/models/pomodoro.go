package models

import (
	"time"

	"github.com/google/uuid"
)

type PomodoroSettings struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PomodoroMinutes    int       `gorm:"not null;default:25" json:"pomodoro_minutes"`
	ShortBreakMinutes  int       `gorm:"not null;default:5" json:"short_break_minutes"`
	LongBreakMinutes   int       `gorm:"not null;default:15" json:"long_break_minutes"`
	CyclesBeforeLong   int       `gorm:"not null;default:4" json:"cycles_before_long"`
	AutoStartBreaks    bool      `gorm:"not null;default:false" json:"auto_start_breaks"`
	AutoStartPomodoros bool      `gorm:"not null;default:false" json:"auto_start_pomodoros"`
	CreatedAt          time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PomodoroSettings) TableName() string {
	return "pomodoro_settings"
}
