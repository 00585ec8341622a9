package services

import (
	"najahtn/orientation-api/internal/models"
)

// PomodoroPhase is the current segment of the study cycle.
type PomodoroPhase string

const (
	PhasePomodoro   PomodoroPhase = "pomodoro"
	PhaseShortBreak PomodoroPhase = "short_break"
	PhaseLongBreak  PomodoroPhase = "long_break"
)

// PomodoroTimer is a countdown state machine cycling pomodoro → break, with a
// long break every N pomodoros. Independent of the rest of the system; the
// persisted settings only seed the durations.
type PomodoroTimer struct {
	settings  models.PomodoroSettings
	phase     PomodoroPhase
	remaining int // seconds
	running   bool
	completed int
}

func NewPomodoroTimer(settings models.PomodoroSettings) *PomodoroTimer {
	t := &PomodoroTimer{settings: settings}
	t.enterPhase(PhasePomodoro, false)
	return t
}

func (t *PomodoroTimer) Phase() PomodoroPhase { return t.phase }
func (t *PomodoroTimer) Remaining() int       { return t.remaining }
func (t *PomodoroTimer) Running() bool        { return t.running }
func (t *PomodoroTimer) Completed() int       { return t.completed }

func (t *PomodoroTimer) Start() { t.running = true }
func (t *PomodoroTimer) Pause() { t.running = false }

// Reset returns to a fresh, stopped pomodoro without touching the completed
// count.
func (t *PomodoroTimer) Reset() {
	t.enterPhase(PhasePomodoro, false)
}

// Tick advances the countdown by the given number of seconds. Crossing zero
// advances the cycle.
func (t *PomodoroTimer) Tick(seconds int) {
	if !t.running || seconds <= 0 {
		return
	}
	t.remaining -= seconds
	if t.remaining > 0 {
		return
	}
	t.advance()
}

// Skip ends the current phase immediately.
func (t *PomodoroTimer) Skip() {
	t.advance()
}

func (t *PomodoroTimer) advance() {
	switch t.phase {
	case PhasePomodoro:
		t.completed++
		next := PhaseShortBreak
		if t.settings.CyclesBeforeLong > 0 && t.completed%t.settings.CyclesBeforeLong == 0 {
			next = PhaseLongBreak
		}
		t.enterPhase(next, t.settings.AutoStartBreaks)
	default:
		t.enterPhase(PhasePomodoro, t.settings.AutoStartPomodoros)
	}
}

func (t *PomodoroTimer) enterPhase(phase PomodoroPhase, running bool) {
	t.phase = phase
	t.running = running
	switch phase {
	case PhaseShortBreak:
		t.remaining = t.settings.ShortBreakMinutes * 60
	case PhaseLongBreak:
		t.remaining = t.settings.LongBreakMinutes * 60
	default:
		t.remaining = t.settings.PomodoroMinutes * 60
	}
}

// DefaultPomodoroSettings is the timer a user gets before saving their own.
func DefaultPomodoroSettings() models.PomodoroSettings {
	return models.PomodoroSettings{
		PomodoroMinutes:   25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		CyclesBeforeLong:  4,
	}
}
