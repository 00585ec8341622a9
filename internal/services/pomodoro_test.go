package services

import (
	"testing"

	"najahtn/orientation-api/internal/models"
)

func testSettings() models.PomodoroSettings {
	s := DefaultPomodoroSettings()
	s.PomodoroMinutes = 1
	s.ShortBreakMinutes = 1
	s.LongBreakMinutes = 2
	return s
}

func TestPomodoroTimer_InitialState(t *testing.T) {
	timer := NewPomodoroTimer(DefaultPomodoroSettings())
	if timer.Phase() != PhasePomodoro {
		t.Errorf("phase = %v", timer.Phase())
	}
	if timer.Remaining() != 25*60 {
		t.Errorf("remaining = %d, want %d", timer.Remaining(), 25*60)
	}
	if timer.Running() {
		t.Error("should start paused")
	}
}

func TestPomodoroTimer_TickCountsDownOnlyWhileRunning(t *testing.T) {
	timer := NewPomodoroTimer(testSettings())

	timer.Tick(10)
	if timer.Remaining() != 60 {
		t.Errorf("paused timer ticked: remaining = %d", timer.Remaining())
	}

	timer.Start()
	timer.Tick(10)
	if timer.Remaining() != 50 {
		t.Errorf("remaining = %d, want 50", timer.Remaining())
	}

	timer.Pause()
	timer.Tick(10)
	if timer.Remaining() != 50 {
		t.Errorf("paused timer ticked: remaining = %d", timer.Remaining())
	}
}

func TestPomodoroTimer_CrossingZeroEntersShortBreak(t *testing.T) {
	timer := NewPomodoroTimer(testSettings())
	timer.Start()
	timer.Tick(61)

	if timer.Phase() != PhaseShortBreak {
		t.Fatalf("phase = %v, want short_break", timer.Phase())
	}
	if timer.Completed() != 1 {
		t.Errorf("completed = %d, want 1", timer.Completed())
	}
	if timer.Running() {
		t.Error("break should not auto-start by default")
	}
	if timer.Remaining() != 60 {
		t.Errorf("break remaining = %d, want 60", timer.Remaining())
	}
}

func TestPomodoroTimer_LongBreakEveryFourth(t *testing.T) {
	timer := NewPomodoroTimer(testSettings())

	for i := 1; i <= 4; i++ {
		timer.Skip() // finish pomodoro i
		want := PhaseShortBreak
		if i == 4 {
			want = PhaseLongBreak
		}
		if timer.Phase() != want {
			t.Fatalf("after pomodoro %d: phase = %v, want %v", i, timer.Phase(), want)
		}
		if want == PhaseLongBreak && timer.Remaining() != 120 {
			t.Errorf("long break remaining = %d, want 120", timer.Remaining())
		}
		timer.Skip() // finish break
		if timer.Phase() != PhasePomodoro {
			t.Fatalf("after break %d: phase = %v", i, timer.Phase())
		}
	}

	if timer.Completed() != 4 {
		t.Errorf("completed = %d, want 4", timer.Completed())
	}
}

func TestPomodoroTimer_AutoStartFlags(t *testing.T) {
	settings := testSettings()
	settings.AutoStartBreaks = true
	settings.AutoStartPomodoros = true

	timer := NewPomodoroTimer(settings)
	timer.Skip()
	if !timer.Running() {
		t.Error("break should auto-start")
	}
	timer.Skip()
	if !timer.Running() {
		t.Error("next pomodoro should auto-start")
	}
}

func TestPomodoroTimer_ResetKeepsCompletedCount(t *testing.T) {
	timer := NewPomodoroTimer(testSettings())
	timer.Skip()
	timer.Start()
	timer.Tick(30)

	timer.Reset()
	if timer.Phase() != PhasePomodoro {
		t.Errorf("phase = %v", timer.Phase())
	}
	if timer.Remaining() != 60 {
		t.Errorf("remaining = %d, want full pomodoro", timer.Remaining())
	}
	if timer.Running() {
		t.Error("reset timer should be paused")
	}
	if timer.Completed() != 1 {
		t.Errorf("completed = %d, reset should not clear it", timer.Completed())
	}
}

func TestDefaultPomodoroSettings(t *testing.T) {
	s := DefaultPomodoroSettings()
	if s.PomodoroMinutes != 25 || s.ShortBreakMinutes != 5 || s.LongBreakMinutes != 15 || s.CyclesBeforeLong != 4 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}
