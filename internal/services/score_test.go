package services

import (
	"math"
	"testing"
)

func TestComputeGeneralAverage_EmptyGrades(t *testing.T) {
	track, err := GetTrack("science")
	if err != nil {
		t.Fatalf("track lookup failed: %v", err)
	}
	if got := ComputeGeneralAverage(GradeSet{}, track); got != 0 {
		t.Errorf("expected 0 for empty grade set, got %v", got)
	}
}

func TestComputeGeneralAverage_IgnoresUnknownSubjects(t *testing.T) {
	track, _ := GetTrack("science")
	base := ComputeGeneralAverage(GradeSet{"math": 12, "physics": 14}, track)
	withNoise := ComputeGeneralAverage(GradeSet{"math": 12, "physics": 14, "astrology": 20}, track)
	if base != withNoise {
		t.Errorf("unknown subject changed the average: %v vs %v", base, withNoise)
	}
}

func TestComputeGeneralAverage_AbsentSubjectIsAbsent(t *testing.T) {
	track, _ := GetTrack("science")
	// svt absent: it must not count as zero in either sum.
	got := ComputeGeneralAverage(GradeSet{"math": 10, "physics": 10}, track)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestComputeAdmissionScore_GoldenScienceTrack(t *testing.T) {
	track, err := GetTrack("science")
	if err != nil {
		t.Fatalf("track lookup failed: %v", err)
	}

	grades := GradeSet{"math": 15, "physics": 14, "svt": 12, "french": 10, "english": 11}
	result := ComputeAdmissionScore(grades, track)

	// MG over the five graded subjects (coefs 3,4,4,1,1).
	wantMG := (15*3 + 14*4 + 12*4 + 10*1 + 11*1) / 13.0
	if math.Abs(result.GeneralAverage-wantMG) > 1e-9 {
		t.Errorf("general average = %v, want %v", result.GeneralAverage, wantMG)
	}

	// FG = 4MG + 1.5SVT + 1.5SP + 1M
	wantFG := 4*wantMG + 1.5*12 + 1.5*14 + 1*15
	if math.Abs(result.AdmissionScore-wantFG) > 1e-9 {
		t.Errorf("admission score = %v, want %v", result.AdmissionScore, wantFG)
	}
	if result.AdmissionScore != result.SpecificScore {
		t.Error("admission score must alias specific score")
	}
}

func TestComputeAdmissionScore_MissingGradeCountsAsZeroInFormula(t *testing.T) {
	track, _ := GetTrack("science")

	full := ComputeAdmissionScore(GradeSet{"math": 10, "physics": 10, "svt": 10}, track)
	noSVT := ComputeAdmissionScore(GradeSet{"math": 10, "physics": 10}, track)

	// Dropping svt changes MG (it leaves both sums) but zeroes its formula
	// term entirely.
	wantMG := (10*3 + 10*4) / 7.0
	wantFG := 4*wantMG + 1.5*0 + 1.5*10 + 1*10
	if math.Abs(noSVT.AdmissionScore-wantFG) > 1e-9 {
		t.Errorf("admission score without svt = %v, want %v", noSVT.AdmissionScore, wantFG)
	}
	if noSVT.AdmissionScore >= full.AdmissionScore {
		t.Error("missing a weighted subject should be punitive")
	}
}

func TestClassifyScore_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		level string
	}{
		{130, "high"},
		{129.999, "medium"},
		{110, "medium"},
		{109.999, "low"},
		{0, "low"},
		{200, "high"},
	}
	for _, tc := range cases {
		if got := ClassifyScore(tc.score); got.Level != tc.level {
			t.Errorf("ClassifyScore(%v).Level = %q, want %q", tc.score, got.Level, tc.level)
		}
	}
}

func TestGetTrack_UnknownFailsClosed(t *testing.T) {
	if _, err := GetTrack("alchemy"); err == nil {
		t.Fatal("expected error for unknown track")
	}
}

func TestListTracks_SortedAndComplete(t *testing.T) {
	tracks := ListTracks()
	if len(tracks) != len(trackRegistry) {
		t.Fatalf("expected %d tracks, got %d", len(trackRegistry), len(tracks))
	}
	for i := 1; i < len(tracks); i++ {
		if tracks[i-1].ID >= tracks[i].ID {
			t.Errorf("tracks not sorted: %q before %q", tracks[i-1].ID, tracks[i].ID)
		}
	}
	for _, track := range tracks {
		if track.Formula.GeneralWeight != 4 {
			t.Errorf("track %q: general average weight must be 4", track.ID)
		}
	}
}
