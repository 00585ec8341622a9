package services

import (
	"reflect"
	"testing"

	"najahtn/orientation-api/internal/models"
)

func testPrograms() []models.ProgramRecord {
	return []models.ProgramRecord{
		{
			Code: "101", Specialization: "الطب", University: "جامعة تونس المنار",
			Location: "تونس", BacTypeName: "علوم تجريبية", FieldOfStudy: "الطب",
			Institution: "كلية الطب بتونس",
			HistoricalScores: map[string]float64{"2022": 169.1, "2023": 171.4, "2024": 172.9},
		},
		{
			Code: "203", Specialization: "هندسة البرمجيات", University: "جامعة تونس المنار",
			Location: "أريانة", BacTypeName: "علوم الإعلامية", FieldOfStudy: "الإعلامية",
			Institution: "المعهد العالي للإعلامية", SevenPercent: true,
			HistoricalScores: map[string]float64{"2023": 141.2, "2024": 0},
		},
		{
			Code: "401", Specialization: "إدارة الأعمال", University: "جامعة سوسة",
			Location: "سوسة", BacTypeName: "اقتصاد وتصرف", FieldOfStudy: "الاقتصاد",
			Institution: "المعهد العالي للتصرف",
			HistoricalScores: map[string]float64{},
		},
	}
}

func testCatalog() *catalogService {
	return newCatalogFromPrograms(testPrograms())
}

func codes(views []models.ProgramView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Code)
	}
	return out
}

func TestLatestScore_SkipsZeroYears(t *testing.T) {
	got := LatestScoreOf(map[string]float64{"2024": 180, "2023": 0, "2022": 175})
	if got == nil || got.Score != 180 || got.Year != 2024 {
		t.Fatalf("got %+v, want score 180 year 2024", got)
	}

	got = LatestScoreOf(map[string]float64{"2024": 0, "2023": 0, "2022": 170})
	if got == nil || got.Score != 170 || got.Year != 2022 {
		t.Fatalf("got %+v, want score 170 year 2022", got)
	}
}

func TestLatestScore_AbsentWhenNothingQualifies(t *testing.T) {
	if got := LatestScoreOf(map[string]float64{}); got != nil {
		t.Fatalf("expected absent, got %+v", got)
	}
	// Outside the 2011-2024 scan range.
	if got := LatestScoreOf(map[string]float64{"2010": 150, "2025": 160}); got != nil {
		t.Fatalf("expected absent for out-of-range years, got %+v", got)
	}
}

func TestComputeProgramStats_Trend(t *testing.T) {
	cases := []struct {
		name   string
		scores map[string]float64
		want   string
	}{
		{"stable within deadband", map[string]float64{"2023": 100, "2024": 100.5}, "stable"},
		{"increasing", map[string]float64{"2023": 100, "2024": 102}, "increasing"},
		{"decreasing", map[string]float64{"2023": 102, "2024": 100}, "decreasing"},
		{"no data", map[string]float64{}, "stable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeProgramStats(tc.scores).Trend; got != tc.want {
				t.Errorf("trend = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestComputeProgramStats_AverageOverFiveMostRecent(t *testing.T) {
	scores := map[string]float64{
		"2018": 50, "2019": 100, "2020": 110, "2021": 120,
		"2022": 130, "2023": 140, "2024": 150,
	}
	stats := ComputeProgramStats(scores)
	// 2020..2024 only; 2018/2019 fall outside the 5-year window.
	want := (110.0 + 120 + 130 + 140 + 150) / 5
	if stats.AverageScore != want {
		t.Errorf("average = %v, want %v", stats.AverageScore, want)
	}
	if stats.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", stats.Trend)
	}
}

func TestComputeProgramStats_AverageRounded(t *testing.T) {
	stats := ComputeProgramStats(map[string]float64{"2023": 100.123, "2024": 100.456})
	if stats.AverageScore != 100.29 {
		t.Errorf("average = %v, want 100.29", stats.AverageScore)
	}
}

func TestApplyFilters_EmptySpecKeepsEverything(t *testing.T) {
	catalog := testCatalog()
	got := catalog.ApplyFilters(FilterSpec{}, nil)
	if len(got) != 3 {
		t.Fatalf("expected all 3 programs, got %d", len(got))
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	catalog := testCatalog()
	spec := FilterSpec{UniversityName: "جامعة تونس المنار", SortBy: SortByLatestScore}

	first := codes(catalog.ApplyFilters(spec, nil))
	second := codes(catalog.ApplyFilters(spec, nil))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same spec produced different results: %v vs %v", first, second)
	}
}

func TestApplyFilters_SearchMatchesAnyField(t *testing.T) {
	catalog := testCatalog()

	byCode := catalog.ApplyFilters(FilterSpec{Search: "203"}, nil)
	if len(byCode) != 1 || byCode[0].Code != "203" {
		t.Fatalf("search by code: got %v", codes(byCode))
	}

	byLocation := catalog.ApplyFilters(FilterSpec{Search: "سوسة"}, nil)
	if len(byLocation) != 1 || byLocation[0].Code != "401" {
		t.Fatalf("search by location: got %v", codes(byLocation))
	}
}

func TestApplyFilters_EqualityAndSevenPercent(t *testing.T) {
	catalog := testCatalog()

	seven := true
	got := catalog.ApplyFilters(FilterSpec{SevenPercent: &seven}, nil)
	if len(got) != 1 || got[0].Code != "203" {
		t.Fatalf("seven percent filter: got %v", codes(got))
	}

	got = catalog.ApplyFilters(FilterSpec{FieldOfStudy: "الطب"}, nil)
	if len(got) != 1 || got[0].Code != "101" {
		t.Fatalf("field filter: got %v", codes(got))
	}
}

func TestApplyFilters_FavoritesOnly(t *testing.T) {
	catalog := testCatalog()
	got := catalog.ApplyFilters(FilterSpec{FavoritesOnly: true}, []string{"401"})
	if len(got) != 1 || got[0].Code != "401" {
		t.Fatalf("favorites filter: got %v", codes(got))
	}

	got = catalog.ApplyFilters(FilterSpec{FavoritesOnly: true}, nil)
	if len(got) != 0 {
		t.Fatalf("favorites filter without favorites: got %v", codes(got))
	}
}

func TestApplyFilters_SortByLatestScoreAbsentLast(t *testing.T) {
	catalog := testCatalog()
	got := codes(catalog.ApplyFilters(FilterSpec{SortBy: SortByLatestScore}, nil))
	// 101 (172.9) > 203 (141.2, from 2023 after the 2024 gap) > 401 (none).
	want := []string{"101", "203", "401"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort order = %v, want %v", got, want)
	}
}

func TestUniqueValues_DeduplicatedAndNonEmpty(t *testing.T) {
	catalog := testCatalog()
	got := catalog.UniqueValues("university_name")
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct universities, got %v", got)
	}

	// Records with an empty field are excluded, not errors.
	progs := testPrograms()
	progs[0].FieldOfStudy = ""
	withGap := newCatalogFromPrograms(progs)
	for _, v := range withGap.UniqueValues("field_of_study") {
		if v == "" {
			t.Error("unique values must not contain empty strings")
		}
	}
}
