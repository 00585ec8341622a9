package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"najahtn/orientation-api/internal/models"
)

// FilterSpec is one view's worth of catalog filtering. Zero values mean "no
// constraint" except SevenPercent, which is tri-state.
type FilterSpec struct {
	Search         string
	FieldOfStudy   string
	UniversityName string
	BacTypeName    string
	Location       string
	Institution    string
	SevenPercent   *bool
	FavoritesOnly  bool
	SortBy         SortKey
}

type SortKey string

const (
	SortByLatestScore SortKey = "score"
	SortAlphabetical  SortKey = "alphabetical"
	SortByUniversity  SortKey = "university"
	SortByLocation    SortKey = "location"
)

// latestScoreYears is the fixed scan range for the most recent real admission
// cutoff, most recent first. A gap year falls back to the next older year.
const (
	latestScoreYearMax = 2024
	latestScoreYearMin = 2011
)

// collator sorts catalog strings with Arabic collation. collate.Collator is
// not safe for concurrent use, so each sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Arabic)
}

// ApplyFilters runs the catalog pipeline: free-text search, field-equality
// filters, favorites-only, then sort. Missing fields on a record never match
// an equality filter; they are data hygiene, not errors.
func (s *catalogService) ApplyFilters(spec FilterSpec, favorites []string) []models.ProgramView {
	favSet := make(map[string]struct{}, len(favorites))
	for _, code := range favorites {
		favSet[code] = struct{}{}
	}

	term := strings.ToLower(strings.TrimSpace(spec.Search))

	var matched []models.ProgramRecord
	for _, p := range s.programs {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if !matchesEquality(p, spec) {
			continue
		}
		if spec.FavoritesOnly {
			if _, ok := favSet[p.Code]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}

	sortPrograms(matched, spec.SortBy)

	views := make([]models.ProgramView, 0, len(matched))
	for _, p := range matched {
		views = append(views, models.ProgramView{
			ProgramRecord: p,
			Stats:         ComputeProgramStats(p.HistoricalScores),
		})
	}
	return views
}

func matchesSearch(p models.ProgramRecord, term string) bool {
	for _, field := range []string{
		p.Specialization, p.Institution, p.University, p.Location, p.Code,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesEquality(p models.ProgramRecord, spec FilterSpec) bool {
	if spec.FieldOfStudy != "" && p.FieldOfStudy != spec.FieldOfStudy {
		return false
	}
	if spec.UniversityName != "" && p.University != spec.UniversityName {
		return false
	}
	if spec.BacTypeName != "" && p.BacTypeName != spec.BacTypeName {
		return false
	}
	if spec.Location != "" && p.Location != spec.Location {
		return false
	}
	if spec.Institution != "" && p.Institution != spec.Institution {
		return false
	}
	if spec.SevenPercent != nil && p.SevenPercent != *spec.SevenPercent {
		return false
	}
	return true
}

func sortPrograms(programs []models.ProgramRecord, key SortKey) {
	switch key {
	case SortByLatestScore:
		sort.SliceStable(programs, func(i, j int) bool {
			li := LatestScoreOf(programs[i].HistoricalScores)
			lj := LatestScoreOf(programs[j].HistoricalScores)
			if li == nil {
				return false
			}
			if lj == nil {
				return true
			}
			return li.Score > lj.Score
		})
	case SortAlphabetical:
		sortByField(programs, func(p models.ProgramRecord) string { return p.Specialization })
	case SortByUniversity:
		sortByField(programs, func(p models.ProgramRecord) string { return p.University })
	case SortByLocation:
		sortByField(programs, func(p models.ProgramRecord) string { return p.Location })
	}
}

func sortByField(programs []models.ProgramRecord, field func(models.ProgramRecord) string) {
	c := newCollator()
	sort.SliceStable(programs, func(i, j int) bool {
		return c.CompareString(field(programs[i]), field(programs[j])) < 0
	})
}

// UniqueValues returns the distinct non-empty values of a filterable field,
// collated, for populating filter choice lists.
func (s *catalogService) UniqueValues(field string) []string {
	seen := make(map[string]struct{})
	for _, p := range s.programs {
		var v string
		switch field {
		case "field_of_study":
			v = p.FieldOfStudy
		case "university_name":
			v = p.University
		case "bac_type_name":
			v = p.BacTypeName
		case "table_location":
			v = p.Location
		case "table_institution":
			v = p.Institution
		}
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	c := newCollator()
	sort.Slice(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
	return values
}

// LatestScoreOf scans years from 2024 down to 2011 and returns the first pair
// whose score is present and > 0, or nil if no year qualifies.
func LatestScoreOf(historical map[string]float64) *models.LatestScore {
	for year := latestScoreYearMax; year >= latestScoreYearMin; year-- {
		score, ok := historical[yearKey(year)]
		if ok && score > 0 {
			return &models.LatestScore{Score: score, Year: year}
		}
	}
	return nil
}

// ComputeProgramStats derives the charting figures over the 5 most recent
// qualifying years, ordered oldest to newest.
func ComputeProgramStats(historical map[string]float64) models.ProgramStats {
	var recent []float64
	for year := latestScoreYearMax; year >= latestScoreYearMin && len(recent) < 5; year-- {
		score, ok := historical[yearKey(year)]
		if ok && score > 0 {
			recent = append(recent, score)
		}
	}

	stats := models.ProgramStats{
		Latest: LatestScoreOf(historical),
		Trend:  "stable",
	}
	if len(recent) == 0 {
		return stats
	}

	// recent is newest-first; flip for oldest→newest.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	var sum float64
	for _, s := range recent {
		sum += s
	}
	stats.AverageScore = math.Round(sum/float64(len(recent))*100) / 100

	// A ±1 point dead-band classifies noise as stable.
	delta := recent[len(recent)-1] - recent[0]
	switch {
	case delta > 1:
		stats.Trend = "increasing"
	case delta < -1:
		stats.Trend = "decreasing"
	}
	return stats
}

func yearKey(year int) string {
	return strconv.Itoa(year)
}
