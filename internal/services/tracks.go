package services

import (
	"fmt"
	"sort"
)

// GradeSet maps a subject identifier to a grade on the 0-20 scale.
type GradeSet map[string]float64

// Formula is the track-specific admission score (FG): a fixed weight on the
// general average plus fixed weights on individual subjects. Pure data, no
// per-track code dispatch.
type Formula struct {
	GeneralWeight  float64
	SubjectWeights map[string]float64
}

// Track is one academic stream of the baccalauréat. The subject table drives
// the general average; the formula drives the admission score. Tracks are
// defined at process start and never mutated.
type Track struct {
	ID       string
	Name     string
	Subjects map[string]float64
	Formula  Formula
}

var ErrInvalidTrack = fmt.Errorf("invalid track")

// trackRegistry enumerates the official FG tables. The subject weights are
// fixed constants, not derived from the coefficient tables.
var trackRegistry = map[string]*Track{
	"math": {
		ID:   "math",
		Name: "Mathématiques",
		Subjects: map[string]float64{
			"math": 4, "physics": 4, "svt": 1, "french": 1,
			"english": 1, "arabic": 1, "philosophy": 1, "informatics": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"math": 2, "physics": 1.5,
			},
		},
	},
	"science": {
		ID:   "science",
		Name: "Sciences Expérimentales",
		Subjects: map[string]float64{
			"math": 3, "physics": 4, "svt": 4, "french": 1,
			"english": 1, "arabic": 1, "philosophy": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"svt": 1.5, "physics": 1.5, "math": 1,
			},
		},
	},
	"informatique": {
		ID:   "informatique",
		Name: "Sciences de l'Informatique",
		Subjects: map[string]float64{
			"math": 3, "algorithmics": 3, "physics": 2, "database": 1.5,
			"french": 1, "english": 1, "arabic": 1, "philosophy": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"math": 1.5, "algorithmics": 1.5, "physics": 0.5,
				"database": 0.5, "french": 0.5, "english": 0.5,
			},
		},
	},
	"economie": {
		ID:   "economie",
		Name: "Économie et Gestion",
		Subjects: map[string]float64{
			"economics": 3, "gestion": 3, "math": 2, "history_geo": 2,
			"french": 1, "english": 1, "arabic": 1, "philosophy": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"economics": 1.5, "gestion": 1.5, "math": 0.5, "history_geo": 0.5,
			},
		},
	},
	"technique": {
		ID:   "technique",
		Name: "Sciences Techniques",
		Subjects: map[string]float64{
			"technical": 4, "math": 3, "physics": 3, "french": 1,
			"english": 1, "arabic": 1, "philosophy": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"technical": 1.5, "math": 1.5, "physics": 1,
			},
		},
	},
	"lettres": {
		ID:   "lettres",
		Name: "Lettres",
		Subjects: map[string]float64{
			"arabic": 4, "philosophy": 3, "history_geo": 3,
			"french": 1.5, "english": 1.5,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"arabic": 1.5, "philosophy": 1.5, "history_geo": 1,
			},
		},
	},
	"sport": {
		ID:   "sport",
		Name: "Sport",
		Subjects: map[string]float64{
			"sport": 4, "svt": 3, "physics": 2, "french": 1,
			"english": 1, "arabic": 1, "philosophy": 1,
		},
		Formula: Formula{
			GeneralWeight: 4,
			SubjectWeights: map[string]float64{
				"sport": 1.5, "svt": 1, "physics": 0.5,
			},
		},
	},
}

// GetTrack looks up a track by identifier. Unknown identifiers fail closed,
// no default track is substituted.
func GetTrack(id string) (*Track, error) {
	track, ok := trackRegistry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrack, id)
	}
	return track, nil
}

// ListTracks returns every registered track, ordered by identifier.
func ListTracks() []*Track {
	tracks := make([]*Track, 0, len(trackRegistry))
	for _, t := range trackRegistry {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
	return tracks
}
