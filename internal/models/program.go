package models

// ProgramRecord is one entry of the static orientation catalog. The catalog
// is loaded once at startup and treated as read-only afterwards.
type ProgramRecord struct {
	Code              string             `json:"ramz"`
	Specialization    string             `json:"specialization"`
	Institution       string             `json:"table_institution"`
	University        string             `json:"university_name"`
	Location          string             `json:"table_location"`
	BacTypeName       string             `json:"bac_type_name"`
	FieldOfStudy      string             `json:"field_of_study"`
	SevenPercent      bool               `json:"seven_percent"`
	AdmissionCriteria string             `json:"admission_criteria"`
	HistoricalScores  map[string]float64 `json:"historical_scores"`
}

// LatestScore is the most recent non-zero historical cutoff of a program.
type LatestScore struct {
	Score float64 `json:"score"`
	Year  int     `json:"year"`
}

// ProgramStats carries the derived per-program figures served alongside a
// catalog record.
type ProgramStats struct {
	Latest       *LatestScore `json:"latest_score,omitempty"`
	AverageScore float64      `json:"average_score"`
	Trend        string       `json:"trend"`
}

type ProgramView struct {
	ProgramRecord
	Stats ProgramStats `json:"stats"`
}
