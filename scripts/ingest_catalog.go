package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"najahtn/orientation-api/internal/models"
)

// Converts the raw ministry orientation table (CSV export) into the embedded
// catalog dataset.
//
// Usage: go run scripts/ingest_catalog.go <input.csv> <output.json>
//
// Expected columns: ramz, specialization, table_institution, university_name,
// table_location, bac_type_name, field_of_study, seven_percent,
// admission_criteria, then one column per year (2011..2024) with the cutoff
// score, 0 or empty meaning "not offered".
func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <input.csv> <output.json>", os.Args[0])
	}

	in, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("❌ Failed to open input: %v", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	rows, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("❌ Failed to read CSV: %v", err)
	}
	if len(rows) < 2 {
		log.Fatal("❌ CSV has no data rows")
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var yearCols []string
	for year := 2011; year <= 2024; year++ {
		key := strconv.Itoa(year)
		if _, ok := col[key]; ok {
			yearCols = append(yearCols, key)
		}
	}

	programs := make([]models.ProgramRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		record := models.ProgramRecord{
			Code:              get("ramz"),
			Specialization:    get("specialization"),
			Institution:       get("table_institution"),
			University:        get("university_name"),
			Location:          get("table_location"),
			BacTypeName:       get("bac_type_name"),
			FieldOfStudy:      get("field_of_study"),
			SevenPercent:      get("seven_percent") == "1" || get("seven_percent") == "true",
			AdmissionCriteria: get("admission_criteria"),
			HistoricalScores:  make(map[string]float64, len(yearCols)),
		}
		if record.Code == "" {
			continue
		}

		for _, year := range yearCols {
			raw := get(year)
			if raw == "" {
				continue
			}
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Printf("⚠️  %s: bad score %q for %s, skipping", record.Code, raw, year)
				continue
			}
			record.HistoricalScores[year] = score
		}

		programs = append(programs, record)
	}

	out, err := json.MarshalIndent(programs, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to encode dataset: %v", err)
	}
	if err := os.WriteFile(os.Args[2], out, 0644); err != nil {
		log.Fatalf("❌ Failed to write output: %v", err)
	}

	fmt.Printf("✅ Wrote %d programs to %s\n", len(programs), os.Args[2])
}
