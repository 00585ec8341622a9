package services

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"najahtn/orientation-api/internal/models"
)

//go:embed data/programs.json
var catalogData embed.FS

// CatalogService holds the static orientation catalog. The dataset is decoded
// once at startup and read-only afterwards; every filter call works on the
// same slice.
type CatalogService interface {
	Programs() []models.ProgramRecord
	FindByCode(code string) (*models.ProgramRecord, error)
	ApplyFilters(spec FilterSpec, favorites []string) []models.ProgramView
	UniqueValues(field string) []string
}

type catalogService struct {
	programs []models.ProgramRecord
	byCode   map[string]*models.ProgramRecord
}

var ErrProgramNotFound = fmt.Errorf("program not found")

func NewCatalogService() (CatalogService, error) {
	raw, err := catalogData.ReadFile("data/programs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog dataset: %w", err)
	}

	var programs []models.ProgramRecord
	if err := json.Unmarshal(raw, &programs); err != nil {
		return nil, fmt.Errorf("failed to decode catalog dataset: %w", err)
	}

	svc := newCatalogFromPrograms(programs)
	log.Printf("✅ Catalog loaded: %d programs\n", len(programs))
	return svc, nil
}

func newCatalogFromPrograms(programs []models.ProgramRecord) *catalogService {
	byCode := make(map[string]*models.ProgramRecord, len(programs))
	for i := range programs {
		byCode[programs[i].Code] = &programs[i]
	}
	return &catalogService{programs: programs, byCode: byCode}
}

// Programs implements CatalogService.
func (s *catalogService) Programs() []models.ProgramRecord {
	return s.programs
}

// FindByCode implements CatalogService.
func (s *catalogService) FindByCode(code string) (*models.ProgramRecord, error) {
	p, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, code)
	}
	return p, nil
}
