package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
)

func testComparator(margin float64) ComparatorService {
	return NewComparatorService(nil, nil, nil, margin, 1)
}

// mockComparisonRepo implements repositories.ComparisonRepository around a
// single row.
type mockComparisonRepo struct {
	cmp *models.Comparison
}

func (m *mockComparisonRepo) Create(cmp *models.Comparison) error {
	m.cmp = cmp
	return nil
}

func (m *mockComparisonRepo) FindByID(userID, id uuid.UUID) (*models.Comparison, error) {
	if m.cmp == nil || m.cmp.ID != id || m.cmp.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return m.cmp, nil
}

func (m *mockComparisonRepo) FindByIDAnyUser(id uuid.UUID) (*models.Comparison, error) {
	if m.cmp == nil || m.cmp.ID != id {
		return nil, repositories.ErrNotFound
	}
	return m.cmp, nil
}

func (m *mockComparisonRepo) Claim(id uuid.UUID) error {
	if m.cmp == nil || m.cmp.ID != id || m.cmp.Status != models.ComparisonQueued {
		return repositories.ErrNotFound
	}
	m.cmp.Status = models.ComparisonProcessing
	return nil
}

func (m *mockComparisonRepo) UpdateAnalysis(id uuid.UUID, analysis string) error {
	if m.cmp == nil || m.cmp.ID != id {
		return repositories.ErrNotFound
	}
	m.cmp.Status = models.ComparisonCompleted
	m.cmp.Analysis = &analysis
	return nil
}

func (m *mockComparisonRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	if m.cmp == nil || m.cmp.ID != id {
		return repositories.ErrNotFound
	}
	m.cmp.Status = models.ComparisonFailed
	m.cmp.ErrorMessage = &errorMsg
	return nil
}

func (m *mockComparisonRepo) FindPendingJobs(limit int) ([]models.Comparison, error) {
	if m.cmp != nil && m.cmp.Status == models.ComparisonQueued {
		return []models.Comparison{*m.cmp}, nil
	}
	return nil, nil
}

func TestClassify_Bands(t *testing.T) {
	cmp := testComparator(10)

	cases := []struct {
		userScore float64
		cutoff    float64
		want      string
	}{
		{150, 130, string(models.CategoryAccessible)},
		{140, 130, string(models.CategoryAccessible)}, // diff == margin
		{135, 130, string(models.CategoryStretch)},
		{125, 130, string(models.CategoryStretch)},
		{120, 130, string(models.CategoryStretch)}, // diff == -margin
		{119, 130, string(models.CategoryReach)},
		{100, 130, string(models.CategoryReach)},
	}
	for _, tc := range cases {
		got := cmp.Classify(tc.userScore, tc.cutoff)
		if got.Category != tc.want {
			t.Errorf("Classify(%v, %v) = %q, want %q", tc.userScore, tc.cutoff, got.Category, tc.want)
		}
		if want := tc.userScore - tc.cutoff; got.ScoreDifference != want {
			t.Errorf("Classify(%v, %v) diff = %v, want %v", tc.userScore, tc.cutoff, got.ScoreDifference, want)
		}
	}
}

func TestClassify_SameMarginForBothPrograms(t *testing.T) {
	cmp := testComparator(10)

	first := cmp.Classify(128, 130)
	second := cmp.Classify(128, 150)
	if first.Category != string(models.CategoryStretch) {
		t.Errorf("first = %q, want stretch", first.Category)
	}
	if second.Category != string(models.CategoryReach) {
		t.Errorf("second = %q, want reach", second.Category)
	}
	// Relative ranking must follow the score differences.
	if first.ScoreDifference <= second.ScoreDifference {
		t.Error("closer program must have the larger difference")
	}
}

func TestClassifyProgram_NoHistoryIsAccessible(t *testing.T) {
	cmp := testComparator(10)
	program := models.ProgramView{
		ProgramRecord: models.ProgramRecord{Code: "401"},
	}
	got := cmp.ClassifyProgram(120, program)
	if got.Category != string(models.CategoryAccessible) {
		t.Errorf("category = %q, want accessible", got.Category)
	}
	if got.Code != "401" {
		t.Errorf("code = %q, want 401", got.Code)
	}
}

func TestAnalyzeComparison_DuplicateDeliveryRunsOnce(t *testing.T) {
	repo := &mockComparisonRepo{cmp: &models.Comparison{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		UserScore:  150,
		FirstCode:  "101",
		SecondCode: "203",
		Status:     models.ComparisonQueued,
	}}
	ai := &mockAI{reply: "تحليل"}
	svc := NewComparatorService(repo, testCatalog(), ai, 10, 1)

	if err := svc.AnalyzeComparison(context.Background(), repo.cmp.ID); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if repo.cmp.Status != models.ComparisonCompleted {
		t.Fatalf("status = %v, want completed", repo.cmp.Status)
	}
	if repo.cmp.Analysis == nil || *repo.cmp.Analysis != "تحليل" {
		t.Fatalf("analysis not stored: %v", repo.cmp.Analysis)
	}

	// The poller can enqueue a job that is already in flight or finished;
	// the second delivery must claim nothing and skip the AI call.
	if err := svc.AnalyzeComparison(context.Background(), repo.cmp.ID); err != nil {
		t.Fatalf("duplicate delivery errored: %v", err)
	}
	if ai.textCalls != 1 {
		t.Errorf("AI called %d times, want 1", ai.textCalls)
	}
}

func TestClassifyProgram_UsesLatestCutoff(t *testing.T) {
	cmp := testComparator(10)
	program := models.ProgramView{
		ProgramRecord: models.ProgramRecord{Code: "101"},
		Stats: models.ProgramStats{
			Latest: &models.LatestScore{Score: 172.9, Year: 2024},
		},
	}
	got := cmp.ClassifyProgram(120, program)
	if got.Category != string(models.CategoryReach) {
		t.Errorf("category = %q, want reach", got.Category)
	}
	if want := 120 - 172.9; got.ScoreDifference != want {
		t.Errorf("diff = %v, want %v", got.ScoreDifference, want)
	}
}
