package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
)

// ComparatorService classifies admission likelihood deterministically and
// drives the AI analysis of a queued comparison. The classification never
// depends on the AI step.
type ComparatorService interface {
	Classify(userScore, programCutoff float64) models.ProgramClassification
	ClassifyProgram(userScore float64, program models.ProgramView) models.ProgramClassification
	AnalyzeComparison(ctx context.Context, cmpID uuid.UUID) error
}

type comparatorService struct {
	cmpRepo       repositories.ComparisonRepository
	catalog       CatalogService
	aiService     AIService
	promptBuilder *PromptBuilder
	margin        float64
	maxRetries    int
}

func NewComparatorService(
	cmpRepo repositories.ComparisonRepository,
	catalog CatalogService,
	aiService AIService,
	margin float64,
	maxRetries int,
) ComparatorService {
	return &comparatorService{
		cmpRepo:       cmpRepo,
		catalog:       catalog,
		aiService:     aiService,
		promptBuilder: NewPromptBuilder(),
		margin:        margin,
		maxRetries:    maxRetries,
	}
}

// Classify implements ComparatorService. The stretch band is ±margin points
// around the cutoff; the same margin applies to both compared programs so
// relative ranking stays meaningful.
func (s *comparatorService) Classify(userScore, programCutoff float64) models.ProgramClassification {
	diff := userScore - programCutoff

	var category models.AdmissionCategory
	var label, color string
	switch {
	case diff >= s.margin:
		category, label, color = models.CategoryAccessible, "حظوظ قبول مرتفعة", "green"
	case diff >= -s.margin:
		category, label, color = models.CategoryStretch, "حظوظ قبول متوسطة", "orange"
	default:
		category, label, color = models.CategoryReach, "حظوظ قبول ضعيفة", "red"
	}

	return models.ProgramClassification{
		Category:        string(category),
		ScoreDifference: diff,
		Label:           label,
		Color:           color,
	}
}

// ClassifyProgram implements ComparatorService. A program with no historical
// cutoff at all classifies as accessible with a zero difference.
func (s *comparatorService) ClassifyProgram(userScore float64, program models.ProgramView) models.ProgramClassification {
	if program.Stats.Latest == nil {
		return models.ProgramClassification{
			Code:            program.Code,
			Category:        string(models.CategoryAccessible),
			ScoreDifference: 0,
			Label:           "لا توجد مجاميع قبول سابقة",
			Color:           "gray",
		}
	}
	c := s.Classify(userScore, program.Stats.Latest.Score)
	c.Code = program.Code
	return c
}

// AnalyzeComparison implements ComparatorService. Runs on the worker: loads
// the queued row, asks the model for the free-text analysis and stores the
// prose verbatim. Only completion or failure is inspected, never the content.
func (s *comparatorService) AnalyzeComparison(ctx context.Context, cmpID uuid.UUID) error {
	if err := s.cmpRepo.Claim(cmpID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Already claimed or finished; the poller can hand out
			// duplicates of a job still sitting in the queue.
			return nil
		}
		return fmt.Errorf("failed to claim comparison: %w", err)
	}

	log.Printf("🔄 Starting AI analysis for comparison %s\n", cmpID)

	cmp, err := s.cmpRepo.FindByIDAnyUser(cmpID)
	if err != nil {
		s.cmpRepo.UpdateError(cmpID, err.Error())
		return fmt.Errorf("failed to get comparison: %w", err)
	}

	first, err := s.programView(cmp.FirstCode)
	if err != nil {
		s.cmpRepo.UpdateError(cmpID, err.Error())
		return err
	}
	second, err := s.programView(cmp.SecondCode)
	if err != nil {
		s.cmpRepo.UpdateError(cmpID, err.Error())
		return err
	}

	prompt := s.promptBuilder.BuildComparisonPrompt(
		cmp.UserScore, *first, *second, cmp.FirstCategory, cmp.SecondCategory,
	)

	analysis, err := s.aiService.GenerateTextWithRetry(ctx, prompt, 0.5, s.maxRetries)
	if err != nil {
		s.cmpRepo.UpdateError(cmpID, fmt.Sprintf("AI analysis failed: %v", err))
		return fmt.Errorf("failed to generate analysis: %w", err)
	}

	if err := s.cmpRepo.UpdateAnalysis(cmpID, analysis); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	log.Printf("✅ AI analysis completed for comparison %s\n", cmpID)
	return nil
}

func (s *comparatorService) programView(code string) (*models.ProgramView, error) {
	p, err := s.catalog.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("program %s not found: %w", code, err)
	}
	return &models.ProgramView{
		ProgramRecord: *p,
		Stats:         ComputeProgramStats(p.HistoricalScores),
	}, nil
}
